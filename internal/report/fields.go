// internal/report/fields.go
package report

// Fields is the completed session record handed to the renderer: every
// value already formatted for display.
type Fields struct {
	Microscope        string // e.g. "Titan Krios"
	Detector          string // commercial name, with "(counting)" when counting mode is on
	Voltage           string // "300 keV"
	Software          string // "EPU v 3.7.0"
	MovieFormat       string // "eer", "tiff" or "N/A"
	Apertures         string // C1, C2, C3 joined with ", "
	ObjectiveAperture string
	DefocusRange      string // max first, intentional
	TiltAngle         string // single value or "min to max"
	SpotSize          string
	Magnification     string // "105 000 x"
	PixelSize         string // ångströms, 3 decimals
	DoseRate          string
	TotalDose         string
	SlitWidth         string
	ExposureTime      string
	FrameRate         string
	Frames            string
}
