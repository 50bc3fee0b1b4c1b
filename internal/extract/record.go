// internal/extract/record.go
package extract

import "fmt"

// Record holds the fields extracted from one exposure document. Built once
// per document, read-only afterwards.
type Record struct {
	InstrumentModel string
	Title           string // display name derived from the model
	Detector        string
	CountingMode    string
	VoltageVolts    float64
	Software        string
	SoftwareVersion string // truncated to three dot components

	ApertureC1        string
	ApertureC2        string
	ApertureC3        string
	ApertureObjective string
	SpotIndex         string
	Magnification     string

	PixelSizeMeters float64
	TiltDegrees     float64 // stage alpha tilt, 1 decimal
	DefocusMicrons  float64

	DetectorDose    string
	Dose            string
	SlitWidth       string
	ExposureSeconds float64
	FrameRate       string

	// Movie probing, first two documents only. FrameCount is -1 when the
	// movie was not probed or could not be.
	MovieFormat string
	FrameCount  int
}

// MismatchError is a cross-field inconsistency inside one document: two
// readings of the same physical quantity disagree. Fatal for the whole run.
type MismatchError struct {
	Field string
	A, B  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s readings disagree: %s vs %s", e.Field, e.A, e.B)
}
