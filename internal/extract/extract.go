// internal/extract/extract.go
// Package extract runs the fixed battery of field lookups against one EPU
// sidecar document and checks the values for internal consistency.
package extract

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"epureport/internal/epuxml"
	"epureport/internal/imod"
)

// Movie files sit next to the sidecar XML, base name shared, EER preferred
// over TIFF fractions.
const (
	eerSuffix  = "_EER.eer"
	tiffSuffix = "_Fractions.tiff"
)

// Extractor extracts one Record per document. Frames is the movie prober
// (imod.FrameCount in production); it is only consulted for the first two
// documents when ProbeMovies is set.
type Extractor struct {
	ProbeMovies bool
	Frames      func(path string) (int, error)
	Trace       io.Writer // per-field tag/value dump, nil = quiet
	Warn        io.Writer // warnings (missing movie, missing tool), nil = quiet
}

// Extract builds the acquisition record for doc, the index-th document of
// the session.
func (x *Extractor) Extract(doc *epuxml.Document, index int) (Record, error) {
	root := doc.Root()
	rec := Record{FrameCount: -1}

	model, err := root.Scalar(epuxml.SharedObjectsNS, "InstrumentModel")
	if err != nil {
		return Record{}, err
	}
	rec.InstrumentModel = model
	rec.Title = displayTitle(model)
	x.trace("InstrumentModel", model)

	rec.Detector = root.Pair(epuxml.ArraysNS, "DetectorCommercialName")
	x.trace("DetectorCommercialName", rec.Detector)
	rec.CountingMode = root.Pair(epuxml.ArraysNS, "ElectronCountingEnabled")
	x.trace("ElectronCountingEnabled", rec.CountingMode)

	voltText, err := root.Scalar(epuxml.SharedObjectsNS, "AccelerationVoltage")
	if err != nil {
		return Record{}, err
	}
	if rec.VoltageVolts, err = parseFloat("AccelerationVoltage", voltText); err != nil {
		return Record{}, err
	}
	x.trace("AccelerationVoltage", voltText)

	if rec.Software, err = root.Scalar(epuxml.SharedObjectsNS, "ApplicationSoftware"); err != nil {
		return Record{}, err
	}
	verText, err := root.Scalar(epuxml.SharedObjectsNS, "ApplicationSoftwareVersion")
	if err != nil {
		return Record{}, err
	}
	rec.SoftwareVersion = truncateVersion(verText)
	x.trace("ApplicationSoftware", rec.Software+" "+verText)

	rec.ApertureC1 = root.Pair(epuxml.ArraysNS, "Aperture[C1].Name")
	rec.ApertureC2 = root.Pair(epuxml.ArraysNS, "Aperture[C2].Name")
	rec.ApertureC3 = root.Pair(epuxml.ArraysNS, "Aperture[C3].Name")
	rec.ApertureObjective = root.Pair(epuxml.ArraysNS, "Aperture[OBJ].Name")
	x.trace("Apertures", rec.ApertureC1+", "+rec.ApertureC2+", "+rec.ApertureC3+", obj "+rec.ApertureObjective)

	if rec.SpotIndex, err = root.Scalar(epuxml.SharedObjectsNS, "SpotIndex"); err != nil {
		return Record{}, err
	}
	x.trace("SpotIndex", rec.SpotIndex)
	if rec.Magnification, err = root.Scalar(epuxml.SharedObjectsNS, "NominalMagnification"); err != nil {
		return Record{}, err
	}
	x.trace("NominalMagnification", rec.Magnification)

	if err := x.pixelSize(root, &rec); err != nil {
		return Record{}, err
	}
	if err := x.stageTilt(root, &rec); err != nil {
		return Record{}, err
	}

	dfText := root.Pair(epuxml.ArraysNS, "AppliedDefocus")
	dfMeters, err := parseFloat("AppliedDefocus", dfText)
	if err != nil {
		return Record{}, err
	}
	rec.DefocusMicrons = dfMeters * 1e6
	x.trace("AppliedDefocus", dfText)

	rec.DetectorDose = root.Pair(epuxml.ArraysNS, "Detectors[EF-Falcon].TotalDose")
	x.trace("Detectors[EF-Falcon].TotalDose", rec.DetectorDose)
	rec.Dose = root.Pair(epuxml.ArraysNS, "Dose")
	x.trace("Dose", rec.Dose)

	filter, err := root.Subtree(epuxml.SharedObjectsNS, "EnergyFilter")
	if err != nil {
		return Record{}, err
	}
	if rec.SlitWidth, err = filter.Scalar(epuxml.SharedObjectsNS, "EnergySelectionSlitWidth"); err != nil {
		return Record{}, err
	}
	x.trace("EnergySelectionSlitWidth", rec.SlitWidth)

	if err := x.exposureTime(root, &rec); err != nil {
		return Record{}, err
	}

	rec.FrameRate = root.Pair(epuxml.ArraysNS, "Detectors[EF-Falcon].FrameRate")
	x.trace("Detectors[EF-Falcon].FrameRate", rec.FrameRate)

	if x.ProbeMovies && index < 2 {
		if err := x.probeMovie(doc.Path(), &rec); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// pixelSize resolves the two-level x/y lookup. The two axes must report
// the identical text; unequal pixel sizes mean the document is inconsistent.
func (x *Extractor) pixelSize(root epuxml.Node, rec *Record) error {
	ps, err := root.Subtree(epuxml.SharedObjectsNS, "pixelSize")
	if err != nil {
		return err
	}
	xText, err := axisValue(ps, "x")
	if err != nil {
		return err
	}
	yText, err := axisValue(ps, "y")
	if err != nil {
		return err
	}
	if xText != yText {
		return &MismatchError{Field: "pixel size x/y", A: xText, B: yText}
	}
	x.trace("pixelSize", xText)
	rec.PixelSizeMeters, err = parseFloat("pixelSize", xText)
	return err
}

func axisValue(pixelSize epuxml.Node, axis string) (string, error) {
	n, err := pixelSize.Subtree(epuxml.SharedObjectsNS, axis)
	if err != nil {
		return "", err
	}
	return n.Scalar(epuxml.SharedObjectsNS, "numericValue")
}

// stageTilt reads the stage alpha angle (radians) and converts to degrees
// rounded to one decimal.
func (x *Extractor) stageTilt(root epuxml.Node, rec *Record) error {
	pos, err := root.Subtree(epuxml.SharedObjectsNS, "Position")
	if err != nil {
		return err
	}
	text, err := pos.Scalar(epuxml.SharedObjectsNS, "A")
	if err != nil {
		return err
	}
	rad, err := parseFloat("stage tilt A", text)
	if err != nil {
		return err
	}
	rec.TiltDegrees = math.Round(rad*180/math.Pi*10) / 10
	x.trace("Position.A", text)
	return nil
}

// exposureTime cross-checks the detector-reported exposure (CustomData
// pair) against the camera-reported one (shared domain). When both exist
// they must agree to two decimal places.
func (x *Extractor) exposureTime(root epuxml.Node, rec *Record) error {
	camera, err := root.Subtree(epuxml.SharedObjectsNS, "camera")
	if err != nil {
		return err
	}
	camText, err := camera.Scalar(epuxml.SharedObjectsNS, "ExposureTime")
	if err != nil {
		return err
	}
	camExp, err := parseFloat("camera ExposureTime", camText)
	if err != nil {
		return err
	}
	rec.ExposureSeconds = camExp
	x.trace("camera.ExposureTime", camText)

	custom, err := root.Subtree(epuxml.SharedObjectsNS, "CustomData")
	if err != nil {
		return err
	}
	detText := custom.Pair(epuxml.ArraysNS, "Detectors[EF-Falcon].ExposureTime")
	x.trace("Detectors[EF-Falcon].ExposureTime", detText)
	if detText == epuxml.NotRecorded {
		return nil
	}
	detExp, err := parseFloat("Detectors[EF-Falcon].ExposureTime", detText)
	if err != nil {
		return err
	}
	if round2(detExp) != round2(camExp) {
		return &MismatchError{Field: "exposure time", A: detText, B: camText}
	}
	return nil
}

// probeMovie finds the movie next to the sidecar XML and asks the prober
// for its frame count. A missing movie or a missing probe tool downgrades
// to a warning; a failing tool does not.
func (x *Extractor) probeMovie(xmlPath string, rec *Record) error {
	base := strings.TrimSuffix(xmlPath, filepath.Ext(xmlPath))
	var movie string
	switch {
	case fileExists(base + eerSuffix):
		movie = base + eerSuffix
		rec.MovieFormat = "eer"
	case fileExists(base + tiffSuffix):
		movie = base + tiffSuffix
		rec.MovieFormat = "tiff"
	default:
		x.warnf("WARNING! Movie file (EER or TIFF) for '%s' does not exist, continuing...", xmlPath)
		return nil
	}

	n, err := x.Frames(movie)
	if errors.Is(err, imod.ErrToolNotFound) {
		x.warnf("WARNING! %v, continuing...", err)
		return nil
	}
	if err != nil {
		return err
	}
	rec.FrameCount = n
	x.trace("NumberOfFrames", strconv.Itoa(n))
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (x *Extractor) trace(tag, value string) {
	if x.Trace != nil {
		fmt.Fprintf(x.Trace, "  %-40s %s\n", tag, value)
	}
}

func (x *Extractor) warnf(format string, args ...any) {
	if x.Warn != nil {
		fmt.Fprintf(x.Warn, "  "+format+"\n", args...)
	}
}

var titleCaser = cases.Title(language.English)

// displayTitle maps the raw instrument model to the report title: the
// TITAN series reads as "Titan Krios", anything else keeps the text before
// the first hyphen, title-cased.
func displayTitle(model string) string {
	if strings.HasPrefix(model, "TITAN") {
		return "Titan Krios"
	}
	base, _, _ := strings.Cut(model, "-")
	return titleCaser.String(strings.ToLower(base))
}

// truncateVersion keeps at most the first three dot-separated components.
func truncateVersion(v string) string {
	parts := strings.SplitN(v, ".", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, ".")
}

func parseFloat(field, text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, text, err)
	}
	return f, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
