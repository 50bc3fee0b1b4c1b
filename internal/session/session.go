// internal/session/session.go
// Package session folds per-document records into session-wide extrema and
// renders the final report fields.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"epureport/internal/epuxml"
	"epureport/internal/extract"
	"epureport/internal/report"
)

// Sentinel bounds: any real reading updates both extrema on first fold.
const (
	defocusSentinel = 999.9 // µm
	tiltSentinel    = 360.0 // degrees
)

// FrameMismatchError means the first two probed movies disagree on frame
// count. The two samples are assumed to be the canonical session frame
// count, so this aborts the whole run.
type FrameMismatchError struct {
	First, Second int
}

func (e *FrameMismatchError) Error() string {
	return fmt.Sprintf("number of frames in first two movies is different (%d,%d)", e.First, e.Second)
}

// Aggregator is the single-owner accumulator for one run.
type Aggregator struct {
	minDefocus, maxDefocus float64
	minTilt, maxTilt       float64
	frames                 int
	movieFormat            string
	count                  int
	last                   extract.Record
}

// New returns an aggregator seeded with the sentinel bounds.
func New() *Aggregator {
	return &Aggregator{
		minDefocus: +defocusSentinel,
		maxDefocus: -defocusSentinel,
		minTilt:    +tiltSentinel,
		maxTilt:    -tiltSentinel,
		frames:     -1,
	}
}

// Fold accumulates one record. Plain algebraic min/max for defocus and
// tilt; the latest record supplies the representative scalar fields.
func (a *Aggregator) Fold(rec extract.Record) error {
	if rec.DefocusMicrons < a.minDefocus {
		a.minDefocus = rec.DefocusMicrons
	}
	if rec.DefocusMicrons > a.maxDefocus {
		a.maxDefocus = rec.DefocusMicrons
	}
	if rec.TiltDegrees < a.minTilt {
		a.minTilt = rec.TiltDegrees
	}
	if rec.TiltDegrees > a.maxTilt {
		a.maxTilt = rec.TiltDegrees
	}
	if rec.MovieFormat != "" {
		a.movieFormat = rec.MovieFormat
	}
	if rec.FrameCount >= 0 {
		if a.frames < 0 {
			a.frames = rec.FrameCount
		} else if rec.FrameCount != a.frames {
			return &FrameMismatchError{First: a.frames, Second: rec.FrameCount}
		}
	}
	a.last = rec
	a.count++
	return nil
}

// Count returns the number of records folded.
func (a *Aggregator) Count() int { return a.count }

// Frames returns the session frame count, -1 when no movie was probed.
func (a *Aggregator) Frames() int { return a.frames }

// DefocusRange renders the session defocus range in µm, max first (display
// convention, not an ordering bug).
func (a *Aggregator) DefocusRange() string {
	return fmt.Sprintf("%.1f to %.1f", a.maxDefocus, a.minDefocus)
}

// TiltRange renders the stage-tilt range in degrees, min first, collapsing
// to a single value when the session never tilted.
func (a *Aggregator) TiltRange() string {
	if a.minTilt == a.maxTilt {
		return fmt.Sprintf("%.1f", a.minTilt)
	}
	return fmt.Sprintf("%.1f to %.1f", a.minTilt, a.maxTilt)
}

// Finalize composes the completed field record for the report.
func (a *Aggregator) Finalize() report.Fields {
	rec := a.last
	return report.Fields{
		Microscope:        rec.Title,
		Detector:          detectorDisplay(rec),
		Voltage:           fmt.Sprintf("%d keV", int(rec.VoltageVolts/1000)),
		Software:          rec.Software + " v " + rec.SoftwareVersion,
		MovieFormat:       orNA(a.movieFormat),
		Apertures:         strings.Join([]string{rec.ApertureC1, rec.ApertureC2, rec.ApertureC3}, ", "),
		ObjectiveAperture: dashNA(rec.ApertureObjective),
		DefocusRange:      a.DefocusRange(),
		TiltAngle:         a.TiltRange(),
		SpotSize:          rec.SpotIndex,
		Magnification:     magnificationDisplay(rec.Magnification),
		PixelSize:         fmt.Sprintf("%.3f", rec.PixelSizeMeters*1e10),
		DoseRate:          rec.Dose,
		TotalDose:         rec.DetectorDose,
		SlitWidth:         rec.SlitWidth,
		ExposureTime:      fmt.Sprintf("%.2f", rec.ExposureSeconds),
		FrameRate:         rec.FrameRate,
		Frames:            framesDisplay(a.frames),
	}
}

func detectorDisplay(rec extract.Record) string {
	if rec.CountingMode == "true" {
		return rec.Detector + " (counting)"
	}
	return rec.Detector
}

// magnificationDisplay splits the value into its leading three digits and
// remainder: "105000" reads "105 000 x".
func magnificationDisplay(mag string) string {
	if len(mag) <= 3 {
		return mag + " x"
	}
	return mag[:3] + " " + mag[3:] + " x"
}

func framesDisplay(n int) string {
	if n < 0 {
		return epuxml.NotRecorded
	}
	return strconv.Itoa(n)
}

func orNA(s string) string {
	if s == "" {
		return epuxml.NotRecorded
	}
	return s
}

// dashNA maps an unreported objective aperture to the report's "-" cell.
func dashNA(s string) string {
	if s == epuxml.NotRecorded {
		return "-"
	}
	return s
}
