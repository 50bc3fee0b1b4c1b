// internal/report/rtf_test.go
package report

import (
	"strings"
	"testing"
)

func sampleFields() Fields {
	return Fields{
		Microscope:        "Titan Krios",
		Detector:          "Falcon 4i (counting)",
		Voltage:           "300 keV",
		Software:          "EPU v 3.7.0",
		MovieFormat:       "eer",
		Apertures:         "2000, 50, 70",
		ObjectiveAperture: "-",
		DefocusRange:      "-0.8 to -1.5",
		TiltAngle:         "0.0",
		SpotSize:          "5",
		Magnification:     "105 000 x",
		PixelSize:         "1.050",
		DoseRate:          "50.6",
		TotalDose:         "19382.6",
		SlitWidth:         "10",
		ExposureTime:      "2.72",
		FrameRate:         "248.7",
		Frames:            "40",
	}
}

func TestWriteRTF(t *testing.T) {
	var b strings.Builder
	if err := WriteRTF(&b, sampleFields()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, `{\rtf1\ansi`) {
		t.Errorf("missing RTF preamble: %.40q", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Errorf("document not closed")
	}

	f := sampleFields()
	for _, want := range []string{
		f.Microscope, f.Detector, f.Voltage, f.Software, f.MovieFormat,
		f.Apertures, f.ObjectiveAperture, f.DefocusRange, f.TiltAngle,
		f.SpotSize, f.Magnification, f.PixelSize, f.DoseRate, f.TotalDose,
		f.SlitWidth, f.ExposureTime, f.FrameRate, f.Frames,
		"Data acquisition parameters", "Hardware", "Software",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteRTFBalancedBraces(t *testing.T) {
	var b strings.Builder
	if err := WriteRTF(&b, sampleFields()); err != nil {
		t.Fatalf("write: %v", err)
	}
	depth := 0
	for _, r := range b.String() {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			t.Fatal("brace closed before opened")
		}
	}
	if depth != 0 {
		t.Fatalf("unbalanced braces: depth %d at EOF", depth)
	}
}
