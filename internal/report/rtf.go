// internal/report/rtf.go
// Package report renders the completed session record as the fixed-layout
// RTF table expected downstream. The markup is an opaque external format
// carried over verbatim; do not tidy it.
package report

import (
	"io"
	"strings"
)

const (
	rowFormat = `\cell\row\trowd\trleft5\clpadt108\clcbpat18\cellx2976\clbrdrt\brdrs\brdrw10\brdrcf19\clbrdrl\brdrs\brdrw10\brdrcf19\clpadt108\clcbpat18\cellx4535\clbrdrt\brdrs\brdrw10\brdrcf19\clbrdrl\brdrs\brdrw10\brdrcf19\clpadt108\clcbpat18\cellx7655\clbrdrt\brdrs\brdrw10\brdrcf19\clbrdrl\brdrs\brdrw10\brdrcf19\clpadt108\clcbpat18\cellx9356\plain \rtlch`
	emptyCell = `\cell\plain \rtlch \rtlch \ltrch\fs22\kerning0\dbch`
	borderRow = `\cell\row\trowd\trleft5\clpadt108\cellx2976\clbrdrt\brdrs\brdrw10\brdrcf19\clbrdrl\brdrs\brdrw10\brdrcf19\clpadt108\cellx4535\clbrdrt\brdrs\brdrw10\brdrcf19\clbrdrl\brdrs\brdrw10\brdrcf19\clpadt108\cellx7655\clbrdrt\brdrs\brdrw10\brdrcf19\clbrdrl\brdrs\brdrw10\brdrcf19\clpadt108\cellx9356\plain \rtlch`
)

// RTF escape fragments for the non-ASCII label characters (µ, Å, ², °).
const (
	labelDefocusRange = `Defocus range (}{\rtlch\ab \ltrch\fs22\b\kerning0\dbch \u181\'3f}{\rtlch\ab \ltrch\fs22\b\kerning0\dbch m)`
	labelIlluminated  = `Illuminated area (}{\rtlch\ab \ltrch\fs22\b\kerning0\dbch \u181\'3f}{\rtlch\ab \ltrch\fs22\b\kerning0\dbch m)`
	labelTotalDose    = `Total dose (e/\u197\'3f}{\rtlch\ab \ltrch\super\fs22\b\kerning0\dbch 2}{\rtlch\ab \ltrch\fs22\b\kerning0\dbch )`
	labelTiltAngle    = `Tilt angle (}{\rtlch\ab \ltrch\fs22\b\kerning0\dbch \uc2 \u176\'81\'8b)\uc1 `
	labelPixelSize    = `Pixel size (\u197\'3f}{\rtlch\ab \ltrch\fs22\b\kerning0\dbch)`
)

// Cells the session record does not cover keep their fixed values.
const (
	sphericalAberration = "2.7"
	collectionMethod    = "AFIS"
	illuminatedArea     = "0.70"
)

// WriteRTF renders the report document for f.
func WriteRTF(w io.Writer, f Fields) error {
	var b strings.Builder

	// Preamble: fonts, colors, stylesheet, page geometry.
	b.WriteString(`{\rtf1\ansi\deff4\adeflang1025` + "\n")
	b.WriteString(`{\fonttbl{\f4\fswiss\fprq0\fcharset128 Calibri;}{\f5\fswiss\fprq0\fcharset128 Calibri Light;}{\f6\fnil\fprq2\fcharset0 Calibri;}}` + "\n")
	b.WriteString(`{\colortbl;\red0\green0\blue0;\red0\green0\blue255;\red0\green255\blue255;\red0\green255\blue0;\red255\green0\blue255;\red255\green0\blue0;\red255\green255\blue0;\red255\green255\blue255;\red0\green0\blue128;\red0\green128\blue128;\red0\green128\blue0;\red128\green0\blue128;\red128\green0\blue0;\red128\green128\blue0;\red128\green128\blue128;\red192\green192\blue192;\red47\green84\blue150;\red242\green242\blue242;\red191\green191\blue191;}` + "\n")
	b.WriteString(`{\stylesheet{\snext0\rtlch \ltrch\lang1033\langfe2052\hich\af4\loch\widctlpar\hyphpar0\ltrpar\cf0\f4\fs24\lang1033\kerning1\dbch\af7\langfe2052 Normal;}}` + "\n")
	b.WriteString(`\deftab709\hyphauto1\viewscale100` + "\n")
	b.WriteString(`\paperh16838\paperw11906\margl1134\margr1134\margt1134\margb1134` + "\n")
	b.WriteString(`{\*\ftnsep\chftnsep}\pgndec\plain \rtlch \ltrch\lang1033\langfe2052\hich\af4\loch\widctlpar\hyphpar0\ltrpar\cf0\f4\fs24\lang1033\kerning1\dbch\af7\langfe2052\ql\ltrpar\loch` + "\n")

	// Table heading.
	b.WriteString(`\par\trleft5\clbrdrt\brdrs\brdrw10\brdrcf19\clbrdrl\brdrs\brdrw10\brdrcf19\clpadt108\cellx2976\clbrdrt\brdrs\brdrw10\brdrcf19\cellx9356` + "\n")
	b.WriteString(`\cf17\f5\dbch\sb240` + "\n")
	b.WriteString(`{\b\kerning0 Data acquisition parameters}` + "\n")
	b.WriteString(`\par \rtlch \sb0\ab \loch\fs22 \cell\plain` + "\n")

	// Hardware / Software banner.
	b.WriteString(`\cell\row\trowd\trleft5\clbrdrt\brdrs\brdrw10\brdrcf19\clpadt108\clpadr108\clcbpat18\cellx2976\clbrdrt\brdrs\brdrw10\brdrcf19\clcbpat18\cellx4535\clbrdrt\brdrs\brdrw10\brdrcf19\clpadt108\clcbpat18\cellx7655\clbrdrt\brdrs\brdrw10\brdrcf19\clcbpat18\cellx9356` + "\n")
	b.WriteString(`{\fs22\i\b Hardware}` + "\n")
	b.WriteString(`\cell \ltrch\fs22 \cell` + "\n")
	b.WriteString(`{\fs22\i\b Software}` + "\n")
	b.WriteString(`\cell \rtlch \cell` + "\n")
	b.WriteString(`\row\trowd\trleft5\clpadt108\cellx2976\clpadt108\cellx4535\clpadt108\cellx7655\clbrdrt\brdrs\brdrw10\brdrcf19\clpadt108\cellx9356\plain` + "\n")

	// Hardware/software grid.
	b.WriteString(`{\fs22\b Microscope}\cell\plain` + "\n")
	b.WriteString(col2(f.Microscope))
	b.WriteString(boldCell("Data collection"))
	b.WriteString(col4(f.Software))
	b.WriteString(rowFormat + "\n")
	b.WriteString(boldCell("Detector (mode)"))
	b.WriteString(col2(f.Detector))
	b.WriteString(boldCell("Collection method"))
	b.WriteString(col4(collectionMethod))
	b.WriteString(borderRow + "\n")
	b.WriteString(boldCell("Accelerating voltage"))
	b.WriteString(col2(f.Voltage))
	b.WriteString(boldCell("Movie format"))
	b.WriteString(col4(f.MovieFormat))
	b.WriteString(rowFormat + "\n")
	b.WriteString(boldCell("Spherical aberration"))
	b.WriteString(col2(sphericalAberration))
	b.WriteString(`\rtlch \ltrch\fs22\kerning0\dbch` + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(borderRow + "\n")

	// Spacer row, then the acquisition-parameters subheading.
	b.WriteString(emptyCell + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(rowFormat + "\n")
	b.WriteString(`{\rtlch\ai\ab \ltrch\fs22\i\b\kerning0\dbch Data acquisition parameters}\cell\plain \rtlch` + "\n")
	b.WriteString(`\rtlch \ltrch\fs22\kerning0\dbch` + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(borderRow + "\n")

	// Acquisition grid.
	b.WriteString(boldCell("Apertures (C1, C2, C3)"))
	b.WriteString(col2(f.Apertures))
	b.WriteString(boldCell(labelDefocusRange))
	b.WriteString(col4(f.DefocusRange))
	b.WriteString(rowFormat + "\n")
	b.WriteString(boldCell("Objective aperture"))
	b.WriteString(col2(f.ObjectiveAperture))
	b.WriteString(boldCell("Dose (e/px/sec)"))
	b.WriteString(col4(f.DoseRate))
	b.WriteString(borderRow + "\n")
	b.WriteString(boldCell("Energy filter slit (eV)"))
	b.WriteString(col2(f.SlitWidth))
	b.WriteString(boldCell("Frame rate (fps)"))
	b.WriteString(col4(f.FrameRate))
	b.WriteString(rowFormat + "\n")
	b.WriteString(boldCell(labelIlluminated))
	b.WriteString(col2(illuminatedArea))
	b.WriteString(boldCell("Exposure time (sec)"))
	b.WriteString(col4(f.ExposureTime))
	b.WriteString(borderRow + "\n")
	b.WriteString(boldCell("Spot size"))
	b.WriteString(col2(f.SpotSize))
	b.WriteString(boldCell(labelTotalDose))
	b.WriteString(col4(f.TotalDose))
	b.WriteString(rowFormat + "\n")
	b.WriteString(boldCell(labelTiltAngle))
	b.WriteString(col2(f.TiltAngle))
	b.WriteString(boldCell("Total frames (#)"))
	b.WriteString(col4(f.Frames))
	b.WriteString(borderRow + "\n")
	b.WriteString(boldCell("Nominal magnification"))
	b.WriteString(col2(f.Magnification))
	b.WriteString(`\rtlch\ab \ltrch\fs22\b\kerning0\dbch` + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(rowFormat + "\n")
	b.WriteString(boldCell(labelPixelSize))
	b.WriteString(col2(f.PixelSize))
	b.WriteString(`\rtlch \ltrch\fs22\kerning0\dbch` + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(borderRow + "\n")

	// Trailing spacer row and document close.
	b.WriteString(emptyCell + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(emptyCell + "\n")
	b.WriteString(`\cell\row\plain \rtlch \ltrch\lang1033\langfe2052\hich\af4\loch\widctlpar\hyphpar0\ltrpar\cf0\f4\fs24\lang1033\kerning1\dbch\af7\langfe2052\ql\ltrpar\loch` + "\n")
	b.WriteString(`\par }` + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func col2(s string) string {
	return `{\rtlch \ltrch\fs22\kerning0\dbch ` + s + `}\cell\plain \rtlch` + "\n"
}

func col4(s string) string {
	return `{\rtlch \ltrch\fs22\kerning0\dbch ` + s + `}` + "\n"
}

func boldCell(s string) string {
	return `{\rtlch\ab \ltrch\fs22\b\kerning0\dbch ` + s + `}\cell\plain \rtlch` + "\n"
}
