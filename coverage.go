package glyphatlas

import (
	"bytes"

	"github.com/go-text/typesetting/font"
)

// CoverageReport describes how much of a codepoint range a font maps.
type CoverageReport struct {
	// UnitsPerEm is the design grid size of the font.
	UnitsPerEm int

	// Checked is the number of codepoints looked up.
	Checked int

	// Missing lists the codepoints absent from the font's cmap, ascending.
	Missing []rune
}

// Complete reports whether every checked codepoint is mapped.
func (r CoverageReport) Complete() bool {
	return len(r.Missing) == 0
}

// Coverage checks which printable ASCII codepoints fontData maps.
func Coverage(fontData []byte) (CoverageReport, error) {
	return coverageRange(fontData, FirstRune, LastRune)
}

// coverageRange looks up every rune in [first, last] in the font's cmap.
// Only the cmap is consulted; substitutions are not applied.
func coverageRange(fontData []byte, first, last rune) (CoverageReport, error) {
	if len(fontData) == 0 {
		return CoverageReport{}, &FontLoadError{Err: ErrEmptyFontData}
	}

	face, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return CoverageReport{}, &FontLoadError{Err: err}
	}

	report := CoverageReport{UnitsPerEm: int(face.Upem())}
	for r := first; r <= last; r++ {
		report.Checked++
		if _, ok := face.NominalGlyph(r); !ok {
			report.Missing = append(report.Missing, r)
		}
	}
	return report, nil
}
