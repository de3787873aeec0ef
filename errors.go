package glyphatlas

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for glyphatlas package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("glyphatlas: empty font data")

	// ErrEmptyAtlas is returned when every rasterized glyph has zero size,
	// leaving nothing to pack.
	ErrEmptyAtlas = errors.New("glyphatlas: packed atlas has zero width or height")

	// ErrNilDevice is returned when LoadFont is called without a TextureDevice.
	ErrNilDevice = errors.New("glyphatlas: texture device is nil")

	// ErrAtlasClosed is returned when an atlas is closed twice.
	ErrAtlasClosed = errors.New("glyphatlas: atlas already closed")

	// ErrInvalidRange is returned when the configured codepoint range is
	// empty after clamping to the glyph table.
	ErrInvalidRange = errors.New("glyphatlas: invalid codepoint range")

	// ErrRuneOutOfTable is returned when Pack is given a glyph whose
	// codepoint has no GlyphTable entry.
	ErrRuneOutOfTable = errors.New("glyphatlas: codepoint outside glyph table")
)

// FontLoadError is returned when font bytes cannot be parsed or sized.
type FontLoadError struct {
	Err error
}

func (e *FontLoadError) Error() string {
	return "glyphatlas: failed to load font: " + e.Err.Error()
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// GlyphRenderError is returned when one or more codepoints cannot be
// rasterized. The atlas is never built from a partial glyph set.
type GlyphRenderError struct {
	Runes []rune
	Err   error
}

func (e *GlyphRenderError) Error() string {
	quoted := make([]string, len(e.Runes))
	for i, r := range e.Runes {
		quoted[i] = strconv.QuoteRune(r)
	}
	msg := "glyphatlas: failed to render glyphs " + strings.Join(quoted, ", ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GlyphRenderError) Unwrap() error { return e.Err }

// AtlasTooLargeError is returned when the packed atlas exceeds the maximum
// 2D texture dimension of the device. It is reported before any upload.
type AtlasTooLargeError struct {
	Width, Height int
	Max           uint32
}

func (e *AtlasTooLargeError) Error() string {
	return fmt.Sprintf("glyphatlas: atlas %dx%d exceeds max texture dimension %d", e.Width, e.Height, e.Max)
}

// InvalidGlyphDimensionError reports a bitmap whose size is negative or does
// not match its coverage buffer.
type InvalidGlyphDimensionError struct {
	Rune          rune
	Width, Height int
	Len           int
}

func (e *InvalidGlyphDimensionError) Error() string {
	return fmt.Sprintf("glyphatlas: invalid glyph %q dimensions %dx%d (coverage length %d)",
		e.Rune, e.Width, e.Height, e.Len)
}
