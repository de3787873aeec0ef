package glyphatlas

// Fixed limits of the glyph table.
const (
	// TableSize is the number of entries in a GlyphTable (ASCII).
	TableSize = 128

	// FirstRune and LastRune bound the printable ASCII range that is
	// rasterized by default.
	FirstRune rune = 32
	LastRune  rune = 126

	// FallbackRune is drawn for any codepoint without a populated glyph.
	FallbackRune rune = '?'

	// DefaultFontSize is the pixel size glyphs are rasterized at.
	DefaultFontSize = 48
)

// Vec2 is a 2D vector in pixels.
type Vec2 struct {
	X, Y float32
}

// Glyph is one rasterized character and its layout metrics.
//
// A Glyph is created once during atlas construction and is immutable
// afterwards.
type Glyph struct {
	// Advance is how far the pen moves after drawing this glyph.
	// Y is kept for symmetry and is zero for horizontal fonts.
	Advance Vec2

	// Width and Height are the bitmap size in pixels.
	Width, Height float32

	// Bearing is the offset from the pen position to the bitmap's
	// top-left corner. Y is measured upwards from the baseline.
	Bearing Vec2

	// UVOffset is the normalized horizontal offset of the bitmap
	// within the atlas texture.
	UVOffset float32

	// Coverage holds Width*Height single-channel intensities, row-major.
	Coverage []byte
}

// GlyphTable maps ASCII codepoints to glyphs.
//
// Every entry starts as a zero Glyph. Only entries stored with Set are
// considered populated; lookups for anything else go through the
// fallback path in Lookup.
type GlyphTable struct {
	glyphs    [TableSize]Glyph
	populated [TableSize]bool
}

// Set stores g for r. Codepoints outside the table are ignored.
func (t *GlyphTable) Set(r rune, g Glyph) {
	if r < 0 || r >= TableSize {
		return
	}
	t.glyphs[r] = g
	t.populated[r] = true
}

// Glyph returns the glyph stored for r and whether the entry is populated.
func (t *GlyphTable) Glyph(r rune) (Glyph, bool) {
	if r < 0 || r >= TableSize || !t.populated[r] {
		return Glyph{}, false
	}
	return t.glyphs[r], true
}

// Lookup returns the glyph for r, or the FallbackRune glyph when r is out
// of range or unpopulated. If the fallback itself is unpopulated, the zero
// Glyph is returned.
func (t *GlyphTable) Lookup(r rune) Glyph {
	if g, ok := t.Glyph(r); ok {
		return g
	}
	g, _ := t.Glyph(FallbackRune)
	return g
}

// Len returns the number of populated entries.
func (t *GlyphTable) Len() int {
	n := 0
	for _, ok := range t.populated {
		if ok {
			n++
		}
	}
	return n
}
