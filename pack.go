package glyphatlas

import "fmt"

// RowAllocator packs rectangles into a single horizontal shelf.
//
// Items are placed left to right at y = 0 in the order they are allocated;
// the shelf width is the sum of all item widths and its height is the
// tallest item so far. There is no reordering, so the placement of an
// item depends only on the items allocated before it.
type RowAllocator struct {
	width  int // Next free x, and total width so far
	height int // Tallest item so far

	// Tracking for utilization
	usedArea int
	count    int
}

// NewRowAllocator creates an empty allocator.
func NewRowAllocator() *RowAllocator {
	return &RowAllocator{}
}

// Allocate places a w*h rectangle at the end of the row.
// Negative sizes are rejected with *InvalidGlyphDimensionError.
func (a *RowAllocator) Allocate(w, h int) (x, y int, err error) {
	if w < 0 || h < 0 {
		return -1, -1, &InvalidGlyphDimensionError{Rune: -1, Width: w, Height: h}
	}
	x = a.width
	a.width += w
	if h > a.height {
		a.height = h
	}
	a.usedArea += w * h
	a.count++
	return x, 0, nil
}

// Width returns the total width of the row.
func (a *RowAllocator) Width() int { return a.width }

// Height returns the height of the tallest item.
func (a *RowAllocator) Height() int { return a.height }

// Count returns the number of allocations made.
func (a *RowAllocator) Count() int { return a.count }

// Reset clears all allocations, allowing the allocator to be reused.
func (a *RowAllocator) Reset() {
	*a = RowAllocator{}
}

// Utilization returns the fraction of the row's bounding box covered by
// allocated rectangles (0.0 to 1.0).
func (a *RowAllocator) Utilization() float64 {
	if a.width <= 0 || a.height <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(a.width*a.height)
}

// Layout is the CPU-side result of packing: the composite bitmap and the
// glyph table with UV offsets filled in.
type Layout struct {
	// Width and Height of the composite bitmap in pixels.
	Width, Height int

	// Pixels holds Width*Height single-channel bytes, row-major with no
	// row padding.
	Pixels []byte

	// Glyphs maps each packed codepoint to its glyph.
	Glyphs GlyphTable

	// Utilization is the covered fraction of the bitmap.
	Utilization float64
}

// Pack places glyphs left to right in the order given and builds the
// composite bitmap. Callers pass glyphs in ascending codepoint order, as
// Rasterize returns them.
//
// Each glyph's UVOffset becomes its x position divided by the total width.
// A coverage buffer whose length is not Width*Height is rejected with
// *InvalidGlyphDimensionError, and a codepoint without a GlyphTable entry
// with ErrRuneOutOfTable.
func Pack(glyphs []RasterizedGlyph) (*Layout, error) {
	alloc := NewRowAllocator()
	xs := make([]int, len(glyphs))

	for i, rg := range glyphs {
		if rg.Rune < 0 || rg.Rune >= TableSize {
			return nil, fmt.Errorf("%w: %q", ErrRuneOutOfTable, rg.Rune)
		}
		w, h := int(rg.Glyph.Width), int(rg.Glyph.Height)
		if err := validateGlyph(rg.Rune, rg.Glyph); err != nil {
			return nil, err
		}
		x, _, err := alloc.Allocate(w, h)
		if err != nil {
			return nil, &InvalidGlyphDimensionError{Rune: rg.Rune, Width: w, Height: h, Len: len(rg.Glyph.Coverage)}
		}
		xs[i] = x
	}

	width, height := alloc.Width(), alloc.Height()
	if width == 0 || height == 0 {
		return nil, ErrEmptyAtlas
	}

	layout := &Layout{
		Width:       width,
		Height:      height,
		Pixels:      make([]byte, width*height),
		Utilization: alloc.Utilization(),
	}

	for i, rg := range glyphs {
		g := rg.Glyph
		g.UVOffset = float32(xs[i]) / float32(width)
		blit(layout.Pixels, width, xs[i], g.Coverage, int(g.Width), int(g.Height))
		layout.Glyphs.Set(rg.Rune, g)
	}

	Logger().Debug("glyphatlas: glyphs packed",
		"width", width,
		"height", height,
		"glyphs", len(glyphs),
		"utilization", layout.Utilization)

	return layout, nil
}

// validateGlyph checks the bitmap size against its coverage buffer.
func validateGlyph(r rune, g Glyph) error {
	w, h := int(g.Width), int(g.Height)
	if w < 0 || h < 0 || float32(w) != g.Width || float32(h) != g.Height || len(g.Coverage) != w*h {
		return &InvalidGlyphDimensionError{Rune: r, Width: w, Height: h, Len: len(g.Coverage)}
	}
	return nil
}

// blit copies a w*h bitmap into dst (row stride dstW) at column x, row 0.
func blit(dst []byte, dstW, x int, src []byte, w, h int) {
	for row := 0; row < h; row++ {
		copy(dst[row*dstW+x:row*dstW+x+w], src[row*w:(row+1)*w])
	}
}
