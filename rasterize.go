package glyphatlas

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// errNotInCmap is wrapped into GlyphRenderError for codepoints the font
// does not map at all.
var errNotInCmap = errors.New("codepoint not mapped by font")

// RasterizedGlyph pairs a codepoint with its rendered glyph.
type RasterizedGlyph struct {
	Rune  rune
	Glyph Glyph
}

// Rasterizer renders grayscale coverage bitmaps and metrics for a range
// of ASCII codepoints using golang.org/x/image/font/opentype.
//
// A Rasterizer is not safe for concurrent use; the underlying face
// reuses its mask buffer between calls.
type Rasterizer struct {
	face     font.Face
	cfg      config
	coverage CoverageReport
}

// NewRasterizer parses fontData and prepares a face at the configured size.
// Parse failures are returned as *FontLoadError.
func NewRasterizer(fontData []byte, opts ...Option) (*Rasterizer, error) {
	return newRasterizer(fontData, newConfig(opts))
}

func newRasterizer(fontData []byte, cfg config) (*Rasterizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(fontData) == 0 {
		return nil, &FontLoadError{Err: ErrEmptyFontData}
	}

	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, &FontLoadError{Err: err}
	}

	// 72 DPI makes Size equal to pixels per em.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    cfg.fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &FontLoadError{Err: fmt.Errorf("set size %v: %w", cfg.fontSize, err)}
	}

	report, err := coverageRange(fontData, cfg.first, cfg.last)
	if err != nil {
		_ = face.Close()
		return nil, err
	}

	return &Rasterizer{face: face, cfg: cfg, coverage: report}, nil
}

// Coverage returns the cmap report gathered when the rasterizer was created.
func (r *Rasterizer) Coverage() CoverageReport {
	return r.coverage
}

// Close releases the underlying face.
func (r *Rasterizer) Close() error {
	return r.face.Close()
}

// Rasterize renders every codepoint of the configured range in ascending
// order.
//
// Codepoints missing from the font are reported together in a single
// *GlyphRenderError before anything is rendered. With
// WithBlankMissingGlyphs they are replaced by empty glyphs instead.
// A bitmap that disagrees with its own dimensions is always fatal.
func (r *Rasterizer) Rasterize() ([]RasterizedGlyph, error) {
	missing := make(map[rune]bool, len(r.coverage.Missing))
	for _, c := range r.coverage.Missing {
		missing[c] = true
	}
	if len(missing) > 0 && !r.cfg.blankOnFail {
		return nil, &GlyphRenderError{Runes: r.coverage.Missing, Err: errNotInCmap}
	}

	out := make([]RasterizedGlyph, 0, r.cfg.last-r.cfg.first+1)
	var (
		failed   []rune
		firstErr error
	)
	for c := r.cfg.first; c <= r.cfg.last; c++ {
		if missing[c] {
			Logger().Warn("glyphatlas: substituting blank glyph", "rune", string(c), "reason", errNotInCmap)
			out = append(out, RasterizedGlyph{Rune: c})
			continue
		}

		g, err := r.RasterizeRune(c)
		if err != nil {
			var dimErr *InvalidGlyphDimensionError
			if errors.As(err, &dimErr) {
				return nil, err
			}
			if r.cfg.blankOnFail {
				Logger().Warn("glyphatlas: substituting blank glyph", "rune", string(c), "reason", err)
				out = append(out, RasterizedGlyph{Rune: c})
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			failed = append(failed, c)
			continue
		}
		out = append(out, RasterizedGlyph{Rune: c, Glyph: g})
	}

	if len(failed) > 0 {
		return nil, &GlyphRenderError{Runes: failed, Err: firstErr}
	}
	return out, nil
}

// RasterizeRune renders a single codepoint with the pen at the origin.
//
// The returned advance is in whole pixels: the face reports 26.6 fixed
// point, which is shifted right by 6.
func (r *Rasterizer) RasterizeRune(c rune) (Glyph, error) {
	dr, mask, maskp, advance, ok := r.face.Glyph(fixed.Point26_6{}, c)
	if !ok {
		return Glyph{}, fmt.Errorf("glyphatlas: face cannot render %q", c)
	}

	w, h := dr.Dx(), dr.Dy()
	if w < 0 || h < 0 {
		return Glyph{}, &InvalidGlyphDimensionError{Rune: c, Width: w, Height: h}
	}

	cov := make([]byte, w*h)
	if w > 0 && h > 0 {
		if mask == nil || !image.Rect(maskp.X, maskp.Y, maskp.X+w, maskp.Y+h).In(mask.Bounds()) {
			return Glyph{}, &InvalidGlyphDimensionError{Rune: c, Width: w, Height: h}
		}
		copyCoverage(cov, mask, maskp, w, h)
	}

	return Glyph{
		Advance:  Vec2{X: float32(int(advance) >> 6), Y: 0},
		Width:    float32(w),
		Height:   float32(h),
		Bearing:  Vec2{X: float32(dr.Min.X), Y: float32(-dr.Min.Y)},
		Coverage: cov,
	}, nil
}

// copyCoverage copies a w*h region of mask starting at maskp into dst.
// The face owns mask and overwrites it on the next call.
func copyCoverage(dst []byte, mask image.Image, maskp image.Point, w, h int) {
	if a, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			off := a.PixOffset(maskp.X, maskp.Y+y)
			copy(dst[y*w:(y+1)*w], a.Pix[off:off+w])
		}
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, alpha := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			dst[y*w+x] = uint8(alpha >> 8)
		}
	}
}
