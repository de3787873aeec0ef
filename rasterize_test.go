package glyphatlas

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// loadTestRasterizer creates a rasterizer over the embedded Go font.
func loadTestRasterizer(t *testing.T, opts ...Option) *Rasterizer {
	t.Helper()

	r, err := NewRasterizer(goregular.TTF, opts...)
	if err != nil {
		t.Fatalf("failed to create rasterizer: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("failed to close rasterizer: %v", err)
		}
	})
	return r
}

func TestRasterizeRange(t *testing.T) {
	r := loadTestRasterizer(t)

	glyphs, err := r.Rasterize()
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got, want := len(glyphs), int(LastRune-FirstRune+1); got != want {
		t.Fatalf("len(glyphs) = %d, want %d", got, want)
	}

	for i, rg := range glyphs {
		if want := FirstRune + rune(i); rg.Rune != want {
			t.Fatalf("glyphs[%d].Rune = %q, want %q (ascending order)", i, rg.Rune, want)
		}
		g := rg.Glyph
		if int(g.Width)*int(g.Height) != len(g.Coverage) {
			t.Errorf("%q: %vx%v bitmap with %d coverage bytes", rg.Rune, g.Width, g.Height, len(g.Coverage))
		}
		if g.Advance.X != float32(math.Trunc(float64(g.Advance.X))) {
			t.Errorf("%q: advance %v is not whole pixels", rg.Rune, g.Advance.X)
		}
		if g.Advance.Y != 0 {
			t.Errorf("%q: vertical advance = %v, want 0", rg.Rune, g.Advance.Y)
		}
	}
}

func TestRasterizeRuneMetrics(t *testing.T) {
	r := loadTestRasterizer(t)

	space, err := r.RasterizeRune(' ')
	if err != nil {
		t.Fatalf("RasterizeRune(' '): %v", err)
	}
	if space.Width != 0 || space.Height != 0 || len(space.Coverage) != 0 {
		t.Errorf("space bitmap = %vx%v, want empty", space.Width, space.Height)
	}
	if space.Advance.X <= 0 {
		t.Errorf("space advance = %v, want positive", space.Advance.X)
	}

	a, err := r.RasterizeRune('A')
	if err != nil {
		t.Fatalf("RasterizeRune('A'): %v", err)
	}
	if a.Width <= 0 || a.Height <= 0 {
		t.Fatalf("'A' bitmap = %vx%v, want non-empty", a.Width, a.Height)
	}
	// A capital sits on the baseline, so its top is roughly its height.
	if a.Bearing.Y <= 0 || math.Abs(float64(a.Bearing.Y-a.Height)) > 2 {
		t.Errorf("'A' bearing.y = %v with height %v", a.Bearing.Y, a.Height)
	}
	if a.Height > DefaultFontSize {
		t.Errorf("'A' height %v exceeds the %d px em", a.Height, DefaultFontSize)
	}

	var inked bool
	for _, v := range a.Coverage {
		if v != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Error("'A' coverage is blank")
	}

	// A descender extends below the baseline.
	p, err := r.RasterizeRune('p')
	if err != nil {
		t.Fatalf("RasterizeRune('p'): %v", err)
	}
	if p.Height-p.Bearing.Y <= 0 {
		t.Errorf("'p' has no descender: height %v bearing.y %v", p.Height, p.Bearing.Y)
	}
}

func TestRasterizeCoverageIsCopied(t *testing.T) {
	r := loadTestRasterizer(t)

	a, err := r.RasterizeRune('A')
	if err != nil {
		t.Fatalf("RasterizeRune('A'): %v", err)
	}
	before := append([]byte(nil), a.Coverage...)

	if _, err := r.RasterizeRune('W'); err != nil {
		t.Fatalf("RasterizeRune('W'): %v", err)
	}
	for i := range before {
		if a.Coverage[i] != before[i] {
			t.Fatal("rasterizing another rune changed an earlier coverage buffer")
		}
	}
}

func TestRasterizeFontSize(t *testing.T) {
	small := loadTestRasterizer(t, WithFontSize(12))
	large := loadTestRasterizer(t)

	gs, err := small.RasterizeRune('M')
	if err != nil {
		t.Fatal(err)
	}
	gl, err := large.RasterizeRune('M')
	if err != nil {
		t.Fatal(err)
	}
	if gs.Height >= gl.Height {
		t.Errorf("12px 'M' height %v should be below 48px height %v", gs.Height, gl.Height)
	}
}

func TestNewRasterizerErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"garbage", []byte("definitely not an sfnt file")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRasterizer(tt.data)
			var loadErr *FontLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("NewRasterizer error = %v, want *FontLoadError", err)
			}
		})
	}

	_, err := NewRasterizer(nil)
	if !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("NewRasterizer(nil) error = %v, want ErrEmptyFontData in chain", err)
	}
}

func TestRasterizeMissingRunes(t *testing.T) {
	r := loadTestRasterizer(t, WithRange('A', 'E'))
	r.coverage.Missing = []rune{'B', 'D'}

	_, err := r.Rasterize()
	var renderErr *GlyphRenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Rasterize error = %v, want *GlyphRenderError", err)
	}
	if len(renderErr.Runes) != 2 || renderErr.Runes[0] != 'B' || renderErr.Runes[1] != 'D' {
		t.Errorf("Runes = %q, want [B D]", renderErr.Runes)
	}
	if !errors.Is(err, errNotInCmap) {
		t.Errorf("error chain should contain errNotInCmap: %v", err)
	}
}

func TestRasterizeBlankMissingRunes(t *testing.T) {
	r := loadTestRasterizer(t, WithRange('A', 'E'), WithBlankMissingGlyphs())
	r.coverage.Missing = []rune{'C'}

	glyphs, err := r.Rasterize()
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if len(glyphs) != 5 {
		t.Fatalf("len(glyphs) = %d, want 5", len(glyphs))
	}
	blank := glyphs[2]
	if blank.Rune != 'C' {
		t.Fatalf("glyphs[2].Rune = %q, want 'C'", blank.Rune)
	}
	if blank.Glyph.Width != 0 || blank.Glyph.Advance.X != 0 || blank.Glyph.Coverage != nil {
		t.Errorf("substituted glyph = %+v, want zero", blank.Glyph)
	}
	if glyphs[1].Glyph.Width == 0 {
		t.Error("'B' should still be rendered")
	}
}
