package glyphatlas

import "fmt"

// Option configures atlas construction.
type Option func(*config)

// config holds configuration for NewRasterizer and LoadFont.
type config struct {
	fontSize    float64
	first, last rune
	blankOnFail bool
	label       string
}

// defaultConfig returns the default configuration: 48 px, printable ASCII.
func defaultConfig() config {
	return config{
		fontSize: DefaultFontSize,
		first:    FirstRune,
		last:     LastRune,
		label:    "glyph_atlas",
	}
}

// newConfig applies opts over the defaults and clamps the rune range
// to the glyph table.
func newConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.first < 0 {
		c.first = 0
	}
	if c.last >= TableSize {
		c.last = TableSize - 1
	}
	if c.fontSize <= 0 {
		c.fontSize = DefaultFontSize
	}
	return c
}

// validate reports a range that is inverted once clamped, such as
// WithRange(100, 50) or WithRange(200, 300).
func (c config) validate() error {
	if c.first > c.last {
		return fmt.Errorf("%w: %d..%d", ErrInvalidRange, c.first, c.last)
	}
	return nil
}

// WithFontSize sets the rasterization size in pixels per em.
// Non-positive values select DefaultFontSize.
func WithFontSize(px float64) Option {
	return func(c *config) {
		c.fontSize = px
	}
}

// WithRange sets the inclusive codepoint range to rasterize.
// The range is clamped to the 128-entry glyph table; a range that is
// empty after clamping makes NewRasterizer and LoadFont fail with
// ErrInvalidRange.
func WithRange(first, last rune) Option {
	return func(c *config) {
		c.first = first
		c.last = last
	}
}

// WithBlankMissingGlyphs makes rasterization substitute an empty glyph
// with zero advance for codepoints the font cannot render, logging a
// warning for each, instead of failing the whole build.
func WithBlankMissingGlyphs() Option {
	return func(c *config) {
		c.blankOnFail = true
	}
}

// WithLabel sets the debug label passed to the texture device.
func WithLabel(label string) Option {
	return func(c *config) {
		c.label = label
	}
}
