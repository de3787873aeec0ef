package glyphatlas

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Atlas is a font rasterized into a single GPU texture.
//
// An Atlas is built once by LoadFont and is read-only afterwards, so any
// number of AppendText calls may share it without locking. Close releases
// the texture.
type Atlas struct {
	// Width is the sum of all glyph widths; Height is the tallest glyph.
	Width, Height int

	// Glyphs maps ASCII codepoints to their packed glyphs.
	Glyphs GlyphTable

	texture   Texture
	closeOnce sync.Once
	closed    atomic.Bool
}

// BuildLayout rasterizes and packs fontData without touching a GPU.
func BuildLayout(fontData []byte, opts ...Option) (*Layout, error) {
	return buildLayout(fontData, newConfig(opts))
}

func buildLayout(fontData []byte, cfg config) (*Layout, error) {
	r, err := newRasterizer(fontData, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	glyphs, err := r.Rasterize()
	if err != nil {
		return nil, err
	}
	return Pack(glyphs)
}

// LoadFont builds an atlas for fontData and uploads it through dev.
//
// All failures are fatal for the atlas: the returned error is one of
// *FontLoadError, *GlyphRenderError, *InvalidGlyphDimensionError,
// *AtlasTooLargeError, ErrEmptyAtlas, or a wrapped device error. The size
// check against dev.MaxTextureDimension2D happens before any texture is
// created.
func LoadFont(dev TextureDevice, fontData []byte, opts ...Option) (*Atlas, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	cfg := newConfig(opts)

	layout, err := buildLayout(fontData, cfg)
	if err != nil {
		return nil, err
	}

	maxDim := dev.MaxTextureDimension2D()
	if uint64(layout.Width) > uint64(maxDim) || uint64(layout.Height) > uint64(maxDim) {
		return nil, &AtlasTooLargeError{Width: layout.Width, Height: layout.Height, Max: maxDim}
	}

	tex, err := dev.CreateAtlasTexture(TextureDescriptor{
		Label:        cfg.label,
		Width:        layout.Width,
		Height:       layout.Height,
		Filter:       FilterLinear,
		AddressMode:  AddressClampToEdge,
		RowAlignment: 1,
	}, layout.Pixels)
	if err != nil {
		return nil, fmt.Errorf("glyphatlas: create atlas texture: %w", err)
	}

	Logger().Info("glyphatlas: glyph atlas built",
		"label", cfg.label,
		"width", layout.Width,
		"height", layout.Height,
		"glyphs", layout.Glyphs.Len(),
		"size", cfg.fontSize)

	return &Atlas{
		Width:   layout.Width,
		Height:  layout.Height,
		Glyphs:  layout.Glyphs,
		texture: tex,
	}, nil
}

// Texture returns the atlas texture, or nil after Close. It is safe to
// call concurrently with Close.
func (a *Atlas) Texture() Texture {
	if a.closed.Load() {
		return nil
	}
	return a.texture
}

// Close releases the atlas texture. A second call returns ErrAtlasClosed.
func (a *Atlas) Close() error {
	err := ErrAtlasClosed
	a.closeOnce.Do(func() {
		a.closed.Store(true)
		if a.texture != nil {
			a.texture.Release()
		}
		err = nil
	})
	return err
}
