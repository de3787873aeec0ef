//go:build !nogpu

package gpu

import (
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// AtlasTexture is an uploaded glyph atlas: an R8Unorm texture with its view
// and sampler.
type AtlasTexture struct {
	device        hal.Device
	width, height int

	mu      sync.Mutex
	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
}

// Width implements glyphatlas.Texture.
func (t *AtlasTexture) Width() int { return t.width }

// Height implements glyphatlas.Texture.
func (t *AtlasTexture) Height() int { return t.height }

// View returns the texture view, or nil after Release.
func (t *AtlasTexture) View() hal.TextureView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Sampler returns the atlas sampler, or nil after Release.
func (t *AtlasTexture) Sampler() hal.Sampler {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sampler
}

// Released reports whether Release has been called.
func (t *AtlasTexture) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.texture == nil
}

// Release destroys the sampler, view and texture in that order. Calling it
// more than once is a no-op.
func (t *AtlasTexture) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.texture == nil {
		return
	}
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	t.device.DestroyTexture(t.texture)
	t.texture = nil
}
