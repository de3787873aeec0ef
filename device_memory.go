package glyphatlas

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

// DefaultMaxTextureDimension matches the WebGPU default limit for
// maxTextureDimension2D.
const DefaultMaxTextureDimension = 8192

// MemoryDevice is a TextureDevice that keeps textures in system memory as
// *image.Gray. It is used for CPU-only tooling and tests.
//
// MemoryDevice is safe for concurrent use.
type MemoryDevice struct {
	maxDim uint32
	live   atomic.Int64
}

// NewMemoryDevice creates a MemoryDevice. A maxDim of 0 selects
// DefaultMaxTextureDimension.
func NewMemoryDevice(maxDim uint32) *MemoryDevice {
	if maxDim == 0 {
		maxDim = DefaultMaxTextureDimension
	}
	return &MemoryDevice{maxDim: maxDim}
}

// MaxTextureDimension2D implements TextureDevice.
func (d *MemoryDevice) MaxTextureDimension2D() uint32 {
	return d.maxDim
}

// CreateAtlasTexture implements TextureDevice.
func (d *MemoryDevice) CreateAtlasTexture(desc TextureDescriptor, pixels []byte) (Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("glyphatlas: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if len(pixels) != desc.Width*desc.Height {
		return nil, fmt.Errorf("glyphatlas: texture data is %d bytes, want %d", len(pixels), desc.Width*desc.Height)
	}

	img := image.NewGray(image.Rect(0, 0, desc.Width, desc.Height))
	copy(img.Pix, pixels)

	d.live.Add(1)
	return &MemoryTexture{device: d, desc: desc, image: img}, nil
}

// LiveTextures returns the number of created textures not yet released.
func (d *MemoryDevice) LiveTextures() int {
	return int(d.live.Load())
}

// MemoryTexture is a Texture created by MemoryDevice.
type MemoryTexture struct {
	device *MemoryDevice
	desc   TextureDescriptor

	mu    sync.Mutex
	image *image.Gray
}

// Width implements Texture.
func (t *MemoryTexture) Width() int { return t.desc.Width }

// Height implements Texture.
func (t *MemoryTexture) Height() int { return t.desc.Height }

// Descriptor returns the descriptor the texture was created with.
func (t *MemoryTexture) Descriptor() TextureDescriptor { return t.desc }

// Image returns the texture contents, or nil after Release.
func (t *MemoryTexture) Image() *image.Gray {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.image
}

// Release implements Texture.
func (t *MemoryTexture) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.image == nil {
		return
	}
	t.image = nil
	t.device.live.Add(-1)
}
