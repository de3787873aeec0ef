package glyphatlas

// FilterMode selects texture sampling between texels.
type FilterMode uint8

// Filter modes.
const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// AddressMode selects how texture coordinates outside [0, 1] are handled.
type AddressMode uint8

// Address modes.
const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
)

// TextureDescriptor describes the single-channel atlas texture handed to a
// TextureDevice.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture size in pixels.
	Width, Height int

	// Filter is used for both minification and magnification.
	Filter FilterMode

	// AddressMode applies to both U and V.
	AddressMode AddressMode

	// RowAlignment is the byte alignment of rows in the uploaded pixels.
	// Atlas data is tightly packed, so this is always 1.
	RowAlignment int
}

// TextureDevice creates GPU textures for an atlas.
//
// The gpu sub-package provides a wgpu/hal implementation; MemoryDevice
// keeps textures in system memory.
type TextureDevice interface {
	// MaxTextureDimension2D returns the largest width or height a 2D
	// texture may have.
	MaxTextureDimension2D() uint32

	// CreateAtlasTexture creates a single-channel 8-bit texture of
	// desc.Width*desc.Height and uploads pixels into it.
	CreateAtlasTexture(desc TextureDescriptor, pixels []byte) (Texture, error)
}

// Texture is a GPU resource owned by an Atlas.
type Texture interface {
	Width() int
	Height() int

	// Release frees the resource. Calling it more than once has no effect.
	Release()
}
