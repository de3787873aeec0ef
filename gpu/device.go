//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHalAccess is returned when a device provider does not expose its
// hal device and queue.
var ErrNoHalAccess = errors.New("gpu: provider does not expose hal device and queue")

// Device is a glyphatlas.TextureDevice backed by wgpu/hal.
type Device struct {
	device hal.Device
	queue  hal.Queue
	limits gputypes.Limits
}

// NewDevice wraps an open hal device. A nil limits selects
// gputypes.DefaultLimits.
func NewDevice(device hal.Device, queue hal.Queue, limits *gputypes.Limits) *Device {
	d := &Device{device: device, queue: queue}
	if limits != nil {
		d.limits = *limits
	} else {
		d.limits = gputypes.DefaultLimits()
	}
	return d
}

// NewDeviceFromProvider shares the device of an external provider such as a
// gogpu window. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, glyphatlas.ErrNilDevice
	}
	hp, ok := provider.(interface {
		HalDevice() any
		HalQueue() any
	})
	if !ok {
		return nil, ErrNoHalAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHalAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHalAccess)
	}

	info := provider.AdapterInfo()
	glyphatlas.Logger().Debug("gpu: using provider device",
		"adapter", info.Name, "adapterType", info.Type.String(),
		"surfaceFormat", provider.SurfaceFormat())
	return NewDevice(device, queue, nil), nil
}

// HalDevice returns the wrapped hal device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the wrapped hal queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }

// MaxTextureDimension2D implements glyphatlas.TextureDevice.
func (d *Device) MaxTextureDimension2D() uint32 {
	return d.limits.MaxTextureDimension2D
}

// CreateAtlasTexture implements glyphatlas.TextureDevice. It creates an
// R8Unorm texture, a view and a sampler, then uploads pixels in one
// queue write with tightly packed rows.
func (d *Device) CreateAtlasTexture(desc glyphatlas.TextureDescriptor, pixels []byte) (glyphatlas.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("gpu: invalid atlas size %dx%d", desc.Width, desc.Height)
	}
	if maxDim := d.MaxTextureDimension2D(); uint64(desc.Width) > uint64(maxDim) || uint64(desc.Height) > uint64(maxDim) {
		return nil, &glyphatlas.AtlasTooLargeError{Width: desc.Width, Height: desc.Height, Max: maxDim}
	}
	if len(pixels) != desc.Width*desc.Height {
		return nil, fmt.Errorf("gpu: atlas data is %d bytes, want %d", len(pixels), desc.Width*desc.Height)
	}

	w, h := uint32(desc.Width), uint32(desc.Height)
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create atlas texture: %w", err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create atlas view: %w", err)
	}

	filter := filterMode(desc.Filter)
	address := addressMode(desc.AddressMode)
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label + "_sampler",
		AddressModeU: address,
		AddressModeV: address,
		AddressModeW: address,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
	})
	if err != nil {
		d.device.DestroyTextureView(view)
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create atlas sampler: %w", err)
	}

	// Single-byte texels need no row padding for queue writes.
	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		d.device.DestroySampler(sampler)
		d.device.DestroyTextureView(view)
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: upload atlas: %w", err)
	}

	glyphatlas.Logger().Debug("gpu: atlas texture uploaded",
		"label", desc.Label, "width", w, "height", h)

	return &AtlasTexture{
		device:  d.device,
		width:   desc.Width,
		height:  desc.Height,
		texture: tex,
		view:    view,
		sampler: sampler,
	}, nil
}

func filterMode(f glyphatlas.FilterMode) gputypes.FilterMode {
	if f == glyphatlas.FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

func addressMode(m glyphatlas.AddressMode) gputypes.AddressMode {
	if m == glyphatlas.AddressRepeat {
		return gputypes.AddressModeRepeat
	}
	return gputypes.AddressModeClampToEdge
}
