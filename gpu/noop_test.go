//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens the noop hal backend and wraps it in a Device.
func createNoopDevice(t *testing.T) *Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop backend reported no adapters")
	}
	limits := gputypes.DefaultLimits()
	openDev, err := adapters[0].Adapter.Open(0, limits)
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return NewDevice(openDev.Device, openDev.Queue, &limits)
}

// fakeProvider is a gpucontext.DeviceProvider that exposes hal access.
type fakeProvider struct {
	device any
	queue  any
}

func (fakeProvider) Device() gpucontext.Device   { return nil }
func (fakeProvider) Queue() gpucontext.Queue     { return nil }
func (fakeProvider) Adapter() gpucontext.Adapter { return nil }
func (fakeProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (fakeProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "noop", Type: gpucontext.AdapterTypeSoftware}
}
func (p fakeProvider) HalDevice() any { return p.device }
func (p fakeProvider) HalQueue() any  { return p.queue }

// bareProvider has no hal accessors.
type bareProvider struct{}

func (bareProvider) Device() gpucontext.Device   { return nil }
func (bareProvider) Queue() gpucontext.Queue     { return nil }
func (bareProvider) Adapter() gpucontext.Adapter { return nil }
func (bareProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
func (bareProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var (
	_ gpucontext.DeviceProvider = fakeProvider{}
	_ gpucontext.DeviceProvider = bareProvider{}
)
