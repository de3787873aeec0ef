//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// minVertexBufferSize holds 64 glyph quads.
const minVertexBufferSize = 64 * glyphatlas.VerticesPerGlyph * glyphatlas.VertexStride

// VertexBuffer is a growable GPU vertex buffer for glyph quads.
//
// Upload replaces the contents; the buffer is reallocated at double its
// previous capacity when the new data does not fit.
type VertexBuffer struct {
	device hal.Device
	queue  hal.Queue
	label  string

	buf      hal.Buffer
	capacity uint64
	count    uint32
	scratch  []byte
}

// NewVertexBuffer creates an empty vertex buffer. No GPU memory is
// allocated until the first Upload.
func NewVertexBuffer(d *Device, label string) *VertexBuffer {
	if label == "" {
		label = "glyph_vertices"
	}
	return &VertexBuffer{device: d.device, queue: d.queue, label: label}
}

// Upload serializes vertices and writes them to the GPU.
func (b *VertexBuffer) Upload(vertices []glyphatlas.Vertex) error {
	b.scratch = glyphatlas.AppendVertexBytes(b.scratch[:0], vertices)
	size := uint64(len(b.scratch))

	if size > b.capacity {
		newCap := b.capacity * 2
		if newCap < minVertexBufferSize {
			newCap = minVertexBufferSize
		}
		for newCap < size {
			newCap *= 2
		}
		buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  newCap,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("gpu: create %s: %w", b.label, err)
		}
		if b.buf != nil {
			b.device.DestroyBuffer(b.buf)
		}
		glyphatlas.Logger().Debug("gpu: vertex buffer grown",
			"label", b.label, "from", b.capacity, "to", newCap)
		b.buf = buf
		b.capacity = newCap
	}

	if size > 0 {
		if err := b.queue.WriteBuffer(b.buf, 0, b.scratch); err != nil {
			return fmt.Errorf("gpu: write %s: %w", b.label, err)
		}
	}
	b.count = uint32(len(vertices))
	return nil
}

// Count returns the number of vertices from the last Upload.
func (b *VertexBuffer) Count() uint32 { return b.count }

// Capacity returns the allocated size in bytes.
func (b *VertexBuffer) Capacity() uint64 { return b.capacity }

// Buffer returns the underlying hal buffer, or nil before the first
// non-empty Upload.
func (b *VertexBuffer) Buffer() hal.Buffer { return b.buf }

// Destroy releases the GPU buffer. The VertexBuffer may be reused by
// calling Upload again.
func (b *VertexBuffer) Destroy() {
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
	b.capacity = 0
	b.count = 0
}
