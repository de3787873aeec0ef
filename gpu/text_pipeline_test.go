//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/font/gofont/goregular"
)

func TestTextShaderSource(t *testing.T) {
	source := TextShaderSource()
	if source == "" {
		t.Fatal("text shader source is empty")
	}
	for _, want := range []string{
		"TextUniforms",
		"glyph_atlas",
		"glyph_sampler",
		"vs_main",
		"fs_main",
		"@group(0) @binding(0)",
		"@group(0) @binding(1)",
		"@group(0) @binding(2)",
		".r",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("shader source missing %q", want)
		}
	}
}

func TestCompileTextShader(t *testing.T) {
	words, err := CompileTextShader()
	if err != nil {
		t.Fatalf("CompileTextShader: %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("SPIR-V has %d words", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", words[0])
	}
}

func TestGlyphVertexLayout(t *testing.T) {
	layouts := glyphVertexLayout()
	if len(layouts) != 1 {
		t.Fatalf("got %d layouts, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != glyphatlas.VertexStride {
		t.Errorf("ArrayStride = %d, want %d", l.ArrayStride, glyphatlas.VertexStride)
	}

	want := []struct {
		format gputypes.VertexFormat
		offset uint64
	}{
		{gputypes.VertexFormatFloat32x2, glyphatlas.VertexPositionOffset},
		{gputypes.VertexFormatFloat32x4, glyphatlas.VertexColorOffset},
		{gputypes.VertexFormatFloat32x2, glyphatlas.VertexUVOffset},
	}
	if len(l.Attributes) != len(want) {
		t.Fatalf("got %d attributes, want %d", len(l.Attributes), len(want))
	}
	for i, w := range want {
		a := l.Attributes[i]
		if a.Format != w.format || a.Offset != w.offset || a.ShaderLocation != uint32(i) {
			t.Errorf("attribute %d = %+v, want format %v offset %d location %d", i, a, w.format, w.offset, i)
		}
	}
}

func TestMakeTextUniform(t *testing.T) {
	buf := makeTextUniform(800, 600)
	if len(buf) != textUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), textUniformSize)
	}
	if w := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])); w != 800 {
		t.Errorf("width = %v, want 800", w)
	}
	if h := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])); h != 600 {
		t.Errorf("height = %v, want 600", h)
	}
}

func TestNewTextPipeline(t *testing.T) {
	d := createNoopDevice(t)

	p, err := NewTextPipeline(d, 0)
	if err != nil {
		t.Fatalf("NewTextPipeline: %v", err)
	}
	defer p.Destroy()

	if p.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want BGRA8Unorm", p.Format())
	}
	if p.pipeline == nil || p.bindLayout == nil || p.pipeLayout == nil || p.shader == nil {
		t.Error("pipeline resources not created")
	}

	p.Destroy()
	if p.pipeline != nil || p.shader != nil {
		t.Error("Destroy should clear pipeline resources")
	}

	if _, err := NewTextPipeline(nil, 0); !errors.Is(err, glyphatlas.ErrNilDevice) {
		t.Errorf("nil device: err = %v, want ErrNilDevice", err)
	}
}

func TestTextPipelineBindingsReleased(t *testing.T) {
	d := createNoopDevice(t)
	p, err := NewTextPipeline(d, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Destroy()

	tex, err := d.CreateAtlasTexture(glyphatlas.TextureDescriptor{Label: "tiny", Width: 2, Height: 2}, make([]byte, 4))
	if err != nil {
		t.Fatal(err)
	}
	tex.Release()

	if _, err := p.NewBindings(tex.(*AtlasTexture), 100, 100); !errors.Is(err, ErrTextureReleased) {
		t.Errorf("err = %v, want ErrTextureReleased", err)
	}
	if _, err := p.NewBindings(nil, 100, 100); !errors.Is(err, ErrTextureReleased) {
		t.Errorf("nil texture: err = %v, want ErrTextureReleased", err)
	}
}

// TestTextPipelineRecord builds an atlas, uploads text and records a draw
// into a render pass on the noop backend.
func TestTextPipelineRecord(t *testing.T) {
	d := createNoopDevice(t)
	device := d.HalDevice()

	atlas, err := glyphatlas.LoadFont(d, goregular.TTF)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	defer atlas.Close()

	p, err := NewTextPipeline(d, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewTextPipeline: %v", err)
	}
	defer p.Destroy()

	bindings, err := p.NewBindings(atlas.Texture().(*AtlasTexture), 640, 480)
	if err != nil {
		t.Fatalf("NewBindings: %v", err)
	}
	defer bindings.Destroy()
	if err := bindings.SetScreenSize(800, 600); err != nil {
		t.Fatalf("SetScreenSize failed: %v", err)
	}

	vb := NewVertexBuffer(d, "record_test")
	defer vb.Destroy()
	verts := atlas.AppendText(nil, "Hello\nWorld", 10, 580, glyphatlas.RGBA{R: 1, G: 1, B: 1, A: 1})
	if err := vb.Upload(verts); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if vb.Count() != 10*glyphatlas.VerticesPerGlyph {
		t.Fatalf("Count() = %d, want %d", vb.Count(), 10*glyphatlas.VerticesPerGlyph)
	}

	target, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "record_target",
		Size:          hal.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer device.DestroyTexture(target)

	view, err := device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:         "record_target_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateTextureView: %v", err)
	}
	defer device.DestroyTextureView(view)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "record_encoder"})
	if err != nil {
		t.Fatalf("CreateCommandEncoder: %v", err)
	}
	if err := encoder.BeginEncoding("record_frame"); err != nil {
		t.Fatalf("BeginEncoding: %v", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "record_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	p.Record(rp, vb, bindings.BindGroup())
	p.Record(rp, nil, bindings.BindGroup())
	rp.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		t.Fatalf("EndEncoding: %v", err)
	}
	device.FreeCommandBuffer(cmd)
}
