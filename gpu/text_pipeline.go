//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/text.wgsl
var textShaderSource string

// textUniformSize is vec2 screen size padded to 16 bytes.
const textUniformSize = 16

// ErrTextureReleased is returned when binding an atlas texture that has
// already been released.
var ErrTextureReleased = errors.New("gpu: atlas texture released")

// TextShaderSource returns the WGSL source of the text shader.
func TextShaderSource() string {
	return textShaderSource
}

// CompileTextShader compiles the text shader to SPIR-V words.
func CompileTextShader() ([]uint32, error) {
	return compileWGSL(textShaderSource)
}

// compileWGSL compiles WGSL with naga and converts the little-endian output
// to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpu: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// TextPipeline draws glyph quads sampled from an atlas texture.
//
//	Binding 0: TextUniforms (uniform buffer, vertex)
//	Binding 1: atlas texture (texture_2d, fragment)
//	Binding 2: atlas sampler (fragment)
type TextPipeline struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewTextPipeline compiles the text shader and creates a render pipeline
// targeting format with premultiplied alpha blending. A zero format
// selects BGRA8Unorm.
func NewTextPipeline(d *Device, format gputypes.TextureFormat) (*TextPipeline, error) {
	if d == nil || d.device == nil {
		return nil, glyphatlas.ErrNilDevice
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	p := &TextPipeline{device: d.device, queue: d.queue, format: format}
	if err := p.createPipeline(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *TextPipeline) createPipeline() error {
	spirv, err := CompileTextShader()
	if err != nil {
		return err
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_text_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("gpu: create text shader module: %w", err)
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glyph_text_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create text bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glyph_text_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create text pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "glyph_text_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create text pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// glyphVertexLayout mirrors glyphatlas.AppendVertexBytes.
func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: glyphatlas.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: glyphatlas.VertexPositionOffset, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x4, Offset: glyphatlas.VertexColorOffset, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: glyphatlas.VertexUVOffset, ShaderLocation: 2},
			},
		},
	}
}

// Format returns the color target format of the pipeline.
func (p *TextPipeline) Format() gputypes.TextureFormat { return p.format }

// Bindings holds the per-atlas uniform buffer and bind group.
type Bindings struct {
	device  hal.Device
	queue   hal.Queue
	uniform hal.Buffer
	group   hal.BindGroup
}

// NewBindings creates a bind group for tex with the given target size in
// pixels.
func (p *TextPipeline) NewBindings(tex *AtlasTexture, screenW, screenH float32) (*Bindings, error) {
	if tex == nil || tex.Released() {
		return nil, ErrTextureReleased
	}

	uniform, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glyph_text_uniforms",
		Size:  textUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create text uniform buffer: %w", err)
	}

	group, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "glyph_text_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniform.NativeHandle(), Offset: 0, Size: textUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: tex.View().NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: tex.Sampler().NativeHandle(),
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(uniform)
		return nil, fmt.Errorf("gpu: create text bind group: %w", err)
	}

	b := &Bindings{device: p.device, queue: p.queue, uniform: uniform, group: group}
	if err := b.SetScreenSize(screenW, screenH); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

// SetScreenSize updates the target size used to project pixel positions.
func (b *Bindings) SetScreenSize(w, h float32) error {
	if err := b.queue.WriteBuffer(b.uniform, 0, makeTextUniform(w, h)); err != nil {
		return fmt.Errorf("gpu: write text uniforms: %w", err)
	}
	return nil
}

func makeTextUniform(w, h float32) []byte {
	buf := make([]byte, textUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(w))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(h))
	return buf
}

// BindGroup returns the bind group to pass to Record.
func (b *Bindings) BindGroup() hal.BindGroup { return b.group }

// Destroy releases the bind group and uniform buffer.
func (b *Bindings) Destroy() {
	if b.group != nil {
		b.device.DestroyBindGroup(b.group)
		b.group = nil
	}
	if b.uniform != nil {
		b.device.DestroyBuffer(b.uniform)
		b.uniform = nil
	}
}

// Record draws the contents of vb into an open render pass. Nothing is
// recorded when vb is empty.
func (p *TextPipeline) Record(rp hal.RenderPassEncoder, vb *VertexBuffer, bg hal.BindGroup) {
	if vb == nil || vb.Count() == 0 || vb.Buffer() == nil {
		return
	}
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bg, nil)
	rp.SetVertexBuffer(0, vb.Buffer(), 0)
	rp.Draw(vb.Count(), 1, 0, 0)
}

// Destroy releases all pipeline resources in reverse creation order.
func (p *TextPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
