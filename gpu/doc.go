//go:build !nogpu

// Package gpu uploads glyph atlases and text vertices through wgpu/hal.
//
// Device implements glyphatlas.TextureDevice on top of a hal.Device and
// hal.Queue, so an atlas can be built straight into an R8 texture:
//
//	dev := gpu.NewDevice(halDevice, halQueue, nil)
//	atlas, err := glyphatlas.LoadFont(dev, fontData)
//
// TextPipeline renders the vertices produced by (*glyphatlas.Atlas).AppendText
// in a single non-indexed draw. The shader treats the red channel of the
// atlas as coverage and scales the vertex color alpha by it.
//
// Building with -tags nogpu excludes this package.
package gpu
