package glyphatlas

import (
	"encoding/binary"
	"math"
)

// RGBA is a straight-alpha color with components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Vertex is one corner of a glyph quad.
type Vertex struct {
	Position [2]float32
	Color    RGBA
	UV       [2]float32
}

// Byte layout of a serialized Vertex. All fields are little-endian
// float32:
//
//	position (vec2<f32>) = 8 bytes  at offset 0
//	color    (vec4<f32>) = 16 bytes at offset 8
//	uv       (vec2<f32>) = 8 bytes  at offset 24
//
// Total = 32 bytes per vertex.
const (
	VertexPositionOffset = 0
	VertexColorOffset    = 8
	VertexUVOffset       = 24
	VertexStride         = 32
)

// AppendVertexBytes serializes vertices in the VertexStride layout and
// appends them to dst. The result does not depend on the in-memory
// representation of Vertex.
func AppendVertexBytes(dst []byte, vertices []Vertex) []byte {
	off := len(dst)
	dst = append(dst, make([]byte, len(vertices)*VertexStride)...)
	for _, v := range vertices {
		writeVertex(dst[off:off+VertexStride], v)
		off += VertexStride
	}
	return dst
}

// writeVertex writes a single vertex into buf.
func writeVertex(buf []byte, v Vertex) {
	putF32(buf[VertexPositionOffset:], v.Position[0])
	putF32(buf[VertexPositionOffset+4:], v.Position[1])
	putF32(buf[VertexColorOffset:], v.Color.R)
	putF32(buf[VertexColorOffset+4:], v.Color.G)
	putF32(buf[VertexColorOffset+8:], v.Color.B)
	putF32(buf[VertexColorOffset+12:], v.Color.A)
	putF32(buf[VertexUVOffset:], v.UV[0])
	putF32(buf[VertexUVOffset+4:], v.UV[1])
}

func putF32(buf []byte, f float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
}
