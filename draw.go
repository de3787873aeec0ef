package glyphatlas

// VerticesPerGlyph is the number of vertices emitted for each drawn
// character: two triangles, no index buffer.
const VerticesPerGlyph = 6

// AppendText appends one textured quad per character of text to dst and
// returns the extended slice. The pen starts at (x, y).
//
// Characters resolve through Glyphs.Lookup, so anything outside the
// populated table is drawn as FallbackRune. A newline emits no quad; it
// returns the pen to the starting x and lowers y by the atlas height.
// The appended vertex count is therefore VerticesPerGlyph times the number
// of non-newline characters.
//
// Texture V runs from 0 at the quad's y+h edge to h/Height at its y edge:
// the texture origin is bottom-left while the screen projection is
// top-left.
func (a *Atlas) AppendText(dst []Vertex, text string, x, y float32, color RGBA) []Vertex {
	startX := x
	atlasW, atlasH := float32(a.Width), float32(a.Height)

	for _, c := range text {
		if c == '\n' {
			x = startX
			y -= atlasH
			continue
		}

		g := a.Glyphs.Lookup(c)

		xpos := x + g.Bearing.X
		ypos := y - (g.Height - g.Bearing.Y)
		w, h := g.Width, g.Height

		uvLeft := g.UVOffset
		uvRight := g.UVOffset + w/atlasW
		uvTop := h / atlasH
		var uvBottom float32

		// Top left, bottom left, bottom right; bottom right, top right, top left.
		dst = append(dst,
			Vertex{Position: [2]float32{xpos, ypos + h}, Color: color, UV: [2]float32{uvLeft, uvBottom}},
			Vertex{Position: [2]float32{xpos, ypos}, Color: color, UV: [2]float32{uvLeft, uvTop}},
			Vertex{Position: [2]float32{xpos + w, ypos}, Color: color, UV: [2]float32{uvRight, uvTop}},
			Vertex{Position: [2]float32{xpos + w, ypos}, Color: color, UV: [2]float32{uvRight, uvTop}},
			Vertex{Position: [2]float32{xpos + w, ypos + h}, Color: color, UV: [2]float32{uvRight, uvBottom}},
			Vertex{Position: [2]float32{xpos, ypos + h}, Color: color, UV: [2]float32{uvLeft, uvBottom}},
		)

		x += g.Advance.X
		y += g.Advance.Y
	}
	return dst
}

// DrawText is AppendText under the name used by renderer code.
func (a *Atlas) DrawText(dst []Vertex, text string, x, y float32, color RGBA) []Vertex {
	return a.AppendText(dst, text, x, y, color)
}

// MeasureText returns the pen extent of text: the widest line's total
// advance and the number of lines times the atlas height.
func (a *Atlas) MeasureText(text string) (width, height float32) {
	if text == "" {
		return 0, 0
	}
	var line float32
	lines := 1
	for _, c := range text {
		if c == '\n' {
			if line > width {
				width = line
			}
			line = 0
			lines++
			continue
		}
		line += a.Glyphs.Lookup(c).Advance.X
	}
	if line > width {
		width = line
	}
	return width, float32(lines) * float32(a.Height)
}
