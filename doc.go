// Package glyphatlas builds a bitmap font atlas for real-time text
// rendering and turns strings into textured quads.
//
// The printable ASCII range (32 to 126) of an outline font is rasterized at
// a fixed pixel size with golang.org/x/image/font/opentype, packed left to
// right into a single-row, single-channel texture, and uploaded through a
// [TextureDevice]. Drawing a string appends six vertices per character to
// a caller-owned slice; nothing is cached between calls.
//
// # Building an atlas
//
//	data, _ := os.ReadFile("font.ttf")
//	atlas, err := glyphatlas.LoadFont(dev, data)
//	if err != nil {
//	    log.Fatal(err) // no partial atlas exists
//	}
//	defer atlas.Close()
//
// dev is usually a *gpu.Device from the gpu sub-package. [MemoryDevice]
// keeps the texture in system memory instead.
//
// # Drawing text
//
//	verts = atlas.AppendText(verts[:0], "Score: 42\nLives: 3", 16, 700,
//	    glyphatlas.RGBA{R: 1, G: 1, B: 1, A: 1})
//	payload := glyphatlas.AppendVertexBytes(nil, verts)
//
// Characters without a glyph are drawn as '?'. Newlines return the pen to
// the starting x and move it down by the atlas height.
//
// # Errors
//
// Atlas construction fails as a whole. See [FontLoadError],
// [GlyphRenderError], [AtlasTooLargeError] and [InvalidGlyphDimensionError].
package glyphatlas
