// Command atlasdump builds a glyph atlas on the CPU and writes it as a PNG.
//
// It reports the atlas size, cmap coverage and the vertex count of a sample
// string, which makes it useful for checking a font before shipping it.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/glyphatlas"
	"golang.org/x/image/font/gofont/goregular"
)

func main() {
	var (
		fontPath = flag.String("font", "", "TrueType/OpenType font file (default: Go Regular)")
		size     = flag.Float64("size", glyphatlas.DefaultFontSize, "font size in pixels")
		output   = flag.String("output", "atlas.png", "output file")
		text     = flag.String("text", "Hello, World!", "sample text to lay out")
		fold     = flag.Bool("fold", false, "strip diacritics from -text before layout")
		blank    = flag.Bool("blank", false, "substitute blank glyphs for codepoints the font lacks")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		glyphatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	data := goregular.TTF
	if *fontPath != "" {
		var err error
		data, err = os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
	}

	report, err := glyphatlas.Coverage(data)
	if err != nil {
		log.Fatalf("Failed to inspect font: %v", err)
	}
	log.Printf("Coverage: %d/%d codepoints, %d units per em\n",
		report.Checked-len(report.Missing), report.Checked, report.UnitsPerEm)
	if !report.Complete() {
		log.Printf("Missing: %q\n", report.Missing)
	}

	opts := []glyphatlas.Option{glyphatlas.WithFontSize(*size)}
	if *blank {
		opts = append(opts, glyphatlas.WithBlankMissingGlyphs())
	}

	dev := glyphatlas.NewMemoryDevice(0)
	atlas, err := glyphatlas.LoadFont(dev, data, opts...)
	if err != nil {
		log.Fatalf("Failed to build atlas: %v", err)
	}
	defer func() {
		_ = atlas.Close()
	}()

	if err := savePNG(*output, atlas); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Atlas saved to %s (%dx%d)\n", *output, atlas.Width, atlas.Height)

	sample := *text
	if *fold {
		sample, err = glyphatlas.FoldText(sample)
		if err != nil {
			log.Fatalf("Failed to fold text: %v", err)
		}
	}
	verts := atlas.AppendText(nil, sample, 0, 0, glyphatlas.RGBA{R: 1, G: 1, B: 1, A: 1})
	w, h := atlas.MeasureText(sample)
	log.Printf("Text %q: %d vertices (%d bytes), extent %.0fx%.0f\n",
		sample, len(verts), len(verts)*glyphatlas.VertexStride, w, h)
}

func savePNG(path string, atlas *glyphatlas.Atlas) error {
	tex, ok := atlas.Texture().(*glyphatlas.MemoryTexture)
	if !ok {
		return glyphatlas.ErrAtlasClosed
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, tex.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
