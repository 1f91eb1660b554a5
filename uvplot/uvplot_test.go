package uvplot_test

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/textureflow/uvunwrap"
	"github.com/textureflow/uvunwrap/uvplot"
)

func TestSavePNG(t *testing.T) {
	positions := []float64{
		0, 0, 0, 1, 0, 0, 1, 1, 0,
		0, 0, 0, 1, 1, 0, 0, 1, 0,
		5, 5, 5, 6, 5, 5, 5, 5, 7,
		0, 0, 0, 0, 0, 0, 1, 1, 1, // degenerate, not drawn.
	}
	res, err := uvunwrap.Unwrap(positions, 0.5, uvunwrap.Config{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "uv.png")
	opts := uvplot.Options{Title: "layout", Width: 200, Height: 150, Supersample: 2}
	if err := uvplot.SavePNG(path, res.UVs, res.Charts, opts); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	cfg, err := png.DecodeConfig(fp)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 200 || cfg.Height != 150 {
		t.Errorf("got %dx%d image, want 200x150", cfg.Width, cfg.Height)
	}
}

func TestPlotErrors(t *testing.T) {
	if _, err := uvplot.Plot(make([]float64, 5), []int{0}, ""); err == nil {
		t.Error("expected error for uv length mismatch")
	}
	if _, err := uvplot.Plot(make([]float64, 6), []int{uvunwrap.NoChart}, ""); err == nil {
		t.Error("expected error when nothing is charted")
	}
}
