// Package uvplot draws UV layouts, one filled polygon per triangle colored by chart.
package uvplot

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/textureflow/uvunwrap/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Options configures the rendered image.
type Options struct {
	Title string
	// Width and Height in pixels. Zero selects 800 by 800.
	Width, Height int
	// Supersample renders at this multiple of the output size before
	// downsampling. Zero or one disables supersampling.
	Supersample int
}

// Plot builds a plot of the UV layout. uvs holds 6 values per triangle and
// charts the chart index of each triangle. Triangles with a negative chart
// index are not drawn.
func Plot(uvs []float64, charts []int, title string) (*plot.Plot, error) {
	if len(uvs) != 6*len(charts) {
		return nil, fmt.Errorf("got %d uv values for %d triangles, want %d", len(uvs), len(charts), 6*len(charts))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "U"
	p.Y.Label.Text = "V"
	var (
		drawn    int
		min, max = d2.Elem(0), d2.Elem(0)
	)
	for i, chart := range charts {
		if chart < 0 {
			continue
		}
		xys := make(plotter.XYs, 3)
		for j := range xys {
			uv := r2.Vec{X: uvs[6*i+2*j], Y: uvs[6*i+2*j+1]}
			min, max = d2.MinElem(min, uv), d2.MaxElem(max, uv)
			xys[j] = plotter.XY{X: uv.X, Y: uv.Y}
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		poly.Color = fill(chart)
		poly.LineStyle.Width = vg.Points(0.25)
		poly.LineStyle.Color = color.Black
		p.Add(poly)
		drawn++
	}
	if drawn == 0 {
		return nil, errors.New("no charted triangles to plot")
	}
	if max.X == min.X {
		max.X++
	}
	if max.Y == min.Y {
		max.Y++
	}
	p.X.Min, p.X.Max = min.X, max.X
	p.Y.Min, p.Y.Max = min.Y, max.Y
	return p, nil
}

// fill returns a translucent chart color.
func fill(chart int) color.Color {
	r, g, b, _ := plotutil.Color(chart).RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xa0}
}

// Render draws p into an image.
func Render(p *plot.Plot, opts Options) image.Image {
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = 800, 800
	}
	scale := opts.Supersample
	if scale < 1 {
		scale = 1
	}
	// vgimg draws at 72 dpi, a point per pixel.
	c := vgimg.New(vg.Points(float64(width*scale)), vg.Points(float64(height*scale)))
	p.Draw(draw.New(c))
	img := image.Image(c.Image())
	if scale > 1 {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img
}

// SavePNG plots the UV layout and writes it to a PNG file.
func SavePNG(path string, uvs []float64, charts []int, opts Options) error {
	p, err := Plot(uvs, charts, opts.Title)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, Render(p, opts))
}
