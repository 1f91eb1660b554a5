// Command uvunwrap assigns texture coordinates to a mesh file and writes the
// result as a Wavefront OBJ file.
//
//	uvunwrap -in model.stl -out model.obj [-scale S] [-tol T] [-plot uv.png] [-stats]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/textureflow/uvunwrap"
	"github.com/textureflow/uvunwrap/render"
	"github.com/textureflow/uvunwrap/uvplot"
	"github.com/textureflow/uvunwrap/uvstat"
)

type options struct {
	in, out      string
	scale, tol   float64
	maxIter      int
	strict       bool
	plot         string
	plotSize     int
	stats        bool
	brute        bool
	verbose      bool
	allowPartial bool
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "input mesh (.stl, .obj, .ply, .3ds)")
	flag.StringVar(&opts.out, "out", "", "output OBJ file. Defaults to the input name with .obj extension")
	flag.Float64Var(&opts.scale, "scale", 0, "world length mapped to one UV unit. 0 infers it from the mesh bounds")
	flag.Float64Var(&opts.tol, "tol", -1, "vertex welding tolerance. Negative infers it from the shortest edge, 0 requires exact matches")
	flag.IntVar(&opts.maxIter, "maxiter", -1, "iteration limit. Negative maps every triangle, 0 uses the library default")
	flag.BoolVar(&opts.strict, "strict", false, "abort on mesh topology errors instead of starting new charts")
	flag.StringVar(&opts.plot, "plot", "", "write a PNG plot of the UV layout to this file")
	flag.IntVar(&opts.plotSize, "plotsize", 1024, "plot width and height in pixels")
	flag.BoolVar(&opts.stats, "stats", false, "log UV distortion statistics")
	flag.BoolVar(&opts.brute, "brute", false, "find adjacency by brute force instead of a kd-tree")
	flag.BoolVar(&opts.verbose, "v", false, "log progress")
	flag.BoolVar(&opts.allowPartial, "allow-partial", false, "exit successfully when some triangles are left unmapped")
	flag.Parse()
	if opts.in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if opts.out == "" {
		opts.out = strings.TrimSuffix(opts.in, filepath.Ext(opts.in)) + ".obj"
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	model, err := render.LoadMesh(opts.in)
	if errors.Is(err, render.ErrNormalMismatch) {
		log.Printf("%s: %v", opts.in, err)
	} else if err != nil {
		return err
	}
	positions := render.Positions(model)

	cfg := uvunwrap.Config{
		VertexTol:     opts.tol,
		MaxIterations: opts.maxIter,
		Strict:        opts.strict,
	}
	if cfg.VertexTol < 0 {
		cfg.VertexTol = uvunwrap.SuggestVertexTol(positions)
	}
	if opts.brute {
		cfg.Adjacency = uvunwrap.AdjacencyBrute
	}
	if opts.verbose {
		cfg.Logger = log.Default()
		degenerate := 0
		for _, t := range model {
			if t.Degenerate(cfg.VertexTol) {
				degenerate++
			}
		}
		log.Printf("%s: %d triangles, %d with collapsed edges", opts.in, len(model), degenerate)
	}
	scale := opts.scale
	if scale == 0 {
		scale = uvunwrap.SuggestScaleSize(positions)
		if opts.verbose {
			log.Printf("using scale size %g", scale)
		}
	}

	e, err := uvunwrap.New(positions, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.in, err)
	}
	res, unwrapErr := e.Unwrap(scale)
	if unwrapErr != nil && res.UVs == nil {
		return unwrapErr
	}
	for _, fault := range res.Faults {
		log.Printf("recovered: %v", fault)
	}
	if err := writeOBJ(opts.out, model, res.UVs); err != nil {
		return err
	}
	log.Printf("wrote %s: %d triangles in %d charts", opts.out, len(model), res.NumCharts)

	if opts.stats {
		report, err := uvstat.Measure(positions, res.UVs, scale)
		if err != nil {
			return err
		}
		log.Print(report)
	}
	if opts.plot != "" {
		err := uvplot.SavePNG(opts.plot, res.UVs, res.Charts, uvplot.Options{
			Title:       filepath.Base(opts.in),
			Width:       opts.plotSize,
			Height:      opts.plotSize,
			Supersample: 2,
		})
		if err != nil {
			return fmt.Errorf("plotting: %w", err)
		}
	}
	if unwrapErr != nil {
		return unwrapErr
	}
	if !res.Complete() && !opts.allowPartial {
		return fmt.Errorf("%d of %d triangles left unmapped, raise -maxiter or pass -allow-partial", res.Unmapped, len(model))
	}
	return nil
}

func writeOBJ(path string, model []render.Triangle3, uvs []float64) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WriteOBJ(fp, model, uvs); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
