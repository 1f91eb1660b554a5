// Package uvunwrap assigns texture coordinates to triangle soups by greedily
// growing charts of similarly oriented, edge-connected triangles.
//
// Charts start at the lowest-index unmapped triangle and grow into the
// unmapped neighbor whose normal is closest to an already mapped triangle's
// normal. Each step unfolds one triangle across a shared edge so that
// neighboring triangles agree exactly on their shared UVs. Degenerate
// triangles are collapsed to the UV origin. Charts are not packed, every
// chart starts at the origin.
package uvunwrap

import (
	"container/heap"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/textureflow/uvunwrap/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMaxIterations is the iteration limit used when
// Config.MaxIterations is zero.
const DefaultMaxIterations = 10000

// NoChart is the chart index of degenerate and unmapped triangles.
const NoChart = -1

// Config holds the unwrap parameters. The zero value is ready to use.
type Config struct {
	// VertexTol is the distance under which two vertices are the same vertex.
	// Zero selects machine epsilon, which requires bit-identical shared
	// vertices. See SuggestVertexTol for a scale relative value.
	VertexTol float64
	// MaxIterations bounds the number of triangles mapped by Unwrap.
	// Zero selects DefaultMaxIterations. A negative value bounds the run by
	// the triangle count, which always completes.
	MaxIterations int
	// Strict makes Unwrap abort on the first mesh topology error. Otherwise
	// the offending triangle starts a new chart and the error is recorded in
	// Result.Faults.
	Strict bool
	// Adjacency selects the neighbor discovery method.
	Adjacency AdjacencyMethod
	// Logger receives progress messages. Nil disables logging.
	Logger *log.Logger
}

func (c Config) iterationLimit(n int) int {
	switch {
	case c.MaxIterations == 0:
		return DefaultMaxIterations
	case c.MaxIterations < 0:
		return n
	}
	return c.MaxIterations
}

// Result is the outcome of an unwrap run.
type Result struct {
	// UVs holds 6 values per triangle: (u,v) for each vertex in input order.
	// Unmapped triangles hold zeros.
	UVs []float64
	// Charts holds the chart index of each triangle, or NoChart.
	Charts []int
	// NumCharts is the number of charts started.
	NumCharts int
	// Iterations is the number of mapping steps performed.
	Iterations int
	// Unmapped counts triangles left without UVs when the iteration limit was reached.
	Unmapped int
	// Faults holds the topology errors recovered from by starting new charts.
	Faults []error
}

// Complete reports whether every triangle was assigned UVs.
func (r Result) Complete() bool { return r.Unmapped == 0 }

// Engine unwraps a single mesh. It owns the triangles and their adjacency.
// An Engine is not safe for concurrent use and Unwrap may be called once.
type Engine struct {
	cfg    Config
	tris   []Triangle
	adj    [][]int // ascending neighbor indices per triangle.
	charts []int
	used   bool
}

// New builds the triangles of a flat positions buffer, 9 values per triangle,
// and computes their adjacency.
func New(positions []float64, cfg Config) (*Engine, error) {
	if len(positions)%9 != 0 {
		return nil, inputErrorf("positions length %d is not a multiple of 9", len(positions))
	}
	tol := cfg.VertexTol
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		return nil, inputErrorf("bad vertex tolerance %g", tol)
	}
	if tol == 0 {
		tol = d3.Epsilon
	}
	e := &Engine{
		cfg:  cfg,
		tris: make([]Triangle, len(positions)/9),
	}
	for i := range e.tris {
		t, err := NewTriangle(positions[9*i:9*i+9], tol)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		e.tris[i] = t
	}
	e.logf("unwrapping %d triangles", len(e.tris))
	start := time.Now()
	switch cfg.Adjacency {
	case AdjacencyKDTree:
		e.adj = kdAdjacency(e.tris, tol)
	case AdjacencyBrute:
		e.adj = bruteAdjacency(e.tris)
	default:
		return nil, inputErrorf("unknown adjacency method %d", cfg.Adjacency)
	}
	e.logf("adjacency (%v) computed in %s", cfg.Adjacency, time.Since(start))
	return e, nil
}

// Unwrap is shorthand for New followed by Engine.Unwrap.
func Unwrap(positions []float64, scaleSize float64, cfg Config) (Result, error) {
	e, err := New(positions, cfg)
	if err != nil {
		return Result{}, err
	}
	return e.Unwrap(scaleSize)
}

// Len returns the number of triangles.
func (e *Engine) Len() int { return len(e.tris) }

// Triangle returns a copy of the ith triangle.
func (e *Engine) Triangle(i int) Triangle { return e.tris[i] }

// Adjacent returns the indices of the triangles adjacent to the ith triangle
// in ascending order.
func (e *Engine) Adjacent(i int) []int {
	return append([]int(nil), e.adj[i]...)
}

// Unwrap assigns UVs to every triangle. scaleSize is the world space length
// mapped to one UV unit. If the iteration limit is reached the partial result
// is returned with Result.Unmapped set. In strict mode a topology error aborts
// the run and is returned alongside the partial result.
func (e *Engine) Unwrap(scaleSize float64) (Result, error) {
	if e.used {
		return Result{}, ErrUsed
	}
	if !(scaleSize > 0) || math.IsInf(scaleSize, 1) {
		return Result{}, inputErrorf("scale size must be positive and finite, got %g", scaleSize)
	}
	e.used = true
	e.charts = make([]int, len(e.tris))
	for i := range e.charts {
		e.charts[i] = NoChart
	}
	var (
		res       Result
		front     frontier
		remaining = len(e.tris)
		next      int // no triangle below next is unmapped.
		limit     = e.cfg.iterationLimit(len(e.tris))
	)
	newChart := func(i int) error {
		if err := e.tris[i].UnwrapStart(scaleSize); err != nil {
			return err
		}
		e.charts[i] = res.NumCharts
		res.NumCharts++
		return nil
	}
	for remaining > 0 && res.Iterations < limit {
		res.Iterations++
		remaining--
		if c, ok := front.pop(e.tris); ok {
			err := e.tris[c.to].UnwrapFrom(&e.tris[c.from])
			var terr *TopologyError
			switch {
			case err == nil:
				e.charts[c.to] = e.charts[c.from]
			case errors.As(err, &terr):
				terr.Triangle, terr.Neighbor = c.to, c.from
				if e.cfg.Strict {
					remaining++
					return e.result(res, remaining), err
				}
				e.logf("starting new chart: %v", err)
				res.Faults = append(res.Faults, err)
				if err := newChart(c.to); err != nil {
					return Result{}, fmt.Errorf("triangle %d: %w", c.to, err)
				}
			default:
				panic("bug: " + err.Error())
			}
			e.grow(&front, c.to)
			continue
		}
		for e.tris[next].mapped {
			next++
		}
		if e.tris[next].degenerate {
			if err := e.tris[next].UnwrapEmpty(); err != nil {
				panic("bug: " + err.Error())
			}
			continue
		}
		if err := newChart(next); err != nil {
			return Result{}, fmt.Errorf("triangle %d: %w", next, err)
		}
		e.grow(&front, next)
	}
	if remaining > 0 {
		e.logf("iteration limit %d reached: %d of %d triangles unmapped", limit, remaining, len(e.tris))
	} else {
		e.logf("unwrap completed: %d charts in %d iterations", res.NumCharts, res.Iterations)
	}
	return e.result(res, remaining), nil
}

func (e *Engine) result(res Result, remaining int) Result {
	res.Unmapped = remaining
	res.Charts = append([]int(nil), e.charts...)
	res.UVs = e.UVs()
	return res
}

// UVs returns the flattened UVs, 6 values per triangle in triangle then
// vertex order. Triangles without UVs contribute zeros.
func (e *Engine) UVs() []float64 {
	out := make([]float64, 6*len(e.tris))
	for i := range e.tris {
		t := &e.tris[i]
		if !t.mapped {
			continue
		}
		for j, uv := range t.uv {
			out[6*i+2*j] = uv.X
			out[6*i+2*j+1] = uv.Y
		}
	}
	return out
}

// grow adds the unmapped, non degenerate neighbors of the freshly mapped
// triangle i to the frontier.
func (e *Engine) grow(front *frontier, i int) {
	from := &e.tris[i]
	if from.degenerate {
		return
	}
	for rank, j := range e.adj[i] {
		to := &e.tris[j]
		if to.mapped || to.degenerate {
			continue
		}
		heap.Push(front, candidate{
			dot:  r3.Dot(from.normal, to.normal),
			from: i,
			to:   j,
			rank: rank,
		})
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.cfg.Logger != nil {
		e.cfg.Logger.Printf(format, args...)
	}
}

// candidate is a possible chart growth step from a mapped triangle into
// an unmapped neighbor.
type candidate struct {
	dot      float64 // cosine between normals.
	from, to int
	rank     int // position of to in from's adjacency list.
}

// frontier is a priority queue of candidates. The most coplanar candidate
// comes first. Ties go to the earliest candidate in triangle then adjacency
// order. Candidates whose target got mapped are discarded lazily.
type frontier []candidate

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.dot != b.dot {
		return a.dot > b.dot
	}
	if a.from != b.from {
		return a.from < b.from
	}
	return a.rank < b.rank
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) { *f = append(*f, x.(candidate)) }

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	c := old[n-1]
	*f = old[:n-1]
	return c
}

// pop returns the best candidate whose target is still unmapped.
func (f *frontier) pop(tris []Triangle) (candidate, bool) {
	for f.Len() > 0 {
		c := heap.Pop(f).(candidate)
		if !tris[c.to].mapped {
			return c, true
		}
	}
	return candidate{}, false
}
