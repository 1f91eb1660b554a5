package uvunwrap

import (
	"errors"
	"math"
	"testing"

	"github.com/textureflow/uvunwrap/internal/d2"
	"github.com/textureflow/uvunwrap/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const uvTol = 1e-12

func mustTriangle(t testing.TB, p ...float64) *Triangle {
	t.Helper()
	tri, err := NewTriangle(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	return &tri
}

func TestNewTriangleErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		p    []float64
		tol  float64
		want error
	}{
		{name: "short", p: []float64{0, 0, 0, 1, 0, 0, 0, 1}, want: ErrInput},
		{name: "long", p: make([]float64, 10), want: ErrInput},
		{name: "nan", p: []float64{0, 0, 0, 1, math.NaN(), 0, 0, 1, 0}, want: ErrInput},
		{name: "inf", p: []float64{0, 0, 0, math.Inf(1), 0, 0, 0, 1, 0}, want: ErrInput},
		{name: "negative tol", p: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, tol: -1, want: ErrInput},
		// Edges are finite but their cross product overflows.
		{name: "overflow", p: []float64{0, 0, 0, 1e300, 0, 0, 0, 1e300, 0}, want: ErrComputation},
	} {
		_, err := NewTriangle(test.p, test.tol)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.want)
		}
	}
}

func TestTriangleGeometry(t *testing.T) {
	tri := mustTriangle(t, 0, 0, 0, 2, -1, 0, 0, 3, 0)
	if tri.Degenerate() {
		t.Fatal("triangle flagged degenerate")
	}
	if n := tri.Normal(); !d3.EqualWithin(n, r3.Vec{Z: 1}, uvTol) {
		t.Errorf("got normal %v, want +Z", n)
	}
	bb := tri.Bounds()
	if bb.Min != (r3.Vec{X: 0, Y: -1, Z: 0}) || bb.Max != (r3.Vec{X: 2, Y: 3, Z: 0}) {
		t.Errorf("unexpected bounds %+v", bb)
	}
	if i := tri.IndexOfVertex(r3.Vec{X: 0, Y: 3}); i != 2 {
		t.Errorf("got vertex index %d, want 2", i)
	}
	if i := tri.IndexOfVertex(r3.Vec{X: 0, Y: 3 + 1e-9}); i != -1 {
		t.Errorf("got vertex index %d for distinct vertex, want -1", i)
	}
}

func TestDegenerate(t *testing.T) {
	for _, test := range []struct {
		name string
		p    []float64
	}{
		{name: "coincident first edge", p: []float64{1, 1, 1, 1, 1, 1, 0, 2, 0}},
		{name: "coincident second edge", p: []float64{1, 1, 1, 0, 2, 0, 1, 1, 1}},
		{name: "coincident last vertices", p: []float64{0, 0, 0, 1, 2, 3, 1, 2, 3}},
		{name: "collinear same direction", p: []float64{0, 0, 0, 1, 0, 0, 2, 0, 0}},
		{name: "collinear opposite direction", p: []float64{0, 0, 0, 1, 0, 0, -3, 0, 0}},
		{name: "point", p: make([]float64, 9)},
	} {
		tri := mustTriangle(t, test.p...)
		if !tri.Degenerate() {
			t.Errorf("%s: not flagged degenerate", test.name)
			continue
		}
		if tri.Normal() != (r3.Vec{}) {
			t.Errorf("%s: degenerate triangle has normal %v", test.name, tri.Normal())
		}
		if err := tri.UnwrapStart(1); !errors.Is(err, ErrDegenerate) {
			t.Errorf("%s: UnwrapStart got %v, want ErrDegenerate", test.name, err)
		}
		if err := tri.UnwrapEmpty(); err != nil {
			t.Fatal(err)
		}
		uv, ok := tri.UV()
		if !ok || uv != [3]r2.Vec{} {
			t.Errorf("%s: got uv %v, want origin", test.name, uv)
		}
	}
}

func TestIsAdjacentTo(t *testing.T) {
	base := mustTriangle(t, 0, 0, 0, 1, 0, 0, 0, 1, 0)
	for _, test := range []struct {
		name string
		p    []float64
		want bool
	}{
		{name: "shared edge", p: []float64{1, 0, 0, 0, 1, 0, 1, 1, 0}, want: true},
		{name: "shared edge folded", p: []float64{0, 1, 0, 0, 0, 0, 0, 0, 1}, want: true},
		{name: "duplicate", p: []float64{0, 1, 0, 0, 0, 0, 1, 0, 0}, want: true},
		{name: "shared vertex", p: []float64{1, 0, 0, 2, 0, 0, 2, 1, 0}, want: false},
		{name: "disjoint", p: []float64{5, 5, 5, 6, 5, 5, 5, 6, 5}, want: false},
		{name: "near miss", p: []float64{1, 1e-9, 0, 0, 1, 0, 1, 1, 0}, want: false},
	} {
		other := mustTriangle(t, test.p...)
		if got := base.IsAdjacentTo(other); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
		if got := other.IsAdjacentTo(base); got != test.want {
			t.Errorf("%s (reversed): got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestIsAdjacentToTolerance(t *testing.T) {
	a, err := NewTriangle([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewTriangle([]float64{1 + 1e-8, 0, 0, 0, 1 - 1e-8, 0, 1, 1, 0}, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if !a.IsAdjacentTo(&b) {
		t.Error("noisy shared edge not detected with tolerance")
	}
}

func TestUnwrapStart(t *testing.T) {
	const scale = 2
	tri := mustTriangle(t, 1, 1, 1, 4, 1, 5, -2, 7, 3)
	if err := tri.UnwrapStart(scale); err != nil {
		t.Fatal(err)
	}
	uv, ok := tri.UV()
	if !ok {
		t.Fatal("uv not assigned")
	}
	if uv[0] != (r2.Vec{}) {
		t.Errorf("first vertex at %v, want origin", uv[0])
	}
	if uv[1] != (r2.Vec{X: 5.0 / scale}) {
		t.Errorf("second vertex at %v, want (%g, 0)", uv[1], 5.0/scale)
	}
	assertIsometric(t, tri, scale)
	if err := tri.UnwrapStart(scale); !errors.Is(err, ErrAssigned) {
		t.Errorf("second UnwrapStart got %v, want ErrAssigned", err)
	}
	if err := tri.UnwrapEmpty(); !errors.Is(err, ErrAssigned) {
		t.Errorf("UnwrapEmpty after UnwrapStart got %v, want ErrAssigned", err)
	}
}

func TestUnwrapStartBadScale(t *testing.T) {
	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		tri := mustTriangle(t, 0, 0, 0, 1, 0, 0, 0, 1, 0)
		if err := tri.UnwrapStart(scale); !errors.Is(err, ErrInput) {
			t.Errorf("scale %g: got %v, want ErrInput", scale, err)
		}
		if tri.Mapped() {
			t.Errorf("scale %g: triangle mapped after error", scale)
		}
	}
}

func TestUnwrapFrom(t *testing.T) {
	const scale = 0.5
	a := mustTriangle(t, 0, 0, 0, 1, 0, 0, 0, 1, 0)
	for _, test := range []struct {
		name string
		p    []float64
	}{
		{name: "coplanar", p: []float64{1, 0, 0, 1, 1, 0, 0, 1, 0}},
		{name: "folded 90", p: []float64{0, 0, 0, 0, 1, 0, 0, 0.5, 2}},
		{name: "reversed winding", p: []float64{0, 1, 0, 1, 0, 0, 3, 3, 3}},
	} {
		a := *a
		if err := a.UnwrapStart(scale); err != nil {
			t.Fatal(err)
		}
		b := mustTriangle(t, test.p...)
		if err := b.UnwrapFrom(&a); err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		auv, _ := a.UV()
		buv, _ := b.UV()
		shared := 0
		for i, p := range b.Points() {
			j := a.IndexOfVertex(p)
			if j < 0 {
				continue
			}
			shared++
			if buv[i] != auv[j] {
				t.Errorf("%s: shared vertex %d at %v, neighbor has %v", test.name, i, buv[i], auv[j])
			}
		}
		if shared != 2 {
			t.Fatalf("%s: fixture shares %d vertices", test.name, shared)
		}
		assertIsometric(t, b, scale)
	}
}

func TestUnwrapFromTopology(t *testing.T) {
	a := mustTriangle(t, 0, 0, 0, 1, 0, 0, 0, 1, 0)
	if err := a.UnwrapStart(1); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name   string
		p      []float64
		shared int
	}{
		{name: "duplicate", p: []float64{1, 0, 0, 0, 1, 0, 0, 0, 0}, shared: 3},
		{name: "vertex only", p: []float64{1, 0, 0, 2, 0, 0, 2, 1, 0}, shared: 1},
		{name: "disjoint", p: []float64{5, 5, 5, 6, 5, 5, 5, 6, 5}, shared: 0},
	} {
		b := mustTriangle(t, test.p...)
		err := b.UnwrapFrom(a)
		if !errors.Is(err, ErrMeshTopology) {
			t.Fatalf("%s: got %v, want ErrMeshTopology", test.name, err)
		}
		var terr *TopologyError
		if !errors.As(err, &terr) || terr.Shared != test.shared {
			t.Errorf("%s: got %#v, want %d shared", test.name, err, test.shared)
		}
		if b.Mapped() {
			t.Errorf("%s: triangle mapped after topology error", test.name)
		}
	}
}

func TestUnwrapFromUnassigned(t *testing.T) {
	a := mustTriangle(t, 0, 0, 0, 1, 0, 0, 0, 1, 0)
	b := mustTriangle(t, 1, 0, 0, 1, 1, 0, 0, 1, 0)
	if err := b.UnwrapFrom(a); !errors.Is(err, ErrUnassigned) {
		t.Errorf("got %v, want ErrUnassigned", err)
	}
}

// assertIsometric checks that all UV edge lengths equal the 3D edge lengths
// divided by scale.
func assertIsometric(t *testing.T, tri *Triangle, scale float64) {
	t.Helper()
	uv, _ := tri.UV()
	p := tri.Points()
	for i := range p {
		j := (i + 1) % 3
		want := d3.Dist(p[i], p[j]) / scale
		got := r2.Norm(r2.Sub(uv[i], uv[j]))
		if math.Abs(got-want) > 1e-9*want {
			t.Errorf("edge %d-%d: uv length %g, want %g", i, j, got, want)
		}
	}
	if d2.EqualWithin(uv[0], uv[2], uvTol) && d2.EqualWithin(uv[1], uv[2], uvTol) {
		t.Errorf("uv collapsed: %v", uv)
	}
}
