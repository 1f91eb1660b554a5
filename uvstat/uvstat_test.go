package uvstat_test

import (
	"math"
	"strings"
	"testing"

	"github.com/textureflow/uvunwrap"
	"github.com/textureflow/uvunwrap/uvstat"
)

// tent is two triangles folded along the Y axis plus a degenerate sliver.
var tent = []float64{
	0, 0, 0, 0, 2, 0, -1, 1, 1,
	0, 2, 0, 0, 0, 0, 1, 1, 1,
	0, 0, 0, 0, 1, 0, 0, 2, 0,
}

func TestMeasureIsometric(t *testing.T) {
	const scale = 0.25
	res, err := uvunwrap.Unwrap(tent, scale, uvunwrap.Config{})
	if err != nil {
		t.Fatal(err)
	}
	r, err := uvstat.Measure(tent, res.UVs, scale)
	if err != nil {
		t.Fatal(err)
	}
	if r.Triangles != 3 || r.Degenerate != 1 || r.Collapsed != 0 {
		t.Fatalf("unexpected counts %+v", r)
	}
	for name, got := range map[string]float64{
		"stretch mean": r.StretchMean,
		"stretch min":  r.StretchMin,
		"stretch max":  r.StretchMax,
		"area mean":    r.AreaMean,
	} {
		if math.Abs(got-1) > 1e-9 {
			t.Errorf("%s: got %g, want 1", name, got)
		}
	}
	if r.StretchStdDev > 1e-9 {
		t.Errorf("stretch deviation %g for isometric unwrap", r.StretchStdDev)
	}
	if !strings.Contains(r.String(), "3 triangles (1 degenerate, 0 collapsed)") {
		t.Errorf("unexpected summary %q", r.String())
	}
}

func TestMeasureCollapsed(t *testing.T) {
	r, err := uvstat.Measure(tent[:18], make([]float64, 12), 1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Collapsed != 2 || r.StretchMax != 0 {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestMeasureErrors(t *testing.T) {
	if _, err := uvstat.Measure(tent[:10], nil, 1); err == nil {
		t.Error("expected error for bad positions length")
	}
	if _, err := uvstat.Measure(tent, make([]float64, 6), 1); err == nil {
		t.Error("expected error for uv length mismatch")
	}
	if _, err := uvstat.Measure(tent, make([]float64, 18), 0); err == nil {
		t.Error("expected error for zero scale")
	}
}
