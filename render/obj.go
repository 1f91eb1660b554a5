package render

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes model triangles with per-vertex texture coordinates in
// Wavefront OBJ format. uvs holds 6 values per triangle as produced by the
// unwrapper. Vertices are not shared between triangles.
func WriteOBJ(w io.Writer, model []Triangle3, uvs []float64) error {
	if len(uvs) != 6*len(model) {
		return fmt.Errorf("got %d uv values for %d triangles, want %d", len(uvs), len(model), 6*len(model))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d triangles\n", len(model))
	for _, t := range model {
		for _, v := range t {
			fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
		}
	}
	for i := 0; i < len(uvs); i += 2 {
		fmt.Fprintf(bw, "vt %g %g\n", uvs[i], uvs[i+1])
	}
	for i := range model {
		a := 3*i + 1 // OBJ indices start at 1.
		fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, a+1, a+1, a+2, a+2)
	}
	return bw.Flush()
}
