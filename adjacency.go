package uvunwrap

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// AdjacencyMethod selects how triangle adjacency is discovered.
// All methods produce identical adjacency lists.
type AdjacencyMethod int

const (
	// AdjacencyKDTree finds candidate neighbors through a kd-tree of vertices.
	AdjacencyKDTree AdjacencyMethod = iota
	// AdjacencyBrute tests every pair of triangles.
	AdjacencyBrute
)

func (m AdjacencyMethod) String() string {
	switch m {
	case AdjacencyKDTree:
		return "kdtree"
	case AdjacencyBrute:
		return "brute"
	}
	return "unknown"
}

// adjacent is the symmetric adjacency relation between two triangles.
func adjacent(a, b *Triangle) bool {
	return a.IsAdjacentTo(b) && b.IsAdjacentTo(a)
}

// bruteAdjacency returns ascending neighbor lists by testing all pairs.
func bruteAdjacency(tris []Triangle) [][]int {
	adj := make([][]int, len(tris))
	for i := range tris {
		for j := i + 1; j < len(tris); j++ {
			if adjacent(&tris[i], &tris[j]) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj
}

// kdAdjacency returns the same lists as bruteAdjacency. Only triangles owning
// a vertex near one of a triangle's vertices are tested.
func kdAdjacency(tris []Triangle, tol float64) [][]int {
	adj := make([][]int, len(tris))
	if len(tris) == 0 {
		return adj
	}
	refs := make(vertexIndex, 0, 3*len(tris))
	for i := range tris {
		for _, p := range tris[i].points {
			refs = append(refs, vertexRef{p: p, tri: i})
		}
	}
	tree := kdtree.New(refs, false)
	// Search radius is padded so rounding in squared distances
	// never drops a pair the exact vertex test would accept.
	radius := 2 * tol
	var cands []int
	for i := range tris {
		cands = cands[:0]
		for _, p := range tris[i].points {
			keep := kdtree.NewDistKeeper(radius * radius)
			tree.NearestSet(keep, vertexRef{p: p, tri: -1})
			for _, c := range keep.Heap {
				if c.Comparable == nil {
					continue // sentinel.
				}
				if j := c.Comparable.(vertexRef).tri; j > i {
					cands = append(cands, j)
				}
			}
		}
		sort.Ints(cands)
		for k, j := range cands {
			if k > 0 && cands[k-1] == j {
				continue
			}
			if adjacent(&tris[i], &tris[j]) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj
}

// vertexRef is a triangle vertex stored in the kd-tree.
type vertexRef struct {
	p   r3.Vec
	tri int
}

func (v vertexRef) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(vertexRef)
	switch d {
	case 0:
		return v.p.X - q.p.X
	case 1:
		return v.p.Y - q.p.Y
	case 2:
		return v.p.Z - q.p.Z
	}
	panic("unreachable")
}

func (v vertexRef) Dims() int { return 3 }

// Distance returns the squared distance between vertices.
func (v vertexRef) Distance(c kdtree.Comparable) float64 {
	q := c.(vertexRef)
	return r3.Norm2(r3.Sub(v.p, q.p))
}

type vertexIndex []vertexRef

func (vi vertexIndex) Index(i int) kdtree.Comparable { return vi[i] }

func (vi vertexIndex) Len() int { return len(vi) }

func (vi vertexIndex) Pivot(d kdtree.Dim) int {
	p := vertexPlane{dim: d, refs: vi}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (vi vertexIndex) Slice(start, end int) kdtree.Interface { return vi[start:end] }

type vertexPlane struct {
	dim  kdtree.Dim
	refs vertexIndex
}

func (p vertexPlane) Less(i, j int) bool {
	return p.refs[i].Compare(p.refs[j], p.dim) < 0
}
func (p vertexPlane) Swap(i, j int) {
	p.refs[i], p.refs[j] = p.refs[j], p.refs[i]
}
func (p vertexPlane) Len() int {
	return len(p.refs)
}
func (p vertexPlane) Slice(start, end int) kdtree.SortSlicer {
	p.refs = p.refs[start:end]
	return p
}
