package growth

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
)

// nodePoint is a positional snapshot of one node, tagged with its index in
// the simulation's cyclic order.
type nodePoint struct {
	vec   r2.Vec
	index int
}

func (p nodePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(nodePoint)
	if d == 0 {
		return p.vec.X - q.vec.X
	}
	return p.vec.Y - q.vec.Y
}

func (p nodePoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, the metric the tree
// operates in.
func (p nodePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(nodePoint)
	dx := p.vec.X - q.vec.X
	dy := p.vec.Y - q.vec.Y
	return dx*dx + dy*dy
}

// nodePoints implements kdtree.Interface over a position snapshot.
type nodePoints []nodePoint

func (p nodePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p nodePoints) Len() int                      { return len(p) }
func (p nodePoints) Pivot(d kdtree.Dim) int {
	return nodePlane{nodePoints: p, Dim: d}.Pivot()
}
func (p nodePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// nodePlane sorts the snapshot along one axis during tree construction.
type nodePlane struct {
	kdtree.Dim
	nodePoints
}

func (p nodePlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.nodePoints[i].vec.X < p.nodePoints[j].vec.X
	}
	return p.nodePoints[i].vec.Y < p.nodePoints[j].vec.Y
}
func (p nodePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p nodePlane) Slice(start, end int) kdtree.SortSlicer {
	p.nodePoints = p.nodePoints[start:end]
	return p
}
func (p nodePlane) Swap(i, j int) {
	p.nodePoints[i], p.nodePoints[j] = p.nodePoints[j], p.nodePoints[i]
}

// spatialIndex answers radius queries against a snapshot of node positions
// taken at construction time. Rebuilding it each tick is the single most
// important optimisation: it turns the pairwise repulsion scan into a
// sub-linear neighborhood query as the curve grows to thousands of nodes.
type spatialIndex struct {
	tree *kdtree.Tree
}

// newSpatialIndex snapshots the positions of all nodes and builds the tree.
// Later mutation of the nodes does not affect queries against this index.
func newSpatialIndex(nodes []*Node) *spatialIndex {
	points := make(nodePoints, len(nodes))
	for i, n := range nodes {
		points[i] = nodePoint{vec: n.Position, index: i}
	}
	return &spatialIndex{tree: kdtree.New(points, false)}
}

// withinRadius returns the indices of all snapshot positions whose Euclidean
// distance to pos is at most radius, in ascending index order. A node
// querying around its own position finds itself at distance zero.
//
// Tree construction uses randomized pivot selection, so the heap order of
// the query results varies between runs. Sorting gives callers a fixed
// order, which keeps floating-point accumulation over the result
// reproducible.
func (s *spatialIndex) withinRadius(pos r2.Vec, radius float64) []int {
	keep := kdtree.NewDistKeeper(radius * radius)
	s.tree.NearestSet(keep, nodePoint{vec: pos, index: -1})

	indices := make([]int, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		indices = append(indices, c.Comparable.(nodePoint).index)
	}
	sort.Ints(indices)
	return indices
}
