// Package growth implements a differential growth simulation: a closed
// polygonal curve whose nodes repel nearby nodes, cohere to their curve
// neighbors, and subdivide stretched edges. Over many iterations this
// produces the organic, space-filling patterns known from differential-line
// art.
//
// The simulation is single-threaded. Each Tick is a self-contained unit of
// work; callers may read node positions freely between ticks.
package growth

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Simulation owns the ordered cyclic node sequence and the parameters that
// drive differentiation and growth. The node after the last connects back to
// the first, so adjacency in the slice defines the curve's topology. The
// node count only ever grows. Parameters are fixed at construction.
type Simulation struct {
	nodes []*Node

	// MaxForce is the maximum magnitude of any steering force.
	MaxForce float64
	// MaxSpeed is the maximum magnitude of a node's velocity.
	MaxSpeed float64
	// DesiredSeparation is the radius beyond which no repulsion acts.
	DesiredSeparation float64
	// SeparationCohesionRatio weights separation against cohesion.
	SeparationCohesionRatio float64
	// MaxEdgeLength is the length above which an edge is subdivided.
	MaxEdgeLength float64
}

// New builds a simulation from an ordered sequence of starting points,
// interpreted as a closed cycle. All scalar parameters must be positive and
// finite, and at least two starting points are needed for the cyclic
// neighbor midpoints to be meaningful; neither precondition is validated
// here.
func New(startingPoints []r2.Vec, maxForce, maxSpeed, desiredSeparation, separationCohesionRatio, maxEdgeLength float64) *Simulation {
	nodes := make([]*Node, len(startingPoints))
	for i, p := range startingPoints {
		nodes[i] = NewNode(p, maxSpeed, maxForce)
	}

	return &Simulation{
		nodes:                   nodes,
		MaxForce:                maxForce,
		MaxSpeed:                maxSpeed,
		DesiredSeparation:       desiredSeparation,
		SeparationCohesionRatio: separationCohesionRatio,
		MaxEdgeLength:           maxEdgeLength,
	}
}

// Tick advances the simulation exactly one iteration: steer every node by
// separation and cohesion, integrate, then subdivide edges that grew too
// long.
func (s *Simulation) Tick() {
	s.differentiate()
	s.grow()
}

// Points returns a fresh copy of the current node positions in cyclic curve
// order. Drawing the curve means connecting consecutive points and closing
// the loop from the last back to the first.
func (s *Simulation) Points() []r2.Vec {
	points := make([]r2.Vec, len(s.nodes))
	for i, n := range s.nodes {
		points[i] = n.Position
	}
	return points
}

// Len returns the current node count.
func (s *Simulation) Len() int { return len(s.nodes) }

// differentiate computes all forces from the pre-tick snapshot, then applies
// and integrates in a second pass. The two passes are a correctness
// requirement: a node must never see a neighbor position that was already
// updated within the same tick.
func (s *Simulation) differentiate() {
	index := newSpatialIndex(s.nodes)
	separation := s.separationForces(index)
	cohesion := s.cohesionForces()

	for i, node := range s.nodes {
		node.ApplyForce(r2.Scale(s.SeparationCohesionRatio, separation[i]))
		node.ApplyForce(cohesion[i])
		node.Update()
	}
}

// pendingNode is a midpoint insertion scheduled during an edge scan.
type pendingNode struct {
	node  *Node
	index int
}

// grow subdivides every cyclic edge strictly longer than MaxEdgeLength by
// inserting a resting node at its midpoint. The scan runs over the
// pre-insertion sequence and insertions are applied afterwards; each
// scheduled index is shifted by the number of insertions recorded before it,
// so earlier insertions do not displace later ones. An edge splits at most
// once per tick no matter how far it stretched; it is re-evaluated on the
// next tick.
func (s *Simulation) grow() {
	var pending []pendingNode

	for i, n1 := range s.nodes {
		n2 := s.nodes[0]
		if i < len(s.nodes)-1 {
			n2 = s.nodes[i+1]
		}

		if edgeLength(n1, n2) > s.MaxEdgeLength {
			mid := r2.Scale(0.5, r2.Add(n1.Position, n2.Position))
			pending = append(pending, pendingNode{
				node:  NewNode(mid, s.MaxSpeed, s.MaxForce),
				index: i + 1 + len(pending),
			})
		}
	}

	for _, p := range pending {
		s.nodes = slices.Insert(s.nodes, p.index, p.node)
	}
}

func edgeLength(n1, n2 *Node) float64 {
	return r2.Norm(r2.Sub(n2.Position, n1.Position))
}
