package growth

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// separationForces computes one repulsion steering force per node from all
// nodes within DesiredSeparation, using the spatial index built for this
// tick. No force can act outside that radius, so the query bounds the work
// done per node.
func (s *Simulation) separationForces(index *spatialIndex) []r2.Vec {
	forces := make([]r2.Vec, len(s.nodes))

	for i, node := range s.nodes {
		neighbors := index.withinRadius(node.Position, s.DesiredSeparation)

		var steer r2.Vec
		for _, j := range neighbors {
			steer = r2.Add(steer, separationForce(node, s.nodes[j]))
		}
		if len(neighbors) > 0 {
			steer = r2.Scale(1/float64(len(neighbors)), steer)
		}

		// Rescaling the zero vector produces NaN components. Zero them
		// instead of letting NaN spread through the curve.
		steer = setMag(steer, s.MaxSpeed)
		if math.IsNaN(steer.X) {
			steer.X = 0
		}
		if math.IsNaN(steer.Y) {
			steer.Y = 0
		}

		steer = r2.Sub(steer, node.Velocity)
		forces[i] = clampMag(steer, s.MaxForce)
	}

	return forces
}

// separationForce is the inverse-distance-weighted repulsion n1 receives
// from n2, pointing away from n2. Coincident nodes contribute nothing; the
// square root is deferred until the pair is known to be distinct.
func separationForce(n1, n2 *Node) r2.Vec {
	diff := r2.Sub(n1.Position, n2.Position)
	distSq := r2.Norm2(diff)
	if distSq <= 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/math.Sqrt(distSq), r2.Unit(diff))
}

// cohesionForces steers every node toward the midpoint of its two cyclic
// neighbors, which keeps the curve connected while separation pushes it
// apart. The first and last index wrap around so the curve stays closed.
func (s *Simulation) cohesionForces() []r2.Vec {
	n := len(s.nodes)
	forces := make([]r2.Vec, n)

	for i, node := range s.nodes {
		prev := i - 1
		if i == 0 {
			prev = n - 1
		}
		next := i + 1
		if i == n-1 {
			next = 0
		}

		mid := r2.Scale(0.5, r2.Add(s.nodes[prev].Position, s.nodes[next].Position))
		forces[i] = node.Seek(mid)
	}

	return forces
}
