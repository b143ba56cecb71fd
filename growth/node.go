package growth

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Node is a point mass on the growing curve: position, velocity and an
// acceleration accumulator, bounded by per-node limits. A node knows nothing
// about its neighbors; topology lives in the Simulation's node ordering.
type Node struct {
	Position     r2.Vec
	Velocity     r2.Vec
	Acceleration r2.Vec
	MaxForce     float64
	MaxSpeed     float64
}

// NewNode creates a node at rest at the given position.
func NewNode(position r2.Vec, maxSpeed, maxForce float64) *Node {
	return &Node{
		Position: position,
		MaxSpeed: maxSpeed,
		MaxForce: maxForce,
	}
}

// ApplyForce accumulates force into the node's acceleration. No limit is
// enforced here; forces are capped where they are computed and velocity is
// capped in Update.
func (n *Node) ApplyForce(force r2.Vec) {
	n.Acceleration = r2.Add(n.Acceleration, force)
}

// Update integrates one step: velocity absorbs the accumulated acceleration
// and is capped at MaxSpeed, position advances by the velocity, and the
// accumulator resets for the next iteration.
func (n *Node) Update() {
	n.Velocity = r2.Add(n.Velocity, n.Acceleration)
	n.Velocity = clampMag(n.Velocity, n.MaxSpeed)
	n.Position = r2.Add(n.Position, n.Velocity)
	n.Acceleration = r2.Vec{}
}

// Seek returns a steering force toward target: the desired velocity is the
// offset to the target rescaled to MaxSpeed, and the force is desired minus
// current velocity, capped at MaxForce. A zero offset skips the rescale so
// a node sitting on its target produces no NaN.
func (n *Node) Seek(target r2.Vec) r2.Vec {
	desired := r2.Sub(target, n.Position)
	if r2.Norm(desired) != 0 {
		desired = r2.Scale(n.MaxSpeed, r2.Unit(desired))
	}
	steer := r2.Sub(desired, n.Velocity)
	return clampMag(steer, n.MaxForce)
}

// clampMag limits the magnitude of v to max.
func clampMag(v r2.Vec, max float64) r2.Vec {
	norm := r2.Norm(v)
	if norm > max {
		return r2.Scale(max/norm, v)
	}
	return v
}

// setMag rescales v to the given magnitude. The zero vector has no
// direction, so rescaling it yields NaN components; callers must zero those
// out explicitly.
func setMag(v r2.Vec, mag float64) r2.Vec {
	return r2.Scale(mag, r2.Unit(v))
}
