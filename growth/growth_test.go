package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// newSquareSim builds the documented reference setup: four points on a
// circle of radius 10, so every edge starts at ~14.14, well above the
// subdivision threshold of 5.
func newSquareSim() *Simulation {
	return New(PointsOnCircle(0, 0, 10, 4), 1.5, 1.0, 14.0, 1.1, 5.0)
}

func TestFirstTickSubdividesAllEdges(t *testing.T) {
	sim := newSquareSim()
	require.Equal(t, 4, sim.Len())

	sim.Tick()

	assert.Equal(t, 8, sim.Len())
	for i, p := range sim.Points() {
		assert.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0), "point %d X not finite", i)
		assert.False(t, math.IsNaN(p.Y) || math.IsInf(p.Y, 0), "point %d Y not finite", i)
	}
}

func TestNodeCountMonotonic(t *testing.T) {
	sim := newSquareSim()
	prev := sim.Len()

	for i := 0; i < 30; i++ {
		sim.Tick()
		require.GreaterOrEqual(t, sim.Len(), prev, "tick %d shrank the curve", i)
		prev = sim.Len()
	}
}

func TestPointsStayFinite(t *testing.T) {
	sim := New(PointsOnNoisyCircle(0, 0, 10, 3, 1.5, 12, 42), 1.5, 1.0, 14.0, 1.1, 5.0)

	for i := 0; i < 50; i++ {
		sim.Tick()
	}

	for i, p := range sim.Points() {
		require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "point %d is NaN", i)
		require.False(t, math.IsInf(p.X, 0) || math.IsInf(p.Y, 0), "point %d is infinite", i)
	}
}

func TestDeterminism(t *testing.T) {
	a := newSquareSim()
	b := newSquareSim()

	for i := 0; i < 10; i++ {
		a.Tick()
		b.Tick()
	}

	require.Equal(t, a.Points(), b.Points())
}

func TestVelocityCapHolds(t *testing.T) {
	sim := newSquareSim()

	for i := 0; i < 20; i++ {
		sim.Tick()
		for j, n := range sim.nodes {
			require.LessOrEqual(t, r2.Norm(n.Velocity), sim.MaxSpeed+1e-12,
				"node %d exceeds max speed at tick %d", j, i)
		}
	}
}

func TestForceCapsHold(t *testing.T) {
	sim := newSquareSim()

	for i := 0; i < 10; i++ {
		separation := sim.separationForces(newSpatialIndex(sim.nodes))
		cohesion := sim.cohesionForces()
		for j := range sim.nodes {
			require.LessOrEqual(t, r2.Norm(separation[j]), sim.MaxForce+1e-12, "separation %d", j)
			require.LessOrEqual(t, r2.Norm(cohesion[j]), sim.MaxForce+1e-12, "cohesion %d", j)
		}
		sim.Tick()
	}
}

func TestGrowBoundaryIsExclusive(t *testing.T) {
	points := []r2.Vec{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 3, Y: 0.1}}

	// Edge (0,1) is exactly 6 long: no subdivision at the boundary.
	sim := New(points, 1.5, 1.0, 14.0, 1.1, 6.0)
	sim.grow()
	assert.Equal(t, 3, sim.Len())

	// Just below the edge length the boundary is crossed.
	sim = New(points, 1.5, 1.0, 14.0, 1.1, 5.999)
	sim.grow()
	require.Equal(t, 4, sim.Len())
	assert.Equal(t, r2.Vec{X: 3, Y: 0}, sim.nodes[1].Position)
}

func TestGrowInsertsRestingNodes(t *testing.T) {
	sim := New([]r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 1}}, 1.5, 1.0, 14.0, 1.1, 6.0)
	sim.grow()

	require.Equal(t, 4, sim.Len())
	inserted := sim.nodes[1]
	assert.Equal(t, r2.Vec{X: 5, Y: 0}, inserted.Position)
	assert.Equal(t, r2.Vec{}, inserted.Velocity)
	assert.Equal(t, r2.Vec{}, inserted.Acceleration)
	assert.Equal(t, sim.MaxSpeed, inserted.MaxSpeed)
	assert.Equal(t, sim.MaxForce, inserted.MaxForce)
}

func TestGrowPreservesCyclicOrder(t *testing.T) {
	// All four edges of the square subdivide in one pass; every midpoint must
	// land strictly between its originating pair, shifted by the insertions
	// scheduled before it.
	sim := New([]r2.Vec{
		{X: 10, Y: 0}, {X: 0, Y: 10}, {X: -10, Y: 0}, {X: 0, Y: -10},
	}, 1.5, 1.0, 14.0, 1.1, 5.0)
	sim.grow()

	require.Equal(t, 8, sim.Len())
	want := []r2.Vec{
		{X: 10, Y: 0}, {X: 5, Y: 5},
		{X: 0, Y: 10}, {X: -5, Y: 5},
		{X: -10, Y: 0}, {X: -5, Y: -5},
		{X: 0, Y: -10}, {X: 5, Y: -5},
	}
	assert.Equal(t, want, sim.Points())
}

func TestGrowSplitsEdgeOncePerTick(t *testing.T) {
	// An edge stretched far past twice the threshold still gains only one
	// node per pass.
	sim := New([]r2.Vec{{X: 0, Y: 0}, {X: 100, Y: 0}}, 1.5, 1.0, 14.0, 1.1, 5.0)
	sim.grow()

	// A 2-cycle has two edges, both over the threshold.
	assert.Equal(t, 4, sim.Len())
}

func TestSeparationWithoutNeighborsOpposesVelocity(t *testing.T) {
	sim := New([]r2.Vec{{X: 0, Y: 0}, {X: 1000, Y: 0}}, 1.5, 1.0, 2.0, 1.1, 5.0)
	sim.nodes[0].Velocity = r2.Vec{X: 0.5, Y: -0.25}

	forces := sim.separationForces(newSpatialIndex(sim.nodes))

	// A node only finds itself; the zero accumulation rescales to NaN which
	// is zeroed, leaving -velocity capped at MaxForce.
	assert.Equal(t, r2.Vec{X: -0.5, Y: 0.25}, forces[0])
	assert.Equal(t, r2.Vec{}, forces[1])
}

func TestSeparationPushesNodesApart(t *testing.T) {
	sim := New([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}, 1.5, 1.0, 5.0, 1.1, 5.0)

	forces := sim.separationForces(newSpatialIndex(sim.nodes))

	assert.Negative(t, forces[0].X)
	assert.Positive(t, forces[1].X)
	assert.InDelta(t, 0, forces[0].Y, 1e-12)
}

func TestCohesionSeeksNeighborMidpoint(t *testing.T) {
	// The middle node of a shallow triangle is pulled toward the chord
	// between its two neighbors.
	sim := New([]r2.Vec{{X: -1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}}, 1.5, 1.0, 14.0, 1.1, 5.0)

	forces := sim.cohesionForces()

	assert.InDelta(t, 0, forces[1].X, 1e-12)
	assert.Negative(t, forces[1].Y)
}

func TestCohesionWrapsAround(t *testing.T) {
	sim := New([]r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}}, 1.5, 1.0, 14.0, 1.1, 5.0)

	forces := sim.cohesionForces()

	// First node seeks the midpoint of last and second; last node seeks the
	// midpoint of its predecessor and the first.
	first := sim.nodes[0].Seek(r2.Scale(0.5, r2.Add(sim.nodes[2].Position, sim.nodes[1].Position)))
	last := sim.nodes[2].Seek(r2.Scale(0.5, r2.Add(sim.nodes[1].Position, sim.nodes[0].Position)))
	assert.Equal(t, first, forces[0])
	assert.Equal(t, last, forces[2])
}

func TestPointsReturnsFreshCopy(t *testing.T) {
	sim := newSquareSim()
	points := sim.Points()
	points[0] = r2.Vec{X: 999, Y: 999}

	assert.NotEqual(t, points[0], sim.Points()[0])
}

func BenchmarkTick(b *testing.B) {
	for i := 0; i < b.N; i++ {
		sim := New(PointsOnCircle(100, 100, 10, 10), 1.5, 1.0, 14.0, 1.1, 5.0)
		for j := 0; j < 10; j++ {
			sim.Tick()
		}
	}
}

func BenchmarkTickGrownCurve(b *testing.B) {
	sim := New(PointsOnCircle(0, 0, 10, 10), 1.5, 1.0, 14.0, 1.1, 5.0)
	for i := 0; i < 100; i++ {
		sim.Tick()
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sim.Tick()
	}
}
