package growth

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// PointsOnCircle returns count points evenly distributed on a circle around
// the given origin, stepping 2π/count from angle zero and stopping before a
// full revolution. The result is a ready-made starting shape for New.
func PointsOnCircle(originX, originY, radius float64, count int) []r2.Vec {
	points := make([]r2.Vec, 0, count)
	step := 2 * math.Pi / float64(count)

	for i := 0; i < count; i++ {
		theta := step * float64(i)
		points = append(points, r2.Vec{
			X: originX + radius*math.Cos(theta),
			Y: originY + radius*math.Sin(theta),
		})
	}

	return points
}

// PointsOnNoisyCircle returns count points on a circle whose radius is
// displaced by OpenSimplex noise sampled around the circle, giving an
// organic blob instead of a perfect ring. amplitude scales the displacement
// and frequency stretches the noise along the circumference. The same seed
// always yields the same points.
func PointsOnNoisyCircle(originX, originY, radius, amplitude, frequency float64, count int, seed int64) []r2.Vec {
	noise := opensimplex.New(seed)
	points := make([]r2.Vec, 0, count)
	step := 2 * math.Pi / float64(count)

	for i := 0; i < count; i++ {
		theta := step * float64(i)
		// Sampling noise on a circle keeps the displacement continuous
		// across the seam at theta = 0.
		r := radius + amplitude*noise.Eval2(frequency*math.Cos(theta), frequency*math.Sin(theta))
		points = append(points, r2.Vec{
			X: originX + r*math.Cos(theta),
			Y: originY + r*math.Sin(theta),
		})
	}

	return points
}
