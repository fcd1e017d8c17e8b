package spline

import (
	"math"

	pp "github.com/npillmayer/pathpioneer"
)

// InterpolateHermite produces resolution points (at least 2) on the cubic
// Hermite curve from pointA to pointB. Tangents are multiplied by
// tangentScale first; larger scales give a wider, looser curve.
//
// The first point equals pointA and the last equals pointB.
func InterpolateHermite(pointA, tangentA, pointB, tangentB pp.Vec3, resolution int, tangentScale float64) []pp.Vec3 {
	if resolution < 2 {
		resolution = 2
	}
	ta := tangentA.Mul(tangentScale)
	tb := tangentB.Mul(tangentScale)
	points := make([]pp.Vec3, resolution)
	for i := range points {
		t := float64(i) / float64(resolution-1)
		t2 := t * t
		t3 := t2 * t
		h00 := 2*t3 - 3*t2 + 1
		h10 := t3 - 2*t2 + t
		h01 := -2*t3 + 3*t2
		h11 := t3 - t2
		points[i] = pointA.Mul(h00).Add(ta.Mul(h10)).Add(pointB.Mul(h01)).Add(tb.Mul(h11))
	}
	points[0], points[resolution-1] = pointA, pointB
	return points
}

// DrawCurve connects posA, leaving along fwdA, with posB, arriving along fwdB.
// A resolution <= 0 is derived from the separation of the points as
// max(5, distance/20). The tangent scale is max(50, resolution*50).
//
// The heuristics keep typical joins smooth; they do not guarantee the curve
// is free of self-intersections.
func DrawCurve(posA, fwdA, posB, fwdB pp.Vec3, resolution int) []pp.Vec3 {
	if resolution <= 0 {
		resolution = int(math.Max(5, posA.Sub(posB).Len()/20))
	}
	scale := math.Max(50, float64(resolution)*50)
	fa, _ := pp.Normalized(fwdA)
	fb, _ := pp.Normalized(fwdB)
	tracer().Debugf("hermite join: resolution %d, tangent scale %.1f", resolution, scale)
	return InterpolateHermite(posA, fa, posB, fb, resolution, scale)
}
