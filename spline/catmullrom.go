package spline

import (
	"fmt"
	"math"

	pp "github.com/npillmayer/pathpioneer"
)

// GenerateSpline samples a Catmull-Rom spline through controlPoints,
// resolution samples per segment, i.e. (n-1)*resolution samples for n control
// points. The last control point itself is not emitted.
//
// Sample rotations look along the forward difference to the next sample, with
// world up. The final sample reuses the backward difference; a zero-length
// difference keeps the previous rotation.
func GenerateSpline(controlPoints []pp.Vec3, resolution int) ([]pp.SplinePoint, error) {
	n := len(controlPoints)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d control points", ErrTooFewPoints, n)
	}
	if resolution < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadResolution, resolution)
	}
	positions := make([]pp.Vec3, 0, (n-1)*resolution)
	for i := 0; i < n-1; i++ {
		p0 := controlPoints[max(i-1, 0)]
		p1 := controlPoints[i]
		p2 := controlPoints[i+1]
		p3 := controlPoints[min(i+2, n-1)]
		for j := 0; j < resolution; j++ {
			t := float64(j) / float64(resolution)
			positions = append(positions, catmullRom(p0, p1, p2, p3, t))
		}
	}
	samples := make([]pp.SplinePoint, len(positions))
	rot := pp.LookRotation(controlPoints[1].Sub(controlPoints[0]), pp.WorldUp)
	for i, p := range positions {
		var fwd pp.Vec3
		if i < len(positions)-1 {
			fwd = positions[i+1].Sub(p)
		} else if i > 0 {
			fwd = p.Sub(positions[i-1])
		}
		if !pp.Is0(fwd.Len()) {
			rot = pp.LookRotation(fwd, pp.WorldUp)
		}
		samples[i] = pp.SplinePoint{Position: p, Rotation: rot}
	}
	tracer().Debugf("generated %d spline samples from %d control points", len(samples), n)
	return samples, nil
}

// MustGenerateSpline is a helper which panics on precondition errors.
func MustGenerateSpline(controlPoints []pp.Vec3, resolution int) []pp.SplinePoint {
	s, err := GenerateSpline(controlPoints, resolution)
	if err != nil {
		panic(err)
	}
	return s
}

// Uniform Catmull-Rom basis, applied to x, y and z independently.
func catmullRom(p0, p1, p2, p3 pp.Vec3, t float64) pp.Vec3 {
	t2 := t * t
	t3 := t2 * t
	var r pp.Vec3
	for k := 0; k < 3; k++ {
		r[k] = 0.5 * (2*p1[k] +
			(-p0[k]+p2[k])*t +
			(2*p0[k]-5*p1[k]+4*p2[k]-p3[k])*t2 +
			(-p0[k]+3*p1[k]-3*p2[k]+p3[k])*t3)
	}
	return r
}

// SplineCoord is a position in spline space: the normalized index of the
// nearest sample and the residual offset from that sample.
type SplineCoord struct {
	T      float64 // index of nearest sample / (len-1)
	Index  int     // index of nearest sample
	Offset pp.Vec3 // query position minus sample position
}

// World recovers the world position a spline coordinate was computed from.
func (sc SplineCoord) World(points []pp.SplinePoint) pp.Vec3 {
	return SplineSpaceToWorld(sc.T, points).Add(sc.Offset)
}

// WorldToSplineSpace finds the spline sample closest to position by a linear
// scan. It is O(n) per query.
func WorldToSplineSpace(position pp.Vec3, points []pp.SplinePoint) SplineCoord {
	if len(points) == 0 {
		return SplineCoord{}
	}
	best, bestDist := 0, math.MaxFloat64
	for i, sp := range points {
		d := position.Sub(sp.Position)
		if dd := d.Dot(d); dd < bestDist {
			best, bestDist = i, dd
		}
	}
	sc := SplineCoord{Index: best, Offset: position.Sub(points[best].Position)}
	if len(points) > 1 {
		sc.T = float64(best) / float64(len(points)-1)
	}
	return sc
}

// SplineSpaceToWorld maps t in [0,1] to a position by linear interpolation
// between the two bracketing samples. t is clamped.
func SplineSpaceToWorld(t float64, points []pp.SplinePoint) pp.Vec3 {
	n := len(points)
	switch n {
	case 0:
		return pp.Vec3{}
	case 1:
		return points[0].Position
	}
	f := pp.Clamp01(t) * float64(n-1)
	i := int(math.Floor(f))
	if i >= n-1 {
		return points[n-1].Position
	}
	return pp.Lerp(points[i].Position, points[i+1].Position, f-float64(i))
}

// PathLength is the total arc length of a list of spline samples.
func PathLength(points []pp.SplinePoint) float64 {
	return pp.ArcLength(pp.Positions(points))
}
