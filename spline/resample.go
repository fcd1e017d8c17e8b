package spline

import (
	pp "github.com/npillmayer/pathpioneer"
)

// ResampleCurve converts a polyline into targetCount+1 points spaced at
// uniform arc length totalLength/targetCount. The first and last input
// points are preserved exactly.
//
// With fewer than 2 input points or a targetCount below 2, a copy of the
// input is returned.
func ResampleCurve(points []pp.Vec3, targetCount int) []pp.Vec3 {
	if len(points) < 2 || targetCount < 2 {
		return append([]pp.Vec3(nil), points...)
	}
	at := NewArcTable(points)
	step := at.Length() / float64(targetCount)
	out := make([]pp.Vec3, targetCount+1)
	out[0] = points[0]
	for k := 1; k < targetCount; k++ {
		out[k] = at.Locate(float64(k) * step)
	}
	out[targetCount] = points[len(points)-1]
	return out
}

// ResampleBySpacing resamples points so that neighbours lie about spacing
// apart, with at least minCount segments.
func ResampleBySpacing(points []pp.Vec3, spacing float64, minCount int) []pp.Vec3 {
	count := minCount
	if spacing > 0 {
		if c := int(pp.ArcLength(points)/spacing + 0.5); c > count {
			count = c
		}
	}
	return ResampleCurve(points, count)
}
