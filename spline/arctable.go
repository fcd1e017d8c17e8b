package spline

import (
	"sort"

	pp "github.com/npillmayer/pathpioneer"
)

// ArcTable holds the cumulative arc length of a polyline: entry i is the
// distance from point 0 to point i along the line.
type ArcTable struct {
	points []pp.Vec3
	cum    []float64
}

// NewArcTable computes the cumulative distance table for points.
func NewArcTable(points []pp.Vec3) *ArcTable {
	at := &ArcTable{points: points, cum: make([]float64, len(points))}
	for i := 1; i < len(points); i++ {
		at.cum[i] = at.cum[i-1] + points[i].Sub(points[i-1]).Len()
	}
	return at
}

// N is the number of points in the table.
func (at *ArcTable) N() int {
	return len(at.cum)
}

// Length is the total arc length.
func (at *ArcTable) Length() float64 {
	if len(at.cum) == 0 {
		return 0
	}
	return at.cum[len(at.cum)-1]
}

// At is the arc length from the first point to point i.
func (at *ArcTable) At(i int) float64 {
	return at.cum[i]
}

// Fraction is the arc length at point i relative to the total length.
func (at *ArcTable) Fraction(i int) float64 {
	if pp.Is0(at.Length()) {
		return 0
	}
	return at.cum[i] / at.Length()
}

// Segment locates arc length d by binary search. It returns index i such that
// d lies between point i-1 and point i, together with the fraction of the way
// from i-1 to i. d is clamped to the table's range.
func (at *ArcTable) Segment(d float64) (int, float64) {
	n := len(at.cum)
	if n < 2 {
		return 0, 0
	}
	if d <= 0 {
		return 1, 0
	}
	if d >= at.Length() {
		return n - 1, 1
	}
	i := sort.SearchFloat64s(at.cum, d)
	if i == 0 {
		i = 1
	}
	seglen := at.cum[i] - at.cum[i-1]
	if pp.Is0(seglen) {
		return i, 0
	}
	return i, (d - at.cum[i-1]) / seglen
}

// Locate returns the point at arc length d along the polyline.
func (at *ArcTable) Locate(d float64) pp.Vec3 {
	switch len(at.points) {
	case 0:
		return pp.Vec3{}
	case 1:
		return at.points[0]
	}
	i, f := at.Segment(d)
	return pp.Lerp(at.points[i-1], at.points[i], f)
}
