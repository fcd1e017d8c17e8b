package collider

import (
	polyclip "github.com/akavel/polyclip-go"
	pp "github.com/npillmayer/pathpioneer"
)

// Footprint is the ground area covered by a ribbon of a given width: one
// rectangle per segment, each extended by half the width at both ends so
// that joints are covered.
type Footprint struct {
	area   polyclip.Polygon
	bounds polyclip.Rectangle
}

// NewFootprint computes the footprint of a ribbon along points.
func NewFootprint(points []pp.Vec3, width float64) Footprint {
	var fp Footprint
	half := width / 2
	for i := 1; i < len(points); i++ {
		a, b := pp.Ground(points[i-1]), pp.Ground(points[i])
		if a.Equal(b) {
			continue
		}
		d := b - a
		l := d.Len()
		u := pp.P(d.X()/l*half, d.Y()/l*half) // along the segment
		n := pp.P(-u.Y(), u.X())               // across the segment
		a, b = a-u, b+u
		fp.area.Add(polyclip.Contour{point(a + n), point(b + n), point(b - n), point(a - n)})
	}
	if len(fp.area) > 0 {
		fp.bounds = fp.area.BoundingBox()
	}
	return fp
}

// Empty is true for a footprint without area.
func (fp Footprint) Empty() bool {
	return len(fp.area) == 0
}

// Contains tells if pos lies on the footprint.
func (fp Footprint) Contains(pos pp.Vec3) bool {
	if fp.Empty() {
		return false
	}
	p := point(pp.Ground(pos))
	if p.X < fp.bounds.Min.X || p.X > fp.bounds.Max.X || p.Y < fp.bounds.Min.Y || p.Y > fp.bounds.Max.Y {
		return false
	}
	for _, c := range fp.area {
		if c.Contains(p) {
			return true
		}
	}
	return false
}
