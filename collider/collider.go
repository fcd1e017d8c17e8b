/*
Package collider provides ground-plane trigger volumes for start and finish
lines, and the footprint of a drawn path.

A Gate stands in for the AR engine's collision signals: it reports an enter
and an exit, and the positions at which they happened. Consumers decide the
travel direction from the two positions with pathpioneer.CrossingSign.
Gates and footprints are plane polygons (polyclip contours); height is
ignored.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package collider

import (
	"errors"
	"fmt"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'collider'
func tracer() tracing.Trace {
	return tracing.Select("collider")
}

var (
	// ErrBadExtent indicates a gate with non-positive width or depth.
	ErrBadExtent = errors.New("gate extent must be positive")
	// ErrBadLine indicates a line transform facing straight up or down.
	ErrBadLine = errors.New("line has no horizontal forward direction")
)

// Box creates a rectangular contour from two opposite corners.
func Box(a, b pp.Pair) polyclip.Contour {
	x0, x1 := min(a.X(), b.X()), max(a.X(), b.X())
	y0, y1 := min(a.Y(), b.Y()), max(a.Y(), b.Y())
	return polyclip.Contour{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// AsString returns a contour as a (debugging) string.
func AsString(c polyclip.Contour) string {
	var sb strings.Builder
	for i, pt := range c {
		if i > 0 {
			sb.WriteString(" -- ")
		}
		fmt.Fprintf(&sb, "(%.4g,%.4g)", pt.X, pt.Y)
	}
	sb.WriteString(" -- cycle")
	return sb.String()
}

func point(p pp.Pair) polyclip.Point {
	return polyclip.Point{X: p.X(), Y: p.Y()}
}

// Crossing is a completed pass through a gate.
type Crossing struct {
	Enter pp.Vec3 // walker position when entering
	Exit  pp.Vec3 // walker position when leaving
}

// Sign is positive if the crossing went along forward.
func (c Crossing) Sign(forward pp.Vec3) float64 {
	return pp.CrossingSign(forward, c.Enter, c.Exit)
}

// Gate is a rectangular trigger volume around a start or finish line: Width
// along the line, Depth across it, centred at the line's position.
type Gate struct {
	Line    pp.Transform
	Width   float64
	Depth   float64
	toLocal pp.AT
	area    polyclip.Contour
	inside  bool
	enter   pp.Vec3
	last    pp.Vec3
	tracked bool
}

// NewGate creates a gate for a line transform.
func NewGate(line pp.Transform, width, depth float64) (*Gate, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %gx%g", ErrBadExtent, width, depth)
	}
	fwd, ok := pp.FlatForward(line.Rotation)
	if !ok {
		return nil, ErrBadLine
	}
	g := &Gate{
		Line:    line,
		Width:   width,
		Depth:   depth,
		toLocal: pp.ToLocal(pp.Ground(line.Position), pp.Heading(fwd)),
		area:    Box(pp.P(-width/2, -depth/2), pp.P(width/2, depth/2)),
	}
	tracer().Debugf("gate at %v: %s", pp.Ground(line.Position), AsString(g.area))
	return g, nil
}

// Forward is the line's forward direction on the ground plane.
func (g *Gate) Forward() pp.Vec3 {
	f, _ := pp.FlatForward(g.Line.Rotation)
	return f
}

func (g *Gate) local(pos pp.Vec3) pp.Pair {
	return g.toLocal.Transform(pp.Ground(pos))
}

// Contains tells if pos lies inside the gate.
func (g *Gate) Contains(pos pp.Vec3) bool {
	return g.area.Contains(point(g.local(pos)))
}

// Track feeds the walker's position of the current frame. It returns a
// crossing on collision exit. A walker that jumps across the whole gate
// between two frames also produces a crossing, from the previous to the
// current position.
func (g *Gate) Track(pos pp.Vec3) (Crossing, bool) {
	in := g.Contains(pos)
	defer func() {
		g.last, g.tracked = pos, true
	}()
	switch {
	case in && !g.inside:
		g.inside, g.enter = true, pos
	case !in && g.inside:
		g.inside = false
		return Crossing{Enter: g.enter, Exit: pos}, true
	case !in && g.tracked && g.jumped(g.last, pos):
		return Crossing{Enter: g.last, Exit: pos}, true
	}
	return Crossing{}, false
}

// jumped tells if the segment a→b crosses the line within the gate's width.
func (g *Gate) jumped(a, b pp.Vec3) bool {
	la, lb := g.local(a), g.local(b)
	if (la.Y() < 0) == (lb.Y() < 0) || pp.Is0(lb.Y()-la.Y()) {
		return false
	}
	f := -la.Y() / (lb.Y() - la.Y())
	x := la.X() + f*(lb.X()-la.X())
	return x >= -g.Width/2 && x <= g.Width/2
}

// Inside tells if the walker is currently within the gate.
func (g *Gate) Inside() bool {
	return g.inside
}

// Reset forgets the walker.
func (g *Gate) Reset() {
	g.inside, g.tracked = false, false
}
