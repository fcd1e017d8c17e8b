/*
Package pathpioneer implements the data model and geometry primitives of an
AR path engine: a user traces a walking path in 3D space, the trace is
turned into a smooth navigable spline, and the path is re-walked with lap and
sprint semantics.

Sub-packages implement the curve library (spline), strip meshes (ribbon),
guidance markers (arrows), trigger volumes (collider), pace sampling (pace)
and the two state machines (authoring, walking). Package lens wires them to
a session.

World units are centimetres. The coordinate frame is right-handed with +Y up;
a rotation's local +Z axis is its forward direction.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package pathpioneer

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'pathpioneer'
func tracer() tracing.Trace {
	return tracing.Select("pathpioneer")
}

// === Numbers ===============================================================

// Epsilon is the tolerance below which lengths count as zero.
var Epsilon float64 = 0.0000001

// Is0 is true if n is within Epsilon of 0.
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Clamp01 restricts n to the unit interval.
func Clamp01(n float64) float64 {
	return math.Max(0, math.Min(1, n))
}

// === Ground Plane ==========================================================

// Pair is a point on the ground plane. X is world x, Y is world z.
type Pair complex128

// P constructs a ground pair.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// Ground projects a world position onto the ground plane.
func Ground(v Vec3) Pair {
	return P(v.X(), v.Z())
}

// Pretty Stringer for ground pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// X is world x.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair (world z).
func (p Pair) Y() float64 {
	return imag(p)
}

// Len is the distance of p from the origin.
func (p Pair) Len() float64 {
	return cmplx.Abs(complex128(p))
}

// Equal is true if p and p2 are within Epsilon per coordinate.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// === Ground Transforms =====================================================

// AT is an affine transform of the ground plane, a 3x3 matrix flattened by rows.
type AT []float64

func newAT() AT {
	return make([]float64, 9)
}

func (m AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

// Identity maps every ground point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation moves ground points by p.
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Rotation turns ground points counter-clockwise by theta radians around
// the origin.
func Rotation(theta float64) AT {
	m := newAT()
	sin, cos := math.Sincos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// String prints the matrix rows, for tracing.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// Combine 2 affine transformations to a new one: m is applied first, then n.
// The arguments are left unchanged.
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += n.get(row, k) * m.get(k, col)
			}
			o.set(row, col, sum)
		}
	}
	return o
}

// Transform a ground point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	x := m.get(0, 0)*p.X() + m.get(0, 1)*p.Y() + m.get(0, 2)
	y := m.get(1, 0)*p.X() + m.get(1, 1)*p.Y() + m.get(1, 2)
	return P(x, y)
}

// ToLocal returns the transform mapping world ground coordinates into the frame
// of a ground-plane object at origin o whose forward axis has heading
// (angle from world +Z towards +X). In the local frame the object's forward
// is +Y and its right is +X.
func ToLocal(o Pair, heading float64) AT {
	return Translation(-o).Combine(Rotation(heading))
}
