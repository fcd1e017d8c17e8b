/*
Package spline turns coarse point lists into smooth navigable curves.

Three curve tools work together when a traced path is finalized:

   ResampleCurve      re-spaces an arbitrary polyline to uniform arc length
   InterpolateHermite joins two (position, tangent) pairs with a short curve
   GenerateSpline     runs a Catmull-Rom spline through control points

GenerateSpline produces the SplinePoint samples a walking session navigates
by. WorldToSplineSpace maps a world position to the normalized index t of the
nearest sample, SplineSpaceToWorld maps t back to a position. Note that t is an
index fraction found by a linear nearest-sample scan, not the inverse of an
arc-length parameterization. ArcTable offers true arc-length lookups where
they are needed.

Catmull-Rom end segments clamp their virtual neighbours to the nearest real
control point. The curve never wraps, even for loop paths: t=0 and t=1 are
distinct samples.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'spline'
func tracer() tracing.Trace {
	return tracing.Select("spline")
}

var (
	// ErrTooFewPoints indicates a curve operation got less than two points.
	ErrTooFewPoints = errors.New("spline needs at least two points")
	// ErrBadResolution indicates a non-positive sample resolution.
	ErrBadResolution = errors.New("spline resolution must be positive")
)
