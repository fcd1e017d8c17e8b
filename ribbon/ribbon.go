/*
Package ribbon builds constant-width strip meshes along ordered point lists.

A ribbon visualizes a path on the floor. Its V texture coordinate grows
with arc length, so a scrolling texture animates along the direction of
the points.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package ribbon

import (
	"github.com/go-gl/mathgl/mgl64"
	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ribbon'
func tracer() tracing.Trace {
	return tracing.Select("ribbon")
}

// Mesh is a triangle strip as plain geometry buffers.
type Mesh struct {
	Vertices []pp.Vec3
	UVs      []mgl64.Vec2
	Indices  []uint32
}

// Empty is true if the mesh has no triangles.
func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// Triangles is the number of triangles in the mesh.
func (m Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Sink receives rebuilt meshes, e.g. a render component.
type Sink interface {
	UpdateMesh(m Mesh)
}

// BuildFromPoints builds a strip of the given width along points.
//
// Each usable point emits a left and a right vertex. Left has U=0, right U=1;
// V is the running arc length divided by width. Points without a usable
// forward direction (duplicates, or a forward parallel to world up) are
// skipped. Consecutive emitted pairs are joined by two triangles.
func BuildFromPoints(points []pp.Vec3, width float64) Mesh {
	var m Mesh
	if len(points) < 2 || width <= 0 {
		return m
	}
	var run float64
	pairs := 0
	for i, p := range points {
		if i > 0 {
			run += p.Sub(points[i-1]).Len()
		}
		var fwd pp.Vec3
		if i < len(points)-1 {
			fwd = points[i+1].Sub(p)
		} else {
			fwd = p.Sub(points[i-1])
		}
		f, ok := pp.Normalized(fwd)
		if !ok {
			tracer().Debugf("ribbon: skipping degenerate point %d", i)
			continue
		}
		up, ok := pp.Normalized(pp.WorldUp.Sub(f.Mul(pp.WorldUp.Dot(f))))
		if !ok {
			tracer().Debugf("ribbon: skipping vertical point %d", i)
			continue
		}
		side := f.Cross(up).Mul(width / 2)
		v := run / width
		m.Vertices = append(m.Vertices, p.Add(side), p.Sub(side))
		m.UVs = append(m.UVs, mgl64.Vec2{0, v}, mgl64.Vec2{1, v})
		if pairs > 0 {
			k := uint32(2 * (pairs - 1))
			m.Indices = append(m.Indices, k, k+1, k+2, k+1, k+3, k+2)
		}
		pairs++
	}
	return m
}
