package ribbon

import (
	"testing"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStraightRibbon(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []pp.Vec3{{0, 0, 0}, {0, 0, 50}, {0, 0, 100}}
	m := BuildFromPoints(pts, 20)
	require.Len(t, m.Vertices, 6)
	require.Len(t, m.UVs, 6)
	assert.Equal(t, 4, m.Triangles())
	assert.False(t, m.Empty())
	// forward +Z: left is -X
	assert.InDelta(t, 0, m.Vertices[0].Sub(pp.Vec3{-10, 0, 0}).Len(), 1e-9)
	assert.InDelta(t, 0, m.Vertices[1].Sub(pp.Vec3{10, 0, 0}).Len(), 1e-9)
	assert.Equal(t, 0.0, m.UVs[0].X())
	assert.Equal(t, 1.0, m.UVs[1].X())
	assert.InDelta(t, 5.0, m.UVs[4].Y(), 1e-12)
	assert.Equal(t, []uint32{0, 1, 2, 1, 3, 2, 2, 3, 4, 3, 5, 4}, m.Indices)
}

func TestBuildSkipsDegeneratePoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []pp.Vec3{{0, 0, 0}, {0, 0, 0}, {0, 0, 10}, {0, 0, 20}}
	m := BuildFromPoints(pts, 2)
	assert.Len(t, m.Vertices, 6)
	assert.Equal(t, 4, m.Triangles())
	for _, i := range m.Indices {
		assert.Less(t, int(i), len(m.Vertices))
	}
}

func TestBuildSkipsVerticalSegments(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []pp.Vec3{{0, 0, 0}, {0, 50, 0}, {0, 50, 10}}
	m := BuildFromPoints(pts, 2)
	assert.Len(t, m.Vertices, 4)
}

func TestBuildEmpty(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.True(t, BuildFromPoints(nil, 10).Empty())
	assert.True(t, BuildFromPoints([]pp.Vec3{{1, 2, 3}}, 10).Empty())
	assert.True(t, BuildFromPoints([]pp.Vec3{{0, 0, 0}, {0, 0, 1}}, 0).Empty())
}

func TestSlopedRibbonStaysLevelAcross(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []pp.Vec3{{0, 0, 0}, {0, 30, 100}}
	m := BuildFromPoints(pts, 40)
	require.Len(t, m.Vertices, 4)
	assert.InDelta(t, m.Vertices[0].Y(), m.Vertices[1].Y(), 1e-9)
	assert.InDelta(t, 40.0, m.Vertices[0].Sub(m.Vertices[1]).Len(), 1e-9)
}
