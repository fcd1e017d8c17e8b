package pathpioneer

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if !Is0(0.000000008) {
		t.Errorf("Expected a to be zero, is not")
	}
	assert.Equal(t, 0.0, Clamp01(-3))
	assert.Equal(t, 1.0, Clamp01(7))
}

func TestLocalFrame(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// an object at (10,10) facing world +X
	T := ToLocal(P(10, 10), Heading(Vec3{1, 0, 0}))
	ahead := T.Transform(P(15, 10))
	if !ahead.Equal(P(0, 5)) {
		t.Errorf("Expected point ahead to map to (0,5), is %v", ahead)
	}
	right := T.Transform(P(10, 7))
	if !right.Equal(P(3, 0)) {
		t.Errorf("Expected point to the right to map to (3,0), is %v", right)
	}
}

func TestLookRotation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q := LookRotation(Vec3{1, 0, 0}, WorldUp)
	assert.InDelta(t, 0, Forward(q).Sub(Vec3{1, 0, 0}).Len(), 1e-9)
	assert.InDelta(t, 0, Up(q).Sub(WorldUp).Len(), 1e-9)
	assert.InDelta(t, 0, Right(q).Sub(Vec3{0, 0, -1}).Len(), 1e-9)
	id := LookRotation(Vec3{}, WorldUp)
	assert.InDelta(t, 0, Forward(id).Sub(WorldForward).Len(), 1e-9)
}

func TestCurveRotation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []Vec3{{0, 0, 0}, {0, 0, 10}, {10, 0, 10}}
	assert.InDelta(t, 0, Forward(CurveRotation(pts, 0)).Sub(WorldForward).Len(), 1e-9)
	assert.InDelta(t, 0, Forward(CurveRotation(pts, 1)).Sub(WorldRight).Len(), 1e-9)
	assert.InDelta(t, 0, Forward(CurveRotation(pts, 2)).Sub(WorldRight).Len(), 1e-9)
}

func TestIntersectPlaneLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, ok := IntersectPlaneLine(Vec3{}, WorldUp, Vec3{3, 10, 4}, Vec3{0, -1, 1})
	assert.True(t, ok)
	assert.InDelta(t, 0, p.Sub(Vec3{3, 0, 14}).Len(), 1e-9, "got %v", p)
	_, ok = IntersectPlaneLine(Vec3{}, WorldUp, Vec3{0, 5, 0}, Vec3{1, 0, 0})
	assert.False(t, ok)
}

func TestCrossingSign(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	fwd := WorldForward
	assert.Greater(t, CrossingSign(fwd, Vec3{0, 0, -5}, Vec3{0, 0, 5}), 0.0)
	assert.Less(t, CrossingSign(fwd, Vec3{0, 0, 5}, Vec3{0, 0, -5}), 0.0)
}

func TestTransformTurned(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := NewTransform(Vec3{1, 2, 3}, LookRotation(WorldForward, WorldUp))
	turned := tr.Turned()
	assert.InDelta(t, 0, turned.Forward().Sub(Vec3{0, 0, -1}).Len(), 1e-9)
	assert.Equal(t, tr.Position, turned.Position)
}

func TestPathDataReverse(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := &PathData{
		SplinePoints: []SplinePoint{
			{Position: Vec3{0, 0, 0}, Rotation: LookRotation(WorldForward, WorldUp)},
			{Position: Vec3{0, 0, 30}, Rotation: LookRotation(WorldForward, WorldUp)},
			{Position: Vec3{0, 0, 40}, Rotation: LookRotation(WorldForward, WorldUp)},
		},
		PathPoints: []Vec3{{0, 0, 0}, {0, 0, 40}},
	}
	assert.InDelta(t, 40.0, pd.Length(), 1e-9)
	pd.Reverse()
	assert.Equal(t, Vec3{0, 0, 40}, pd.SplinePoints[0].Position)
	assert.Equal(t, Vec3{0, 0, 40}, pd.PathPoints[0])
	assert.InDelta(t, 0, Forward(pd.SplinePoints[0].Rotation).Sub(Vec3{0, 0, -1}).Len(), 1e-9)
	assert.InDelta(t, 40.0, pd.Length(), 1e-9)
}

func TestPathDataEnds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	start := NewTransform(Vec3{0, 0, 0}, Quat{W: 1})
	finish := NewTransform(Vec3{0, 0, 400}, Quat{W: 1})
	sprint := &PathData{Start: start, Finish: &finish}
	assert.Equal(t, Vec3{0, 0, 0}, sprint.StartPosition())
	assert.Equal(t, Vec3{0, 0, 400}, sprint.FinishPosition())
	loop := &PathData{Start: start, IsLoop: true}
	assert.Equal(t, loop.StartPosition(), loop.FinishPosition())
}

func TestEaseOut(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, 0.0, EaseOut(0))
	assert.Equal(t, 1.0, EaseOut(1))
	assert.InDelta(t, 0.75, EaseOut(0.5), 1e-12)
	assert.InDelta(t, 5.0, HorizontalDistance(Vec3{0, 7, 0}, Vec3{3, -2, 4}), 1e-12)
	assert.False(t, math.IsNaN(Heading(Vec3{})))
}
