package spline

import (
	"errors"
	"math"
	"testing"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	f()
}

func zigzag() []pp.Vec3 {
	return []pp.Vec3{{0, 0, 0}, {100, 0, 50}, {200, 0, 0}, {300, 10, 80}, {350, 0, 200}}
}

func straight(n int, spacing float64) []pp.Vec3 {
	pts := make([]pp.Vec3, n)
	for i := range pts {
		pts[i] = pp.Vec3{0, 0, float64(i) * spacing}
	}
	return pts
}

func TestGenerateSplineSampleCount(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, n := range []int{2, 3, 5} {
		for _, r := range []int{1, 4, 10} {
			s, err := GenerateSpline(zigzag()[:n], r)
			require.NoError(t, err)
			assert.Len(t, s, (n-1)*r, "n=%d r=%d", n, r)
		}
	}
}

func TestGenerateSplineRejectsTooFewPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := GenerateSpline([]pp.Vec3{{1, 2, 3}}, 10)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	_, err = GenerateSpline(nil, 10)
	assert.ErrorIs(t, err, ErrTooFewPoints)
	_, err = GenerateSpline(zigzag(), 0)
	assert.ErrorIs(t, err, ErrBadResolution)
	mustPanic(t, func() { MustGenerateSpline(nil, 4) })
}

func TestGenerateSplinePassesControlPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cps := zigzag()
	r := 8
	s := MustGenerateSpline(cps, r)
	for i := 0; i < len(cps)-1; i++ {
		assert.InDelta(t, 0, s[i*r].Position.Sub(cps[i]).Len(), 1e-9,
			"sample %d should be control point %d", i*r, i)
	}
}

func TestGenerateSplineRotationsFaceForward(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := MustGenerateSpline(straight(4, 100), 5)
	for i, sp := range s {
		assert.InDelta(t, 0, pp.Forward(sp.Rotation).Sub(pp.WorldForward).Len(), 1e-9, "sample %d", i)
	}
}

func TestSplineDoesNotWrap(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// a closed square: first and last control point coincide, the samples do not cycle
	square := []pp.Vec3{{0, 0, 0}, {100, 0, 0}, {100, 0, 100}, {0, 0, 100}, {0, 0, 0}}
	s := MustGenerateSpline(square, 10)
	assert.Len(t, s, 40)
	first, last := s[0].Position, s[len(s)-1].Position
	assert.Greater(t, first.Sub(last).Len(), 1e-6)
	assert.Less(t, first.Sub(last).Len(), 15.0)
}

func TestWorldToSplineSpaceRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := MustGenerateSpline(straight(6, 100), 10) // samples every 10cm
	for _, q := range []pp.Vec3{{0, 0, 0}, {0, 0, 123}, {0, 0, 254.5}, {0, 0, 490}} {
		sc := WorldToSplineSpace(q, s)
		back := SplineSpaceToWorld(sc.T, s)
		assert.InDelta(t, 0, back.Sub(q).Len(), 5.0+1e-9, "query %v", q)
		assert.InDelta(t, 0, sc.World(s).Sub(q).Len(), 1e-9)
	}
}

// T is the index fraction of the nearest sample. On unevenly spaced samples it
// differs from the arc-length fraction, which ArcTable provides.
func TestSplineSpaceIsIndexNotArcLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := []pp.SplinePoint{
		{Position: pp.Vec3{0, 0, 0}},
		{Position: pp.Vec3{0, 0, 10}},
		{Position: pp.Vec3{0, 0, 100}},
	}
	sc := WorldToSplineSpace(pp.Vec3{0, 0, 11}, s)
	assert.Equal(t, 1, sc.Index)
	assert.InDelta(t, 0.5, sc.T, 1e-12)
	at := NewArcTable(pp.Positions(s))
	assert.InDelta(t, 0.1, at.Fraction(sc.Index), 1e-12)
}

func TestSplineSpaceToWorldClamps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := MustGenerateSpline(straight(3, 100), 4)
	assert.Equal(t, s[0].Position, SplineSpaceToWorld(-1, s))
	assert.Equal(t, s[len(s)-1].Position, SplineSpaceToWorld(2, s))
	mid := SplineSpaceToWorld(0.5, s[:3])
	assert.InDelta(t, 0, mid.Sub(s[1].Position).Len(), 1e-9)
}

func TestInterpolateHermiteEndpoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a, b := pp.Vec3{0, 0, 0}, pp.Vec3{300, 0, 200}
	fa, fb := pp.Vec3{0, 0, 1}, pp.Vec3{1, 0, 0}
	for _, res := range []int{2, 3, 17} {
		pts := InterpolateHermite(a, fa, b, fb, res, 100)
		require.Len(t, pts, res)
		assert.Equal(t, a, pts[0])
		assert.Equal(t, b, pts[res-1])
	}
	assert.Len(t, InterpolateHermite(a, fa, b, fb, 0, 100), 2)
}

func TestInterpolateHermiteLeavesAlongTangent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := InterpolateHermite(pp.Vec3{}, pp.Vec3{0, 0, 1}, pp.Vec3{100, 0, 100}, pp.Vec3{1, 0, 0}, 50, 200)
	d := pts[1].Sub(pts[0])
	assert.Greater(t, d.Z(), math.Abs(d.X()))
}

func TestDrawCurveResolutionHeuristic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	near := DrawCurve(pp.Vec3{}, pp.WorldForward, pp.Vec3{0, 0, 40}, pp.WorldForward, 0)
	assert.Len(t, near, 5)
	far := DrawCurve(pp.Vec3{}, pp.WorldForward, pp.Vec3{0, 0, 400}, pp.WorldForward, 0)
	assert.Len(t, far, 20)
	fixed := DrawCurve(pp.Vec3{}, pp.WorldForward, pp.Vec3{0, 0, 400}, pp.WorldForward, 7)
	assert.Len(t, fixed, 7)
	assert.Equal(t, pp.Vec3{0, 0, 400}, far[len(far)-1])
}

func TestResampleCurveUniformSpacing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	in := []pp.Vec3{{0, 0, 0}, {0, 0, 3}, {0, 0, 7}, {0, 0, 7.5}, {0, 0, 20}}
	for _, n := range []int{2, 5, 13} {
		out := ResampleCurve(in, n)
		require.Len(t, out, n+1)
		assert.Equal(t, in[0], out[0])
		assert.Equal(t, in[len(in)-1], out[n])
		step := 20.0 / float64(n)
		for i := 1; i < len(out); i++ {
			assert.InDelta(t, step, out[i].Sub(out[i-1]).Len(), 1e-9)
		}
	}
}

func TestResampleCurveKeepsCorners(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	in := []pp.Vec3{{0, 0, 0}, {0, 0, 10}, {10, 0, 10}}
	out := ResampleCurve(in, 4)
	require.Len(t, out, 5)
	assert.InDelta(t, 0, out[2].Sub(pp.Vec3{0, 0, 10}).Len(), 1e-9)
	assert.InDelta(t, 20.0, pp.ArcLength(out), 1e-9)
}

func TestResampleCurveNoop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	one := []pp.Vec3{{1, 1, 1}}
	assert.Equal(t, one, ResampleCurve(one, 10))
	two := []pp.Vec3{{0, 0, 0}, {0, 0, 1}}
	assert.Equal(t, two, ResampleCurve(two, 1))
}

func TestResampleBySpacing(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	out := ResampleBySpacing(straight(2, 100), 25, 2)
	assert.Len(t, out, 5)
	out = ResampleBySpacing(straight(2, 10), 25, 2)
	assert.Len(t, out, 3)
}

func TestArcTable(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	at := NewArcTable([]pp.Vec3{{0, 0, 0}, {0, 0, 10}, {0, 0, 10}, {0, 0, 30}})
	assert.Equal(t, 4, at.N())
	assert.InDelta(t, 30, at.Length(), 1e-12)
	assert.InDelta(t, 10, at.At(2), 1e-12)
	i, f := at.Segment(20)
	assert.Equal(t, 3, i)
	assert.InDelta(t, 0.5, f, 1e-12)
	assert.Equal(t, pp.Vec3{0, 0, 20}, at.Locate(20))
	assert.Equal(t, pp.Vec3{0, 0, 0}, at.Locate(-5))
	assert.Equal(t, pp.Vec3{0, 0, 30}, at.Locate(99))
}
