package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/lens"
	"github.com/npillmayer/pathpioneer/walking"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

// recorder builds a trace with frames 100ms apart.
type recorder struct {
	tr Trace
}

func (rec *recorder) at(g pp.Vec3) *TraceFrame {
	cam := pp.NewTransform(g.Add(pp.Vec3{0, 160, 0}), pp.LookRotation(pp.WorldForward, pp.WorldUp))
	look := g.Add(pp.Vec3{0, 0, 200})
	rec.tr.Frames = append(rec.tr.Frames, TraceFrame{
		T:      float64(len(rec.tr.Frames)+1) / 10,
		Camera: PoseOf(cam),
		Ground: [3]float64{g[0], g[1], g[2]},
		Look:   [3]float64{look[0], look[1], look[2]},
	})
	return &rec.tr.Frames[len(rec.tr.Frames)-1]
}

// line is an image target lying at z, as the tracker reports it.
func line(z float64) *Pose {
	q := pp.LookRotation(pp.WorldForward, pp.WorldUp).Mul(mgl64.QuatRotate(-math.Pi, pp.WorldRight))
	p := PoseOf(pp.NewTransform(pp.Vec3{0, 0, z}, q))
	return &p
}

// sprintTrace authors a straight sprint and walks across its start line.
func sprintTrace() Trace {
	rec := &recorder{}
	f := rec.at(pp.Vec3{})
	f.Action, f.Found = actionBegin, line(0)
	for z := 10.0; z <= 650; z += 10 {
		rec.at(pp.Vec3{0, 0, z})
	}
	f = rec.at(pp.Vec3{0, 0, 650})
	f.Action, f.Found = actionFinish, line(800)
	for z := -95.0; z <= 35; z += 10 {
		rec.at(pp.Vec3{0, 0, z})
	}
	return rec.tr
}

func writeTrace(t *testing.T, dir string, tr Trace) string {
	t.Helper()
	data, err := json.Marshal(tr)
	require.NoError(t, err)
	file := filepath.Join(dir, "sprint.json")
	require.NoError(t, os.WriteFile(file, data, 0o644))
	return file
}

func TestReadTrace(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr, err := ReadTrace(strings.NewReader(`{"frames":[
		{"t":0.1,"ground":[0,0,0],"look":[0,0,200],"action":"begin"},
		{"t":0.2,"ground":[0,0,10],"look":[0,0,210],"found":{"position":[0,0,0],"rotation":[1,0,0,0]}}]}`))
	require.NoError(t, err)
	require.Len(t, tr.Frames, 2)
	assert.Equal(t, actionBegin, tr.Frames[0].Action)
	require.NotNil(t, tr.Frames[1].Found)
	assert.Equal(t, pp.Quat{W: 1}, tr.Frames[0].Camera.Transform().Rotation)

	for _, bad := range []string{
		`{"frames":[]}`,
		`{"frames":[{"t":1},{"t":0.5}]}`,
		`{"frames":[{"t":1,"action":"jump"}]}`,
		`not json`,
	} {
		_, err := ReadTrace(strings.NewReader(bad))
		assert.ErrorIs(t, err, errBadTrace, bad)
	}
}

func TestPoseRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tf := pp.NewTransform(pp.Vec3{1, 2, 3}, mgl64.QuatRotate(0.7, pp.WorldUp))
	back := PoseOf(tf).Transform()
	assert.InDelta(t, 0, back.Position.Sub(tf.Position).Len(), 1e-9)
	assert.InDelta(t, 0, back.Rotation.Sub(tf.Rotation).Len(), 1e-9)
}

func TestReplaySprint(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := lens.DefaultConfig()
	log := zerolog.New(zerolog.NewTestWriter(t))
	svc := services(log)
	svc.Meter = noop.NewMeterProvider().Meter("test")
	r, err := newReplayer(log, conf, svc)
	require.NoError(t, err)
	res, err := r.Replay(sprintTrace())
	require.NoError(t, err)
	require.Len(t, res.Paths, 1)
	assert.False(t, res.Paths[0].IsLoop)
	assert.Equal(t, walking.Walking, res.State)
	assert.Equal(t, 0, res.Laps)
	assert.Equal(t, 0, res.Finished)
}

func TestReplayLogsPathEnds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	svc := services(log)
	svc.Meter = noop.NewMeterProvider().Meter("test")
	r, err := newReplayer(log, lens.DefaultConfig(), svc)
	require.NoError(t, err)
	_, err = r.Replay(sprintTrace())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"path made"`)
	assert.Contains(t, buf.String(), `"start":[`)
	assert.Contains(t, buf.String(), `"finish":[`)
}

func TestSpeedWarning(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var buf bytes.Buffer
	hud := &consoleHUD{log: zerolog.New(&buf)}
	hud.SetWarning(true)
	hud.SetWarning(false)
	assert.Equal(t, 1, hud.warnings)
	assert.Contains(t, buf.String(), `"message":"too fast"`)
	assert.NotContains(t, buf.String(), "slow down")
}

func TestReplayErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	log := zerolog.New(zerolog.NewTestWriter(t))

	r, err := newReplayer(log, lens.DefaultConfig(), services(log))
	require.NoError(t, err)
	_, err = r.Replay(Trace{Frames: []TraceFrame{{T: 0, Found: line(0)}}})
	assert.ErrorIs(t, err, errNoCalibration)

	r, err = newReplayer(log, lens.DefaultConfig(), services(log))
	require.NoError(t, err)
	_, err = r.Replay(Trace{Frames: []TraceFrame{{T: 0, Action: actionSwap}}})
	assert.ErrorIs(t, err, errNotWalking)
}

func TestRunReplayAndList(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	file := writeTrace(t, dir, sprintTrace())
	db := filepath.Join(dir, "paths.db")
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"replay", "-db", db, "-name", "hallway", file}, &out))
	assert.Contains(t, out.String(), "paths made: 1")
	assert.Contains(t, out.String(), "state: walking")
	assert.Contains(t, out.String(), "saved: 1")

	out.Reset()
	require.NoError(t, run(ctx, []string{"list", "-db", db}, &out))
	assert.Contains(t, out.String(), "hallway")
	assert.Contains(t, out.String(), "sprint")

	out.Reset()
	require.NoError(t, run(ctx, []string{"delete", "-db", db, "1"}, &out))
	out.Reset()
	require.NoError(t, run(ctx, []string{"list", "-db", db}, &out))
	assert.NotContains(t, out.String(), "hallway")
}

func TestRunUsage(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	t.Cleanup(viper.Reset)
	var out bytes.Buffer
	assert.ErrorIs(t, run(context.Background(), nil, &out), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"replay"}, &out), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"fly"}, &out), errUsage)
	assert.Error(t, run(context.Background(), []string{"list"}, &out))
}
