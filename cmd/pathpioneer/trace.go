package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/authoring"
	"github.com/npillmayer/pathpioneer/lens"
	"github.com/npillmayer/pathpioneer/walking"
	"github.com/rs/zerolog"
)

var (
	errBadTrace      = errors.New("bad trace")
	errNoCalibration = errors.New("no calibration running")
	errNotWalking    = errors.New("no path is being walked")
)

// Trace is a recorded session: the frames of a device plus the user's
// actions and the poses reported by the image tracker.
type Trace struct {
	Frames []TraceFrame `json:"frames"`
}

// TraceFrame is one recorded frame. T is in seconds from the start of the
// recording.
type TraceFrame struct {
	T           float64    `json:"t"`
	Camera      Pose       `json:"camera"`
	Ground      [3]float64 `json:"ground"`
	Look        [3]float64 `json:"look"`
	Action      string     `json:"action,omitempty"`
	Calibrating *Pose      `json:"calibrating,omitempty"`
	Found       *Pose      `json:"found,omitempty"`
}

// Pose is a position plus a rotation quaternion (w, x, y, z).
type Pose struct {
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
}

// Actions a frame may carry.
const (
	actionBegin  = "begin"
	actionFinish = "finish"
	actionLoop   = "loop"
	actionReset  = "reset"
	actionStop   = "stop"
	actionSwap   = "swap"
)

func vec(a [3]float64) pp.Vec3 { return pp.Vec3{a[0], a[1], a[2]} }

// Transform converts a pose. A zero rotation is read as the identity.
func (p Pose) Transform() pp.Transform {
	q := pp.Quat{W: p.Rotation[0], V: pp.Vec3{p.Rotation[1], p.Rotation[2], p.Rotation[3]}}
	if q.Len() == 0 {
		q = pp.Quat{W: 1}
	}
	return pp.NewTransform(vec(p.Position), q.Normalize())
}

// PoseOf is the inverse of Transform.
func PoseOf(t pp.Transform) Pose {
	q := t.Rotation
	return Pose{
		Position: [3]float64{t.Position[0], t.Position[1], t.Position[2]},
		Rotation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
	}
}

// ReadTrace decodes a trace and checks that its frames are in time order.
func ReadTrace(r io.Reader) (Trace, error) {
	var tr Trace
	if err := json.NewDecoder(r).Decode(&tr); err != nil {
		return tr, fmt.Errorf("%w: %v", errBadTrace, err)
	}
	if len(tr.Frames) == 0 {
		return tr, fmt.Errorf("%w: no frames", errBadTrace)
	}
	for i := 1; i < len(tr.Frames); i++ {
		if tr.Frames[i].T < tr.Frames[i-1].T {
			return tr, fmt.Errorf("%w: frame %d is earlier than frame %d", errBadTrace, i, i-1)
		}
	}
	for i, f := range tr.Frames {
		switch f.Action {
		case "", actionBegin, actionFinish, actionLoop, actionReset, actionStop, actionSwap:
		default:
			return tr, fmt.Errorf("%w: frame %d: unknown action %q", errBadTrace, i, f.Action)
		}
	}
	return tr, nil
}

// scriptedCalibrator replays the poses of a trace to the path maker.
type scriptedCalibrator struct {
	onCalibrating, onFound func(pp.Transform)
}

func (c *scriptedCalibrator) StartCalibration(onCalibrating, onFound func(pp.Transform)) {
	c.onCalibrating, c.onFound = onCalibrating, onFound
}

func (c *scriptedCalibrator) StopCalibration() {
	c.onCalibrating, c.onFound = nil, nil
}

func (c *scriptedCalibrator) calibrating(p Pose) error {
	if c.onCalibrating == nil {
		return errNoCalibration
	}
	c.onCalibrating(p.Transform())
	return nil
}

func (c *scriptedCalibrator) found(p Pose) error {
	if c.onFound == nil {
		return errNoCalibration
	}
	c.onFound(p.Transform())
	return nil
}

// Result summarizes a replay.
type Result struct {
	Paths    []pp.PathData // every path made, in order
	State    walking.State
	Laps     int
	Sprints  int
	Distance float64
	Elapsed  time.Duration
	Warnings int
	Finished int
}

// Last is the latest path made.
func (r Result) Last() (pp.PathData, bool) {
	if len(r.Paths) == 0 {
		return pp.PathData{}, false
	}
	return r.Paths[len(r.Paths)-1], true
}

// replayer feeds a trace into a session.
type replayer struct {
	log     zerolog.Logger
	session *lens.Session
	cal     *scriptedCalibrator
	hud     *consoleHUD
	result  Result
	base    time.Time
	now     time.Time
}

func newReplayer(log zerolog.Logger, conf lens.Config, svc lens.Services) (*replayer, error) {
	r := &replayer{
		log:  log,
		cal:  &scriptedCalibrator{},
		hud:  &consoleHUD{log: log},
		base: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	svc.Calibrator = r.cal
	svc.HUD = r.hud
	svc.Warner = r.hud
	s, err := lens.New(conf, svc)
	if err != nil {
		return nil, err
	}
	s.OnPathMade = func(path pp.PathData) {
		r.result.Paths = append(r.result.Paths, path)
		start, finish := path.StartPosition(), path.FinishPosition()
		r.log.Info().Bool("loop", path.IsLoop).Float64("length", path.Length()).
			Int("samples", len(path.SplinePoints)).
			Floats64("start", start[:]).Floats64("finish", finish[:]).Msg("path made")
	}
	s.OnIncrementLoop = func(lap int) {
		r.log.Info().Int("lap", lap).Msg("lap")
	}
	s.OnWalkingFinished = func() {
		r.result.Finished++
	}
	r.session = s
	return r, nil
}

// Replay runs every frame of tr through the session.
func (r *replayer) Replay(tr Trace) (Result, error) {
	for i, f := range tr.Frames {
		if err := r.frame(f); err != nil {
			return r.summary(), fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return r.summary(), nil
}

func (r *replayer) frame(f TraceFrame) error {
	r.now = r.base.Add(time.Duration(f.T * float64(time.Second)))
	if err := r.act(f.Action); err != nil {
		return err
	}
	r.session.Update(authoring.Frame{
		Camera:     f.Camera.Transform(),
		Ground:     vec(f.Ground),
		LookTarget: vec(f.Look),
		Time:       r.now,
	})
	if f.Calibrating != nil {
		if err := r.cal.calibrating(*f.Calibrating); err != nil {
			return err
		}
	}
	if f.Found != nil {
		if err := r.cal.found(*f.Found); err != nil {
			return err
		}
	}
	return r.session.Err()
}

func (r *replayer) act(action string) error {
	if action == "" {
		return nil
	}
	r.log.Info().Str("action", action).Msg("user action")
	switch action {
	case actionBegin:
		return r.session.Begin()
	case actionFinish:
		return r.session.Finish()
	case actionLoop:
		return r.session.CloseLoop()
	case actionReset:
		r.session.Reset()
		return nil
	}
	e := r.session.Walking()
	if e == nil {
		return errNotWalking
	}
	if action == actionSwap {
		return e.SwapStartFinish()
	}
	e.Stop()
	return nil
}

func (r *replayer) summary() Result {
	res := r.result
	res.Warnings = r.hud.warnings
	if e := r.session.Walking(); e != nil {
		res.State = e.State()
		res.Laps = e.LapCount()
		res.Sprints = e.Sprints()
		res.Distance = e.Distance()
		res.Elapsed = e.Elapsed(r.now)
	}
	return res
}
