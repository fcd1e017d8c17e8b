package walking

import (
	"fmt"
	"time"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/arrows"
	"github.com/npillmayer/pathpioneer/collider"
	"github.com/npillmayer/pathpioneer/pace"
	"github.com/npillmayer/pathpioneer/ribbon"
	"github.com/npillmayer/pathpioneer/spline"
	"go.opentelemetry.io/otel/metric"
)

// HUD displays the live readouts of a walk.
type HUD interface {
	SetProgress(fraction float64) // 0 at the start of the current leg, 1 at its end
	SetTime(elapsed time.Duration)
	SetAveragePace(cmPerSecond float64)
}

// Warner raises a visual warning when the walker is too fast.
type Warner interface {
	SetWarning(on bool)
}

// PaceSource measures the walker's pace. *pace.Calculator is one.
type PaceSource interface {
	Start(pos pp.Vec3, now time.Time)
	GetPace(pos pp.Vec3, now time.Time) pace.Sample
}

// Deps are the collaborators of an engine. The callbacks and Meter are
// optional; a nil Meter selects the global meter provider.
type Deps struct {
	UI                pp.UI
	HUD               HUD
	Warner            Warner
	Mesh              ribbon.Sink
	Arrows            arrows.Sink
	Pace              PaceSource
	OnIncrementLoop   func(lap int)
	OnWalkingFinished func()
	Meter             metric.Meter
}

func (d Deps) check() error {
	switch {
	case d.UI == nil:
		return fmt.Errorf("%w: UI", ErrMissingCollaborator)
	case d.HUD == nil:
		return fmt.Errorf("%w: HUD", ErrMissingCollaborator)
	case d.Warner == nil:
		return fmt.Errorf("%w: warner", ErrMissingCollaborator)
	case d.Mesh == nil:
		return fmt.Errorf("%w: mesh sink", ErrMissingCollaborator)
	case d.Arrows == nil:
		return fmt.Errorf("%w: arrow sink", ErrMissingCollaborator)
	case d.Pace == nil:
		return fmt.Errorf("%w: pace source", ErrMissingCollaborator)
	}
	return nil
}

// Engine drives one walking session.
type Engine struct {
	conf  Config
	deps  Deps
	path  pp.PathData
	state State

	forwards bool // walking in authored direction
	outside  bool // sprint: between two legs
	lapCount int
	sprints  int

	startGate  *collider.Gate
	finishGate *collider.Gate // nil for loops
	footprint  collider.Footprint
	pool       *arrows.Pool
	mx         *metrics

	watch     stopwatch
	now       time.Time // time of the latest frame
	distance  float64
	progress  float64
	warning   bool
	offTrack  bool
	turnShown bool
	reported  bool // walking finished callback done
}

// New creates an engine for path in state None. The engine takes ownership
// of path.
func New(path pp.PathData, deps Deps, conf Config) (*Engine, error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	if len(path.SplinePoints) < 2 {
		return nil, fmt.Errorf("%w: %d spline samples", ErrInvalidPath, len(path.SplinePoints))
	}
	if !path.IsLoop && path.Finish == nil {
		return nil, fmt.Errorf("%w: sprint without finish line", ErrInvalidPath)
	}
	mx, err := newMetrics(deps.Meter, path.IsLoop)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		conf:     conf,
		deps:     deps,
		path:     path,
		forwards: true,
		lapCount: -1,
		pool:     arrows.NewPool(conf.Arrows, deps.Arrows),
		mx:       mx,
	}
	if err := e.placeGates(); err != nil {
		return nil, err
	}
	e.footprint = collider.NewFootprint(pp.Positions(path.SplinePoints), conf.TrackWidth)
	return e, nil
}

func (e *Engine) placeGates() error {
	var err error
	if e.startGate, err = collider.NewGate(e.path.Start, e.conf.GateWidth, e.conf.GateDepth); err != nil {
		return fmt.Errorf("%w: start line: %w", ErrInvalidPath, err)
	}
	if e.path.Finish != nil {
		if e.finishGate, err = collider.NewGate(*e.path.Finish, e.conf.GateWidth, e.conf.GateDepth); err != nil {
			return fmt.Errorf("%w: finish line: %w", ErrInvalidPath, err)
		}
	}
	return nil
}

// State is the current lifecycle state.
func (e *Engine) State() State { return e.state }

// LapCount is the number of the current lap, starting at 0. It is -1 before
// the walk starts.
func (e *Engine) LapCount() int { return e.lapCount }

// Sprints is the number of completed sprint legs.
func (e *Engine) Sprints() int { return e.sprints }

// Forwards tells if the track is walked in authored direction.
func (e *Engine) Forwards() bool { return e.forwards }

// Outside tells if a sprint walker is between two legs.
func (e *Engine) Outside() bool { return e.outside }

// Progress is the walker's fractional position along the current leg.
func (e *Engine) Progress() float64 { return e.progress }

// Elapsed is the walking time at now, excluding pauses.
func (e *Engine) Elapsed(now time.Time) time.Duration { return e.watch.elapsed(now) }

// Distance is the distance walked while the stopwatch was running.
func (e *Engine) Distance() float64 { return e.distance }

// Path is the engine's path. Sprints reflect the current direction in the
// order of PathPoints.
func (e *Engine) Path() pp.PathData { return e.path }

func (e *Engine) setState(s State) {
	if p, ok := e.state.Panel(); ok {
		e.deps.UI.Hide(p)
	}
	tracer().Infof("walking: %s → %s", e.state, s)
	e.state = s
	if p, ok := s.Panel(); ok {
		e.deps.UI.Show(p)
	}
}

// Start shows the path and sends the walker to the start line.
func (e *Engine) Start() error {
	if e.state != None {
		return fmt.Errorf("%w: start in %s", ErrWrongState, e.state)
	}
	e.startGate.Reset()
	if e.finishGate != nil {
		e.finishGate.Reset()
	}
	e.rebuildRibbon()
	e.setState(GoToStart)
	return nil
}

func (e *Engine) rebuildRibbon() {
	e.deps.Mesh.UpdateMesh(ribbon.BuildFromPoints(e.path.PathPoints, e.conf.RibbonWidth))
}

// restartArrows spawns arrows along the current direction of travel.
func (e *Engine) restartArrows() {
	samples := e.path.SplinePoints
	if !e.forwards {
		samples = pp.ReversedSamples(samples)
	}
	e.pool.Start(pp.Positions(samples), samples, e.path.Length())
}

// Update feeds the walker's position of the current frame.
func (e *Engine) Update(pos pp.Vec3, now time.Time) {
	if e.state != GoToStart && e.state != Walking {
		return
	}
	e.now = now
	if c, ok := e.startGate.Track(pos); ok {
		e.startCrossed(c.Sign(e.startGate.Forward()) > 0, pos, now)
	}
	if e.finishGate != nil {
		if c, ok := e.finishGate.Track(pos); ok {
			e.finishCrossed(c.Sign(e.finishGate.Forward()) > 0, now)
		}
	}
	if e.state == Walking {
		e.walk(pos, now)
	}
}

func (e *Engine) startCrossed(forward bool, pos pp.Vec3, now time.Time) {
	tracer().Debugf("start line crossed, forward=%v", forward)
	switch {
	case e.state == GoToStart:
		if forward {
			e.beginWalk(pos, now)
		}
	case e.path.IsLoop:
		if forward {
			e.lapCount++
			e.mx.lap()
			tracer().Infof("lap %d", e.lapCount+1)
			e.announceLap()
			e.restartArrows()
		}
	case !e.outside && !e.forwards && !forward:
		e.endLeg(now)
	case e.outside && e.forwards && forward:
		e.resume(now)
	}
}

func (e *Engine) finishCrossed(forward bool, now time.Time) {
	tracer().Debugf("finish line crossed, forward=%v", forward)
	if e.state != Walking {
		return
	}
	switch {
	case !e.outside && e.forwards && forward:
		e.endLeg(now)
	case e.outside && !e.forwards && !forward:
		e.resume(now)
	}
}

func (e *Engine) announceLap() {
	if e.deps.OnIncrementLoop != nil {
		e.deps.OnIncrementLoop(e.lapCount + 1)
	}
}

func (e *Engine) beginWalk(pos pp.Vec3, now time.Time) {
	e.setState(Walking)
	e.lapCount = 0
	e.distance = 0
	e.deps.Pace.Start(pos, now)
	e.watch.start(now)
	e.restartArrows()
	if e.path.IsLoop {
		e.announceLap()
	} else {
		e.deps.UI.Show(pp.PanelTurnArrows)
		e.turnShown = true
	}
}

// endLeg turns a sprint around after the walker left the track.
func (e *Engine) endLeg(now time.Time) {
	e.outside = true
	e.sprints++
	e.mx.sprint()
	e.watch.pause(now)
	e.forwards = !e.forwards
	e.path.PathPoints = pp.Reversed(e.path.PathPoints)
	e.rebuildRibbon()
	e.restartArrows()
	tracer().Infof("sprint leg %d done after %v, now forwards=%v", e.sprints, e.watch.elapsed(now), e.forwards)
}

func (e *Engine) resume(now time.Time) {
	e.outside = false
	e.watch.resume(now)
	tracer().Debugf("sprint resumed")
}

func (e *Engine) walk(pos pp.Vec3, now time.Time) {
	sc := spline.WorldToSplineSpace(pos, e.path.SplinePoints)
	e.progress = sc.T
	if !e.forwards {
		e.progress = 1 - sc.T
	}
	e.deps.HUD.SetProgress(e.progress)
	sample := e.deps.Pace.GetPace(pos, now)
	if sample.Dt > 0 {
		e.mx.recordPace(sample.Pace)
		if !e.outside {
			e.distance += sample.Dist
		}
	}
	elapsed := e.watch.elapsed(now)
	e.deps.HUD.SetTime(elapsed)
	if elapsed > 0 {
		e.deps.HUD.SetAveragePace(e.distance / elapsed.Seconds())
	}
	e.setWarning(pace.MPH(sample.Pace) > e.conf.SpeedWarningMPH)
	e.pool.Update(pos)
	off := !e.footprint.Empty() && !e.footprint.Contains(pos)
	if off != e.offTrack {
		e.offTrack = off
		if off {
			e.deps.UI.Show(pp.PanelOffTrack)
		} else {
			e.deps.UI.Hide(pp.PanelOffTrack)
		}
	}
}

func (e *Engine) setWarning(on bool) {
	if on == e.warning {
		return
	}
	e.warning = on
	if on {
		e.mx.warning()
	}
	e.deps.Warner.SetWarning(on)
}

// Warning tells if the speed warning is raised.
func (e *Engine) Warning() bool { return e.warning }

// SwapStartFinish exchanges start and finish line of a sprint, before the
// walk has started. Both lines are turned around, so that their forward
// still points along the path.
func (e *Engine) SwapStartFinish() error {
	if e.path.IsLoop {
		return ErrNotSprint
	}
	if e.state != GoToStart {
		return fmt.Errorf("%w: swap in %s", ErrWrongState, e.state)
	}
	start, finish := e.path.Finish.Turned(), e.path.Start.Turned()
	e.path.Start, e.path.Finish = start, &finish
	e.path.Reverse()
	if err := e.placeGates(); err != nil {
		return err
	}
	e.rebuildRibbon()
	tracer().Infof("start and finish swapped")
	return nil
}

// Stop ends the session. Arrows and ribbon are removed, and the walking
// finished callback is called, once.
func (e *Engine) Stop() {
	if e.state == Finished {
		return
	}
	e.watch.pause(e.now)
	e.pool.Stop()
	e.deps.Mesh.UpdateMesh(ribbon.Mesh{})
	e.setWarning(false)
	if e.offTrack {
		e.deps.UI.Hide(pp.PanelOffTrack)
		e.offTrack = false
	}
	if e.turnShown {
		e.deps.UI.Hide(pp.PanelTurnArrows)
		e.turnShown = false
	}
	e.setState(Finished)
	if !e.reported {
		e.reported = true
		if e.deps.OnWalkingFinished != nil {
			e.deps.OnWalkingFinished()
		}
	}
}
