package authoring

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/ribbon"
	"github.com/npillmayer/pathpioneer/spline"
)

// Deps are the collaborators of a PathMaker. All of them are required.
type Deps struct {
	Calibrator Calibrator
	UI         pp.UI
	Mesh       ribbon.Sink
	Pace       PaceSource
}

func (d Deps) check() error {
	switch {
	case d.Calibrator == nil:
		return fmt.Errorf("%w: calibrator", ErrMissingCollaborator)
	case d.UI == nil:
		return fmt.Errorf("%w: UI", ErrMissingCollaborator)
	case d.Mesh == nil:
		return fmt.Errorf("%w: mesh sink", ErrMissingCollaborator)
	case d.Pace == nil:
		return fmt.Errorf("%w: pace source", ErrMissingCollaborator)
	}
	return nil
}

// PathMaker is the owning context of path authoring.
type PathMaker struct {
	conf     Config
	deps     Deps
	pathMade func(pp.PathData)
	current  state

	frame    Frame // latest frame
	hasFrame bool

	start     pp.Transform
	finish    *pp.Transform
	candidate *pp.Transform // tentative pose while calibrating
	trace     []pp.Vec3     // dense trace of ground positions
	points    []pp.Vec3     // committed path points
	feedback  []pp.Vec3
	emitted   bool
}

// New creates a path maker in state idle. pathMade receives every completed
// path.
func New(conf Config, deps Deps, pathMade func(pp.PathData)) (*PathMaker, error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	if pathMade == nil {
		return nil, fmt.Errorf("%w: pathMade callback", ErrMissingCollaborator)
	}
	pm := &PathMaker{conf: conf, deps: deps, pathMade: pathMade}
	pm.current = idle{}
	return pm, nil
}

// Phase is the active state.
func (pm *PathMaker) Phase() Phase {
	return pm.current.phase()
}

func (pm *PathMaker) transition(next state) {
	tracer().Infof("authoring: %s → %s", pm.current.phase(), next.phase())
	pm.current.stop()
	pm.current = next
	next.start()
}

// Begin starts authoring a new path by placing the start line.
func (pm *PathMaker) Begin() error {
	if pm.Phase() != Idle {
		return fmt.Errorf("%w: begin in %s", ErrWrongState, pm.Phase())
	}
	pm.clear()
	pm.transition(newPlacingLine(pm, PlacingStart))
	return nil
}

// Update feeds the input of one frame to the active state.
func (pm *PathMaker) Update(f Frame) {
	pm.frame, pm.hasFrame = f, true
	pm.current.update(f)
}

// Finish ends the path as a sprint. The finish line is placed next.
func (pm *PathMaker) Finish() error {
	if _, ok := pm.current.(*buildingPath); !ok {
		return fmt.Errorf("%w: finish in %s", ErrWrongState, pm.Phase())
	}
	if len(pm.points) < pm.conf.MinPathPoints {
		return fmt.Errorf("%w: %d of %d", ErrTooFewPathPoints, len(pm.points), pm.conf.MinPathPoints)
	}
	pm.transition(newPlacingLine(pm, PlacingFinish))
	return nil
}

// CloseLoop ends the path as a loop back to the start line. It is possible
// while the user looks at the start line.
func (pm *PathMaker) CloseLoop() error {
	b, ok := pm.current.(*buildingPath)
	if !ok {
		return fmt.Errorf("%w: close loop in %s", ErrWrongState, pm.Phase())
	}
	if !b.closable {
		return ErrNotClosable
	}
	if len(pm.points) < pm.conf.MinPathPoints {
		return fmt.Errorf("%w: %d of %d", ErrTooFewPathPoints, len(pm.points), pm.conf.MinPathPoints)
	}
	return pm.complete(true)
}

// Reset discards all authoring state and returns to idle.
func (pm *PathMaker) Reset() {
	pm.transition(idle{})
	pm.clear()
	pm.deps.Mesh.UpdateMesh(ribbon.Mesh{})
}

func (pm *PathMaker) clear() {
	pm.start = pp.Transform{}
	pm.finish, pm.candidate = nil, nil
	pm.trace, pm.points, pm.feedback = nil, nil, nil
	pm.emitted = false
}

// PathPoints returns a copy of the committed path points.
func (pm *PathMaker) PathPoints() []pp.Vec3 {
	return append([]pp.Vec3(nil), pm.points...)
}

// Feedback is the current preview gesture of the path ahead.
func (pm *PathMaker) Feedback() []pp.Vec3 {
	return pm.feedback
}

// Candidate is the tentative line pose while calibrating.
func (pm *PathMaker) Candidate() (pp.Transform, bool) {
	if pm.candidate == nil {
		return pp.Transform{}, false
	}
	return *pm.candidate, true
}

// StartLine is the placed start line. It is valid from state buildingPath on.
func (pm *PathMaker) StartLine() pp.Transform {
	return pm.start
}

// LoopClosable tells if CloseLoop would currently succeed with respect to
// the user's position.
func (pm *PathMaker) LoopClosable() bool {
	b, ok := pm.current.(*buildingPath)
	return ok && b.closable
}

// Correct turns a pose delivered by the calibrator into a line transform:
// the pose is rotated 180 degrees around its local x axis, its forward is
// flattened onto the ground, and it is moved offset towards camera.
func Correct(pose pp.Transform, camera pp.Vec3, offset float64) pp.Transform {
	q := pose.Rotation.Mul(mgl64.QuatRotate(math.Pi, pp.WorldRight)).Normalize()
	fwd, ok := pp.FlatForward(q)
	if !ok {
		fwd = pp.WorldForward
	}
	line := pp.NewTransform(pose.Position, pp.LookRotation(fwd, pp.WorldUp))
	toCamera := camera.Sub(pose.Position)
	toCamera[1] = 0
	if dir, ok := pp.Normalized(toCamera); ok {
		line.Position = line.Position.Add(dir.Mul(offset))
	}
	return line
}

func (pm *PathMaker) correct(pose pp.Transform) pp.Transform {
	if !pm.hasFrame {
		return Correct(pose, pose.Position, 0)
	}
	return Correct(pose, pm.frame.Camera.Position, pm.conf.CalibrationOffset)
}

// commit appends a path point and rebuilds the ribbon.
func (pm *PathMaker) commit(p pp.Vec3) {
	pm.points = append(pm.points, p)
	strip := append([]pp.Vec3{pm.start.Position}, pm.points...)
	pm.deps.Mesh.UpdateMesh(ribbon.BuildFromPoints(strip, pm.conf.RibbonWidth))
	tracer().Debugf("path point #%d at %v", len(pm.points), pp.Ground(p))
}

// complete builds the final path, returns to idle and hands out the path.
func (pm *PathMaker) complete(loop bool) error {
	path, err := pm.buildPath(loop)
	if err != nil {
		return err
	}
	pm.transition(idle{})
	if !pm.emitted {
		pm.emitted = true
		tracer().Infof("path made: loop=%v, %d samples, %.1f cm", path.IsLoop, len(path.SplinePoints), path.Length())
		pm.pathMade(path)
	}
	return nil
}

// buildPath joins the committed points smoothly to the start line and to
// the finish line (or back to the start line for loops), resamples the
// result and generates the spline.
func (pm *PathMaker) buildPath(loop bool) (pp.PathData, error) {
	pts := pm.points
	n := len(pts)
	if n == 0 {
		return pp.PathData{}, fmt.Errorf("%w: no path points", ErrTooFewPathPoints)
	}
	end := pm.start
	if !loop {
		if pm.finish == nil {
			return pp.PathData{}, fmt.Errorf("%w: no finish line", ErrWrongState)
		}
		end = *pm.finish
	}
	raw := spline.DrawCurve(pm.start.Position, lineForward(pm.start), pts[0], pm.direction(0), 0)
	if n > 2 {
		raw = append(raw, pts[1:n-1]...)
	}
	raw = append(raw, spline.DrawCurve(pts[n-1], pm.direction(n-1), end.Position, lineForward(end), 0)...)
	ctrl := spline.ResampleBySpacing(dedup(raw), pm.conf.ResampleSpacing, 2)
	samples, err := spline.GenerateSpline(ctrl, pm.conf.SplineResolution)
	if err != nil {
		return pp.PathData{}, err
	}
	path := pp.PathData{
		IsLoop:       loop,
		Start:        pm.start,
		SplinePoints: samples,
		PathPoints:   ctrl,
	}
	if !loop {
		f := end
		path.Finish = &f
	}
	return path, nil
}

// direction of travel at committed point i
func (pm *PathMaker) direction(i int) pp.Vec3 {
	pts := pm.points
	var d pp.Vec3
	switch {
	case i < len(pts)-1:
		d = pts[i+1].Sub(pts[i])
	case i > 0:
		d = pts[i].Sub(pts[i-1])
	default:
		d = pts[i].Sub(pm.start.Position)
	}
	if n, ok := pp.Normalized(d); ok {
		return n
	}
	return lineForward(pm.start)
}

func lineForward(line pp.Transform) pp.Vec3 {
	if f, ok := pp.FlatForward(line.Rotation); ok {
		return f
	}
	return pp.WorldForward
}

// dedup drops consecutive duplicates.
func dedup(points []pp.Vec3) []pp.Vec3 {
	out := make([]pp.Vec3, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && pp.Is0(out[len(out)-1].Sub(p).Len()) {
			continue
		}
		out = append(out, p)
	}
	return out
}
