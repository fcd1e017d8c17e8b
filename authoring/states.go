package authoring

import (
	"math"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/spline"
)

// state is implemented by each authoring phase.
type state interface {
	phase() Phase
	start()
	stop()
	update(f Frame)
}

// --- idle ------------------------------------------------------------------

type idle struct{}

func (idle) phase() Phase   { return Idle }
func (idle) start()         {}
func (idle) stop()          {}
func (idle) update(f Frame) {}

// --- placing a line ----------------------------------------------------------

// placingLine places the start or the finish line with the help of the
// calibrator.
type placingLine struct {
	pm     *PathMaker
	which  Phase // PlacingStart or PlacingFinish
	active bool
}

func newPlacingLine(pm *PathMaker, which Phase) *placingLine {
	return &placingLine{pm: pm, which: which}
}

func (s *placingLine) phase() Phase { return s.which }

func (s *placingLine) panel() pp.Panel {
	if s.which == PlacingStart {
		return pp.PanelPlaceStart
	}
	return pp.PanelPlaceFinish
}

func (s *placingLine) start() {
	s.active = true
	s.pm.deps.UI.Show(s.panel())
	s.pm.deps.Calibrator.StartCalibration(s.calibrating, s.found)
}

func (s *placingLine) stop() {
	if !s.active {
		return
	}
	s.active = false
	s.pm.candidate = nil
	s.pm.deps.Calibrator.StopCalibration()
	s.pm.deps.UI.Hide(s.panel())
}

func (s *placingLine) update(f Frame) {}

func (s *placingLine) calibrating(pose pp.Transform) {
	if !s.active { // late callback of a stopped calibration
		return
	}
	c := s.pm.correct(pose)
	s.pm.candidate = &c
}

func (s *placingLine) found(pose pp.Transform) {
	if !s.active {
		return
	}
	line := s.pm.correct(pose)
	tracer().Infof("%s: line placed at %v", s.which, pp.Ground(line.Position))
	if s.which == PlacingStart {
		s.pm.start = line
		s.pm.transition(newBuildingPath(s.pm))
		return
	}
	s.pm.finish = &line
	if err := s.pm.complete(false); err != nil {
		tracer().Errorf("cannot complete sprint: %v", err)
		s.pm.finish = nil
		s.pm.transition(newBuildingPath(s.pm))
	}
}

// --- building the path -------------------------------------------------------

// buildingPath follows the user while they walk the path.
type buildingPath struct {
	pm          *PathMaker
	paceStarted bool
	closable    bool // loop hint shown
	slow        bool // slow-down hint shown
}

func newBuildingPath(pm *PathMaker) *buildingPath {
	return &buildingPath{pm: pm}
}

func (s *buildingPath) phase() Phase { return BuildingPath }

func (s *buildingPath) start() {
	s.pm.trace = nil
	s.pm.deps.UI.Show(pp.PanelBuildPath)
}

func (s *buildingPath) stop() {
	ui := s.pm.deps.UI
	ui.Hide(pp.PanelBuildPath)
	if s.closable {
		ui.Hide(pp.PanelLoopAvailable)
		s.closable = false
	}
	if s.slow {
		ui.Hide(pp.PanelSlowDown)
		s.slow = false
	}
	s.pm.feedback = nil
}

func (s *buildingPath) update(f Frame) {
	pm, conf := s.pm, s.pm.conf
	ground := f.Ground
	if n := len(pm.trace); n == 0 || pp.HorizontalDistance(pm.trace[n-1], ground) >= conf.TraceSpacing {
		pm.trace = append(pm.trace, ground)
	}
	pm.feedback = s.preview(f)
	// committed path points
	last := pm.start.Position
	if n := len(pm.points); n > 0 {
		last = pm.points[n-1]
	}
	ahead := pp.CrossingSign(lineForward(pm.start), pm.start.Position, ground) > 0
	if pp.HorizontalDistance(last, ground) > conf.LargeMove && ahead &&
		pp.HorizontalDistance(pm.start.Position, ground) > conf.MinStartDistance {
		pm.commit(ground)
	}
	enough := len(pm.points) >= conf.MinHintPoints
	// loop hint
	start, look := pm.start.Position, f.Look()
	near := pp.HorizontalDistance(look, start) < conf.LoopHorizontal &&
		math.Abs(look.Y()-start.Y()) < conf.LoopVertical
	s.closable = s.toggle(s.closable, near && enough, pp.PanelLoopAvailable)
	// slow-down hint
	if !s.paceStarted {
		pm.deps.Pace.Start(ground, f.Time)
		s.paceStarted = true
		return
	}
	sample := pm.deps.Pace.GetPace(ground, f.Time)
	s.slow = s.toggle(s.slow, sample.Pace < conf.SlowPace && enough, pp.PanelSlowDown)
}

func (s *buildingPath) toggle(shown, show bool, panel pp.Panel) bool {
	if show && !shown {
		s.pm.deps.UI.Show(panel)
	} else if !show && shown {
		s.pm.deps.UI.Hide(panel)
	}
	return show
}

// preview blends a paint trail near the user's feet with a curve towards
// the look target. The further away the user looks, the more the look
// curve dominates.
func (s *buildingPath) preview(f Frame) []pp.Vec3 {
	conf := s.pm.conf
	trace := s.pm.trace
	if len(trace) > conf.PaintTrail {
		trace = trace[len(trace)-conf.PaintTrail:]
	}
	paint := spline.ResampleCurve(trace, conf.FeedbackSamples)
	target := f.Look()
	d := pp.HorizontalDistance(f.Ground, target)
	toLook := target.Sub(f.Ground)
	toLook[1] = 0
	lookFwd, ok := pp.Normalized(toLook)
	if !ok {
		return paint
	}
	camFwd, ok := pp.FlatForward(f.Camera.Rotation)
	if !ok {
		camFwd = lookFwd
	}
	look := spline.ResampleCurve(spline.DrawCurve(f.Ground, camFwd, target, lookFwd, 0), conf.FeedbackSamples)
	if len(paint) != len(look) {
		return look
	}
	w := pp.EaseOut(d / conf.LookBlendDistance)
	blend := make([]pp.Vec3, len(look))
	for i := range look {
		blend[i] = pp.Lerp(paint[i], look[i], w)
	}
	return blend
}
