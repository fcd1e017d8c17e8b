package pathpioneer

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the world pose of a placed object, e.g. a start or finish line.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// NewTransform creates a transform at position p with rotation q.
func NewTransform(p Vec3, q Quat) Transform {
	return Transform{Position: p, Rotation: q}
}

// Forward is the forward axis of the transform.
func (t Transform) Forward() Vec3 {
	return Forward(t.Rotation)
}

// Turned returns the transform yawed by 180 degrees around its position.
func (t Transform) Turned() Transform {
	return Transform{Position: t.Position, Rotation: YawAround(t.Rotation, mgl64.DegToRad(180))}
}

// SplinePoint is one sample of a generated spline, the unit of navigation
// parameterization.
type SplinePoint struct {
	Position Vec3
	Rotation Quat
}

// Positions extracts the positions of a list of spline samples.
func Positions(points []SplinePoint) []Vec3 {
	pos := make([]Vec3, len(points))
	for i, sp := range points {
		pos[i] = sp.Position
	}
	return pos
}

// ArcLength is the cumulative Euclidean distance along points.
func ArcLength(points []Vec3) float64 {
	var l float64
	for i := 1; i < len(points); i++ {
		l += points[i].Sub(points[i-1]).Len()
	}
	return l
}

// PathData is the finished artifact of path authoring. It is created once,
// when authoring completes, and owned by a walking session thereafter.
//
// For a sprint, Start and Finish sit at the two ends of SplinePoints. For a
// loop, Finish is nil and the spline is closed by locality only: the first
// and last samples are near each other but the sequence does not wrap.
type PathData struct {
	IsLoop       bool
	Start        Transform
	Finish       *Transform    // nil for loops
	SplinePoints []SplinePoint // at least 2
	PathPoints   []Vec3        // committed control points the ribbon is built from
	length       float64
}

// Length returns the total arc length of the spline. It is derived once and cached.
func (pd *PathData) Length() float64 {
	if pd.length == 0 && len(pd.SplinePoints) > 1 {
		pd.length = ArcLength(Positions(pd.SplinePoints))
	}
	return pd.length
}

// StartPosition is the position of the start line.
func (pd *PathData) StartPosition() Vec3 {
	return pd.Start.Position
}

// FinishPosition is the position of the finish line. Loops finish at their start.
func (pd *PathData) FinishPosition() Vec3 {
	if pd.Finish == nil {
		return pd.Start.Position
	}
	return pd.Finish.Position
}

// Reverse reverses the spline samples and the committed path points in place.
// Sample rotations are turned to face the new direction of travel.
func (pd *PathData) Reverse() {
	pd.SplinePoints = ReversedSamples(pd.SplinePoints)
	pd.PathPoints = Reversed(pd.PathPoints)
	tracer().Debugf("reversed path of %d samples", len(pd.SplinePoints))
}

// ReversedSamples returns the samples in reverse order, each turned to face
// the new direction of travel.
func ReversedSamples(samples []SplinePoint) []SplinePoint {
	n := len(samples)
	rev := make([]SplinePoint, n)
	for i, sp := range samples {
		rev[n-1-i] = SplinePoint{Position: sp.Position, Rotation: YawAround(sp.Rotation, mgl64.DegToRad(180))}
	}
	return rev
}

// Panel names an on-screen UI panel or hint.
type Panel string

// Panels shown by the authoring and walking state machines.
const (
	PanelPlaceStart    Panel = "place-start"
	PanelPlaceFinish   Panel = "place-finish"
	PanelBuildPath     Panel = "build-path"
	PanelLoopAvailable Panel = "loop-available"
	PanelSlowDown      Panel = "slow-down"
	PanelGoToStart     Panel = "go-to-start"
	PanelWalking       Panel = "walking"
	PanelTurnArrows    Panel = "turn-arrows"
	PanelOffTrack      Panel = "off-track"
	PanelFinished      Panel = "finished"
)

// UI is the on-screen surface. Calls are fire-and-forget; no state is read back.
type UI interface {
	Show(p Panel)
	Hide(p Panel)
}
