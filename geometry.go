package pathpioneer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space position or direction.
type Vec3 = mgl64.Vec3

// Quat is a world-space rotation.
type Quat = mgl64.Quat

// World axes.
var (
	WorldUp      = Vec3{0, 1, 0}
	WorldForward = Vec3{0, 0, 1}
	WorldRight   = Vec3{1, 0, 0}
)

// Forward returns the local +Z axis of rotation q.
func Forward(q Quat) Vec3 {
	return q.Rotate(WorldForward)
}

// Up returns the local +Y axis of rotation q.
func Up(q Quat) Vec3 {
	return q.Rotate(WorldUp)
}

// Right returns the local +X axis of rotation q.
func Right(q Quat) Vec3 {
	return q.Rotate(WorldRight)
}

// Normalized returns v scaled to unit length, and false if v has (almost) no length.
func Normalized(v Vec3) (Vec3, bool) {
	l := v.Len()
	if Is0(l) {
		return Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// LookRotation builds the rotation whose forward axis points along forward and
// whose up axis is as close to up as possible. A zero forward, or a forward
// parallel to up, yields the identity.
func LookRotation(forward, up Vec3) Quat {
	f, ok := Normalized(forward)
	if !ok {
		return mgl64.QuatIdent()
	}
	r, ok := Normalized(up.Cross(f))
	if !ok {
		return mgl64.QuatIdent()
	}
	u := f.Cross(r)
	m := mgl64.Mat3FromCols(r, u, f)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// CurveRotation derives the rotation of sample i of an ordered point list from
// the forward difference to the next point. The last point uses the backward
// difference. The result is a look rotation against world up.
func CurveRotation(points []Vec3, i int) Quat {
	n := len(points)
	if n < 2 || i < 0 || i >= n {
		return mgl64.QuatIdent()
	}
	var fwd Vec3
	if i < n-1 {
		fwd = points[i+1].Sub(points[i])
	} else {
		fwd = points[i].Sub(points[i-1])
	}
	return LookRotation(fwd, WorldUp)
}

// IntersectPlaneLine intersects the line through linePoint along lineDir with
// the plane through planePoint with normal planeNormal. It returns false if
// the line runs parallel to the plane.
func IntersectPlaneLine(planePoint, planeNormal, linePoint, lineDir Vec3) (Vec3, bool) {
	denom := planeNormal.Dot(lineDir)
	if Is0(denom) {
		return Vec3{}, false
	}
	t := planeNormal.Dot(planePoint.Sub(linePoint)) / denom
	return linePoint.Add(lineDir.Mul(t)), true
}

// FlatForward is the forward axis of q projected onto the ground plane.
// It returns false if q looks straight up or down.
func FlatForward(q Quat) (Vec3, bool) {
	f := Forward(q)
	return Normalized(Vec3{f.X(), 0, f.Z()})
}

// Heading is the angle of a direction on the ground plane, measured from
// world +Z towards world +X.
func Heading(dir Vec3) float64 {
	return math.Atan2(dir.X(), dir.Z())
}

// YawAround rotates q by angle radians around world up.
func YawAround(q Quat, angle float64) Quat {
	return mgl64.QuatRotate(angle, WorldUp).Mul(q).Normalize()
}

// CrossingSign tells the travel direction of a crossing of a line facing
// forward: positive if the walker moved from enter to exit along forward.
func CrossingSign(forward, enter, exit Vec3) float64 {
	return forward.Dot(exit.Sub(enter))
}

// HorizontalDistance is the distance of a and b on the ground plane.
func HorizontalDistance(a, b Vec3) float64 {
	return (Ground(b) - Ground(a)).Len()
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// EaseOut is a quadratic ease-out on [0,1].
func EaseOut(t float64) float64 {
	t = Clamp01(t)
	return 1 - (1-t)*(1-t)
}

// Reversed returns a reversed copy of points.
func Reversed(points []Vec3) []Vec3 {
	r := make([]Vec3, len(points))
	for i, p := range points {
		r[len(points)-1-i] = p
	}
	return r
}
