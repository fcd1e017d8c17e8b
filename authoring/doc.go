/*
Package authoring drives the interactive workflow which turns a walked trace
into a path.

A PathMaker owns exactly one active state. States are

	idle → placingStart → buildingPath → placingFinish → idle   (sprint)
	                                   ↘ idle                   (loop)

Transitions stop the old state, then construct and start the new one.
PathMaker is driven from a single frame loop: Update is called once per
frame, UI actions (Begin, Finish, CloseLoop, Reset) and calibration callbacks
arrive between frames. Nothing here is safe for concurrent use.

When a path is complete, the pathMade callback receives its PathData, once
per authored path.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package authoring

import (
	"errors"
	"time"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/pace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'authoring'
func tracer() tracing.Trace {
	return tracing.Select("authoring")
}

var (
	// ErrMissingCollaborator is returned if a required collaborator is nil.
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrWrongState is returned for UI actions not valid in the current state.
	ErrWrongState = errors.New("action not valid in current authoring state")
	// ErrNotClosable is returned when closing a loop far from the start line.
	ErrNotClosable = errors.New("path cannot be closed to a loop here")
	// ErrTooFewPathPoints is returned when finishing a path that is too short.
	ErrTooFewPathPoints = errors.New("too few path points")
)

// Calibrator locates a stable ground pose. StartCalibration reports
// tentative poses through onCalibrating, and calls onFound once when the pose
// is stable. Poses are delivered upside down, rotated 180 degrees around
// their local x axis.
type Calibrator interface {
	StartCalibration(onCalibrating, onFound func(pose pp.Transform))
	StopCalibration()
}

// PaceSource measures the user's walking pace. *pace.Calculator is one.
type PaceSource interface {
	Start(pos pp.Vec3, now time.Time)
	GetPace(pos pp.Vec3, now time.Time) pace.Sample
}

// Frame is the input of one frame.
type Frame struct {
	Camera     pp.Transform // head pose
	Ground     pp.Vec3      // floor position below the camera
	LookTarget pp.Vec3      // floor position the user looks at; zero to derive it from Camera
	Time       time.Time
}

// Look is the floor position the user looks at: LookTarget if the frame
// carries one, else the point where the camera's view ray meets the floor.
func (f Frame) Look() pp.Vec3 {
	if f.LookTarget != (pp.Vec3{}) {
		return f.LookTarget
	}
	return FloorTarget(f.Camera, f.Ground)
}

// FloorTarget intersects the view ray of camera with the horizontal floor
// through ground. A ray parallel to the floor or meeting it behind the camera
// yields ground.
func FloorTarget(camera pp.Transform, ground pp.Vec3) pp.Vec3 {
	fwd := pp.Forward(camera.Rotation)
	hit, ok := pp.IntersectPlaneLine(ground, pp.WorldUp, camera.Position, fwd)
	if !ok || hit.Sub(camera.Position).Dot(fwd) <= 0 {
		return ground
	}
	return hit
}

// Phase names the active state of a PathMaker.
type Phase int

// Phases of path authoring.
const (
	Idle Phase = iota
	PlacingStart
	BuildingPath
	PlacingFinish
)

func (ph Phase) String() string {
	switch ph {
	case Idle:
		return "idle"
	case PlacingStart:
		return "placing-start"
	case BuildingPath:
		return "building-path"
	case PlacingFinish:
		return "placing-finish"
	}
	return "unknown"
}
