/*
Package walking runs a session of walking an authored path.

An Engine is created from a PathData and started. The walker first goes to
the start line. Crossing it forwards starts the walk: the stopwatch, the pace
measurement and the guidance arrows. Crossings of the start and finish lines
are told apart by direction, see pathpioneer.CrossingSign.

Loops have no end. Every further forward crossing of the start line begins
a new lap. Sprints are walked in legs, alternating direction: crossing the
far line ends a leg, turns the track around and pauses the stopwatch, and
crossing that line again in the new direction resumes it.

The session ends with Stop.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package walking

import (
	"errors"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'walking'
func tracer() tracing.Trace {
	return tracing.Select("walking")
}

var (
	// ErrMissingCollaborator is returned if a required collaborator is nil.
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrInvalidPath is returned for paths which cannot be walked.
	ErrInvalidPath = errors.New("invalid path")
	// ErrWrongState is returned for operations not valid in the current state.
	ErrWrongState = errors.New("operation not valid in current walking state")
	// ErrNotSprint is returned for sprint-only operations on loops.
	ErrNotSprint = errors.New("path is not a sprint")
)

// State is the lifecycle state of a walking session.
type State int

// States of a walking session.
const (
	None State = iota
	GoToStart
	Walking
	Finished
)

func (s State) String() string {
	switch s {
	case None:
		return "none"
	case GoToStart:
		return "go-to-start"
	case Walking:
		return "walking"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Panel is the UI panel shown in state s. None has no panel.
func (s State) Panel() (pp.Panel, bool) {
	switch s {
	case GoToStart:
		return pp.PanelGoToStart, true
	case Walking:
		return pp.PanelWalking, true
	case Finished:
		return pp.PanelFinished, true
	}
	return "", false
}
