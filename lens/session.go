/*
Package lens wires path authoring and path walking into one session.

A Session owns the services it is constructed with; nothing is global. It
starts in authoring. When a path is made, a walking engine is created for
it and started. Reset discards both and returns to idle authoring.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package lens

import (
	"fmt"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/arrows"
	"github.com/npillmayer/pathpioneer/authoring"
	"github.com/npillmayer/pathpioneer/ribbon"
	"github.com/npillmayer/pathpioneer/walking"
	"github.com/npillmayer/schuko/tracing"
	"go.opentelemetry.io/otel/metric"
)

// tracer writes to trace with key 'lens'
func tracer() tracing.Trace {
	return tracing.Select("lens")
}

// Config combines the settings of authoring and walking.
type Config struct {
	Authoring authoring.Config `mapstructure:"authoring"`
	Walking   walking.Config   `mapstructure:"walking"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Authoring: authoring.DefaultConfig(),
		Walking:   walking.DefaultConfig(),
	}
}

// Services are the collaborators of a session. Meter is optional.
type Services struct {
	UI         pp.UI
	Mesh       ribbon.Sink
	Calibrator authoring.Calibrator
	Pace       authoring.PaceSource
	Arrows     arrows.Sink
	HUD        walking.HUD
	Warner     walking.Warner
	Meter      metric.Meter
}

// Session is one run of the path experience.
type Session struct {
	conf   Config
	svc    Services
	maker  *authoring.PathMaker
	engine *walking.Engine
	path   *pp.PathData
	err    error

	// OnPathMade is called with every path made, before walking starts.
	OnPathMade func(path pp.PathData)
	// OnIncrementLoop is called when a loop lap begins.
	OnIncrementLoop func(lap int)
	// OnWalkingFinished is called when a walking session ends.
	OnWalkingFinished func()
}

// New creates a session in idle authoring.
func New(conf Config, svc Services) (*Session, error) {
	s := &Session{conf: conf, svc: svc}
	deps := authoring.Deps{
		Calibrator: svc.Calibrator,
		UI:         svc.UI,
		Mesh:       svc.Mesh,
		Pace:       svc.Pace,
	}
	maker, err := authoring.New(conf.Authoring, deps, s.pathMade)
	if err != nil {
		return nil, fmt.Errorf("creating path maker: %w", err)
	}
	s.maker = maker
	return s, nil
}

// Authoring is the session's path maker.
func (s *Session) Authoring() *authoring.PathMaker {
	return s.maker
}

// Walking is the walking engine of the current path, or nil.
func (s *Session) Walking() *walking.Engine {
	return s.engine
}

// Path returns the current path, if one has been made.
func (s *Session) Path() (pp.PathData, bool) {
	if s.path == nil {
		return pp.PathData{}, false
	}
	return *s.path, true
}

// Err is the error of the latest attempt to walk a path.
func (s *Session) Err() error {
	return s.err
}

// Begin starts authoring a new path. A running walk is stopped first.
func (s *Session) Begin() error {
	s.stopWalking()
	return s.maker.Begin()
}

// Finish ends the path being authored as a sprint.
func (s *Session) Finish() error {
	return s.maker.Finish()
}

// CloseLoop ends the path being authored as a loop.
func (s *Session) CloseLoop() error {
	return s.maker.CloseLoop()
}

// Update feeds one frame to the active phase: to the walking engine if
// a path is being walked, to authoring otherwise.
func (s *Session) Update(f authoring.Frame) {
	if s.engine != nil {
		s.engine.Update(f.Ground, f.Time)
		return
	}
	s.maker.Update(f)
}

// Reset discards the path and all authoring state.
func (s *Session) Reset() {
	s.stopWalking()
	s.maker.Reset()
	s.path, s.err = nil, nil
	tracer().Infof("session reset")
}

func (s *Session) stopWalking() {
	if s.engine != nil {
		s.engine.Stop()
		s.engine = nil
	}
}

func (s *Session) pathMade(path pp.PathData) {
	s.path = &path
	if s.OnPathMade != nil {
		s.OnPathMade(path)
	}
	deps := walking.Deps{
		UI:                s.svc.UI,
		HUD:               s.svc.HUD,
		Warner:            s.svc.Warner,
		Mesh:              s.svc.Mesh,
		Arrows:            s.svc.Arrows,
		Pace:              s.svc.Pace,
		Meter:             s.svc.Meter,
		OnIncrementLoop:   s.incrementLoop,
		OnWalkingFinished: s.walkingFinished,
	}
	engine, err := walking.New(path, deps, s.conf.Walking)
	if err == nil {
		err = engine.Start()
	}
	if err != nil {
		tracer().Errorf("cannot walk path: %v", err)
		s.err = err
		return
	}
	s.engine, s.err = engine, nil
}

func (s *Session) incrementLoop(lap int) {
	if s.OnIncrementLoop != nil {
		s.OnIncrementLoop(lap)
	}
}

func (s *Session) walkingFinished() {
	tracer().Infof("walking finished")
	if s.OnWalkingFinished != nil {
		s.OnWalkingFinished()
	}
}
