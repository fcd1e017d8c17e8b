package main

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/rs/zerolog"
)

// zeroTrace routes a tracing key to a zerolog logger.
type zeroTrace struct {
	log   zerolog.Logger
	level tracing.TraceLevel
}

func (t *zeroTrace) Errorf(s string, args ...interface{}) {
	t.log.Error().Msgf(s, args...)
}

func (t *zeroTrace) Infof(s string, args ...interface{}) {
	if t.level >= tracing.LevelInfo {
		t.log.Info().Msgf(s, args...)
	}
}

func (t *zeroTrace) Debugf(s string, args ...interface{}) {
	if t.level >= tracing.LevelDebug {
		t.log.Debug().Msgf(s, args...)
	}
}

func (t *zeroTrace) P(key string, val interface{}) tracing.Trace {
	return &zeroTrace{log: t.log.With().Interface(key, val).Logger(), level: t.level}
}

func (t *zeroTrace) SetTraceLevel(l tracing.TraceLevel) { t.level = l }

func (t *zeroTrace) GetTraceLevel() tracing.TraceLevel { return t.level }

func (t *zeroTrace) SetOutput(w io.Writer) { t.log = t.log.Output(w) }

// zeroSelector hands out one tracer per key, tagged with the key.
type zeroSelector struct {
	log   zerolog.Logger
	level tracing.TraceLevel
}

func (sel zeroSelector) Select(key string) tracing.Trace {
	return &zeroTrace{log: sel.log.With().Str("trace", key).Logger(), level: sel.level}
}

func traceLevel(s string) tracing.TraceLevel {
	switch strings.ToLower(s) {
	case "debug":
		return tracing.LevelDebug
	case "info":
		return tracing.LevelInfo
	}
	return tracing.LevelError
}

// setupTracing sends the packages' tracing through log.
func setupTracing(log zerolog.Logger, level string) {
	tracing.SetTraceSelector(zeroSelector{log: log, level: traceLevel(level)})
}
