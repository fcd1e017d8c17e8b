/*
Package pace measures the walker's speed from positions sampled per frame.

Pace is horizontal distance per second, in centimetres per second. Samples
are taken at a minimum interval; inside the interval the previous pace is
repeated, so that per-frame jitter of the position does not show up in the
readout.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package pace

import (
	"time"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'pace'
func tracer() tracing.Trace {
	return tracing.Select("pace")
}

// DefaultInterval is the default minimum interval between two samples.
const DefaultInterval = 250 * time.Millisecond

// MPHPerCmS converts centimetres per second to miles per hour.
const MPHPerCmS = 0.0223694

// MPH converts a pace to miles per hour.
func MPH(cmPerSecond float64) float64 {
	return cmPerSecond * MPHPerCmS
}

// Sample is the result of one pace query. Dist and Dt are the distance and
// time covered since the previous sample, or zero if the query fell inside
// the minimum interval.
type Sample struct {
	Pace float64
	Dist float64
	Dt   time.Duration
}

// Calculator derives pace from successive positions.
type Calculator struct {
	MinInterval time.Duration
	last        pp.Vec3
	lastTime    time.Time
	pace        float64
	started     bool
}

// NewCalculator creates a calculator sampling at most once per interval.
// A non-positive interval selects DefaultInterval.
func NewCalculator(interval time.Duration) *Calculator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Calculator{MinInterval: interval}
}

// Start sets the reference position and clears the pace.
func (c *Calculator) Start(pos pp.Vec3, now time.Time) {
	c.last, c.lastTime = pos, now
	c.pace = 0
	c.started = true
	tracer().Debugf("pace calculator started at %v", pp.Ground(pos))
}

// Started tells if Start has been called.
func (c *Calculator) Started() bool {
	return c.started
}

// GetPace samples the walker. Before Start, the call starts the calculator
// and reports zero.
func (c *Calculator) GetPace(pos pp.Vec3, now time.Time) Sample {
	if !c.started {
		c.Start(pos, now)
		return Sample{}
	}
	dt := now.Sub(c.lastTime)
	if dt < c.MinInterval {
		return Sample{Pace: c.pace}
	}
	dist := pp.HorizontalDistance(c.last, pos)
	c.pace = dist / dt.Seconds()
	c.last, c.lastTime = pos, now
	return Sample{Pace: c.pace, Dist: dist, Dt: dt}
}
