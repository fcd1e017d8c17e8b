/*
Package arrows maintains the guidance markers shown ahead of a walker.

A Pool keeps at most MaxArrows chevron pairs alive along a path. Arrows are
spaced at least MinimalDistance apart in arc length along the path and are
recycled once the walker has moved on: when the next candidate position is
closer (in arc length) to the walker than the oldest live arrow, and within
RevealDistance, the oldest arrow is evicted and the candidate spawned. The
policy is least-recently-passed, not least-recently-spawned in time.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package arrows

import (
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/go-gl/mathgl/mgl64"
	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/spline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'arrows'
func tracer() tracing.Trace {
	return tracing.Select("arrows")
}

// Config holds the arrow pool tunables. Distances are in centimetres.
type Config struct {
	MaxArrows       int     `mapstructure:"maxArrows"`
	MinimalDistance float64 `mapstructure:"minimalDistance"`
	RevealDistance  float64 `mapstructure:"revealDistance"`
	Radius          float64 `mapstructure:"radius"`
	Height          float64 `mapstructure:"height"`
	Trim            int     `mapstructure:"trim"` // samples skipped at either end of the path
}

// DefaultConfig returns the default arrow pool configuration.
func DefaultConfig() Config {
	return Config{
		MaxArrows:       4,
		MinimalDistance: 150,
		RevealDistance:  600,
		Radius:          15,
		Height:          3,
		Trim:            7,
	}
}

// chevron roll of each arrow around the local forward axis
var chevronRoll = mgl64.DegToRad(60)

// ArrowPair is a live chevron: two mirrored arrow transforms at one path sample.
type ArrowPair struct {
	ID    int     // candidate index along the path
	Arc   float64 // arc length position along the path
	Left  pp.Transform
	Right pp.Transform
}

// Sink receives marker changes, e.g. the scene objects showing the arrows.
type Sink interface {
	Show(pair ArrowPair)
	Hide(id int)
}

// Pool is a bounded, recyclable set of guidance arrows. Pools are not safe for
// concurrent use; they are driven from the frame loop.
type Pool struct {
	conf       Config
	sink       Sink
	candidates []pp.Vec3
	rotations  []pp.Quat
	arcs       []float64
	walkerArcs []float64 // arc position of every untrimmed sample
	positions  []pp.Vec3
	next       int          // cursor into candidates, moves forward only
	seq        int          // spawn sequence number
	live       *treemap.Map // spawn sequence -> ArrowPair
}

// NewPool creates an arrow pool. sink may be nil.
func NewPool(conf Config, sink Sink) *Pool {
	return &Pool{
		conf: conf,
		sink: sink,
		live: treemap.NewWithIntComparator(),
	}
}

// Start resets the pool for a new run along positions, given in travel order.
// splinePoints orient the arrows; pathLength scales arc positions. Trim
// samples at either end never receive arrows.
func (p *Pool) Start(positions []pp.Vec3, splinePoints []pp.SplinePoint, pathLength float64) {
	p.Stop()
	p.positions = positions
	p.next, p.seq = 0, 0
	p.candidates, p.rotations, p.arcs, p.walkerArcs = nil, nil, nil, nil
	if len(positions) < 2 {
		return
	}
	table := spline.NewArcTable(positions)
	scale := 1.0
	if pathLength > 0 && !pp.Is0(table.Length()) {
		scale = pathLength / table.Length()
	}
	p.walkerArcs = make([]float64, len(positions))
	for i := range positions {
		p.walkerArcs[i] = table.At(i) * scale
	}
	trim := max(p.conf.Trim, 0)
	from, to := trim, len(positions)-trim
	for i := from; i < to; i++ {
		p.candidates = append(p.candidates, positions[i])
		p.rotations = append(p.rotations, orientation(i, positions, splinePoints))
		p.arcs = append(p.arcs, p.walkerArcs[i])
	}
	tracer().Debugf("arrow pool started with %d candidates over %.1f cm", len(p.candidates), table.Length()*scale)
}

// orientation of sample i: the matching spline sample's rotation, or the
// rotation of the nearest spline sample if the lists differ.
func orientation(i int, positions []pp.Vec3, splinePoints []pp.SplinePoint) pp.Quat {
	if len(splinePoints) == 0 {
		return pp.CurveRotation(positions, i)
	}
	if len(splinePoints) == len(positions) {
		return splinePoints[i].Rotation
	}
	sc := spline.WorldToSplineSpace(positions[i], splinePoints)
	return splinePoints[sc.Index].Rotation
}

// Update advances the pool for the walker at position walker.
func (p *Pool) Update(walker pp.Vec3) {
	if len(p.candidates) == 0 || p.conf.MaxArrows <= 0 {
		return
	}
	if p.live.Size() < p.conf.MaxArrows {
		for p.live.Size() < p.conf.MaxArrows {
			if !p.spawnNext() {
				break
			}
		}
		return
	}
	next := p.peekNext()
	if next < 0 || p.live.Empty() {
		return
	}
	w := p.walkerArc(walker)
	oldKey, oldVal := p.live.Min()
	oldest := oldVal.(ArrowPair)
	dNext := math.Abs(p.arcs[next] - w)
	dOld := math.Abs(oldest.Arc - w)
	if dNext < dOld && dNext <= p.conf.RevealDistance {
		p.evict(oldKey.(int), oldest)
		p.spawn(next)
	}
}

// Stop hides all live arrows.
func (p *Pool) Stop() {
	it := p.live.Iterator()
	for it.Next() {
		if p.sink != nil {
			p.sink.Hide(it.Value().(ArrowPair).ID)
		}
	}
	p.live.Clear()
}

// Len is the number of live arrow pairs.
func (p *Pool) Len() int {
	return p.live.Size()
}

// Live returns the live arrow pairs, oldest first.
func (p *Pool) Live() []ArrowPair {
	pairs := make([]ArrowPair, 0, p.live.Size())
	for _, v := range p.live.Values() {
		pairs = append(pairs, v.(ArrowPair))
	}
	return pairs
}

// peekNext moves the cursor past candidates too close to the newest live
// arrow and returns the next usable candidate, or -1.
func (p *Pool) peekNext() int {
	for ; p.next < len(p.candidates); p.next++ {
		if p.live.Empty() {
			return p.next
		}
		_, v := p.live.Max()
		if math.Abs(p.arcs[p.next]-v.(ArrowPair).Arc) >= p.conf.MinimalDistance {
			return p.next
		}
	}
	return -1
}

func (p *Pool) spawnNext() bool {
	next := p.peekNext()
	if next < 0 {
		return false
	}
	p.spawn(next)
	return true
}

func (p *Pool) spawn(i int) {
	pos, rot := p.candidates[i], p.rotations[i]
	right, up := pp.Right(rot), pp.Up(rot)
	lift := up.Mul(p.conf.Height)
	pair := ArrowPair{
		ID:  i,
		Arc: p.arcs[i],
		Left: pp.NewTransform(pos.Sub(right.Mul(p.conf.Radius)).Add(lift),
			rot.Mul(mgl64.QuatRotate(chevronRoll, pp.WorldForward))),
		Right: pp.NewTransform(pos.Add(right.Mul(p.conf.Radius)).Add(lift),
			rot.Mul(mgl64.QuatRotate(-chevronRoll, pp.WorldForward))),
	}
	p.live.Put(p.seq, pair)
	p.seq++
	p.next = i + 1
	if p.sink != nil {
		p.sink.Show(pair)
	}
}

func (p *Pool) evict(key int, pair ArrowPair) {
	p.live.Remove(key)
	if p.sink != nil {
		p.sink.Hide(pair.ID)
	}
}

// walkerArc is the arc position of the sample nearest to the walker.
func (p *Pool) walkerArc(walker pp.Vec3) float64 {
	best, bestDist := 0, math.MaxFloat64
	for i, pos := range p.positions {
		d := walker.Sub(pos)
		if dd := d.Dot(d); dd < bestDist {
			best, bestDist = i, dd
		}
	}
	return p.walkerArcs[best]
}
