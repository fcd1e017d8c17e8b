package walking

import "time"

// stopwatch measures walking time, excluding pauses.
type stopwatch struct {
	running bool
	since   time.Time
	acc     time.Duration
}

func (sw *stopwatch) start(now time.Time) {
	sw.acc = 0
	sw.since, sw.running = now, true
}

func (sw *stopwatch) pause(now time.Time) {
	if sw.running {
		sw.acc += now.Sub(sw.since)
		sw.running = false
	}
}

func (sw *stopwatch) resume(now time.Time) {
	if !sw.running {
		sw.since, sw.running = now, true
	}
}

func (sw *stopwatch) elapsed(now time.Time) time.Duration {
	if sw.running {
		return sw.acc + now.Sub(sw.since)
	}
	return sw.acc
}
