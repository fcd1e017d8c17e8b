package walking

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "pathpioneer/walking"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	laps     metric.Int64Counter
	sprints  metric.Int64Counter
	warnings metric.Int64Counter
	pace     metric.Float64Histogram
	topology attribute.KeyValue
}

func newMetrics(m metric.Meter, loop bool) (*metrics, error) {
	if m == nil {
		m = meter()
	}
	mx := &metrics{topology: attribute.String("topology", "sprint")}
	if loop {
		mx.topology = attribute.String("topology", "loop")
	}
	var err error
	mx.laps, err = m.Int64Counter(
		"walking.laps",
		metric.WithDescription("Completed laps of loop paths"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating laps counter: %w", err)
	}
	mx.sprints, err = m.Int64Counter(
		"walking.sprints",
		metric.WithDescription("Completed legs of sprint paths"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sprints counter: %w", err)
	}
	mx.warnings, err = m.Int64Counter(
		"walking.speed_warnings",
		metric.WithDescription("Times the speed warning was raised"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speed warning counter: %w", err)
	}
	mx.pace, err = m.Float64Histogram(
		"walking.pace",
		metric.WithDescription("Sampled walking pace"),
		metric.WithUnit("cm/s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pace histogram: %w", err)
	}
	return mx, nil
}

func (mx *metrics) lap() {
	mx.laps.Add(context.Background(), 1, metric.WithAttributes(mx.topology))
}

func (mx *metrics) sprint() {
	mx.sprints.Add(context.Background(), 1, metric.WithAttributes(mx.topology))
}

func (mx *metrics) warning() {
	mx.warnings.Add(context.Background(), 1, metric.WithAttributes(mx.topology))
}

func (mx *metrics) recordPace(cmPerSecond float64) {
	mx.pace.Record(context.Background(), cmPerSecond, metric.WithAttributes(mx.topology))
}
