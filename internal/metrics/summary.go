// Package metrics computes per-(gate,type) people-flow aggregates over a
// time window of the event log.
package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/gatewatch/gate-metrics-service/internal/models"
	"github.com/gatewatch/gate-metrics-service/internal/store"
)

// EventSource is the slice of the event store the engine reads from.
type EventSource interface {
	QueryEvents(ctx context.Context, f store.EventFilter) ([]models.GateEvent, error)
}

// Engine aggregates stored gate events. It holds no state of its own;
// every query re-scans the filtered window.
type Engine struct {
	source EventSource
	now    func() time.Time
}

// NewEngine builds an aggregation engine over the given event source.
func NewEngine(source EventSource) *Engine {
	return &Engine{source: source, now: time.Now}
}

// Summarize returns one entry per distinct (gate, type) pair among events
// matching the filter, each carrying the sum of its people counts.
//
// Time bounds are inclusive on both ends. Bounds supplied without an
// explicit offset are interpreted as UTC; that normalization happens at
// the parsing layer, so by the time they reach the engine they are plain
// UTC instants. Results are ordered by gate, then type, so responses are
// stable across calls.
func (e *Engine) Summarize(ctx context.Context, f store.EventFilter) ([]models.GateSummary, error) {
	events, err := e.source.QueryEvents(ctx, f)
	if err != nil {
		return nil, err
	}

	type key struct{ gate, typ string }
	sums := make(map[key]int)
	for _, ev := range events {
		sums[key{ev.Gate, ev.Type}] += ev.NumberOfPeople
	}

	result := make([]models.GateSummary, 0, len(sums))
	for k, n := range sums {
		result = append(result, models.GateSummary{Gate: k.gate, Type: k.typ, NumberOfPeople: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Gate != result[j].Gate {
			return result[i].Gate < result[j].Gate
		}
		return result[i].Type < result[j].Type
	})
	return result, nil
}

// Live summarizes the window [now-minutes, now]. A zero or negative
// minutes value is floored to 1, never rejected.
func (e *Engine) Live(ctx context.Context, minutes int, gate, typ string) ([]models.GateSummary, error) {
	if minutes <= 0 {
		minutes = 1
	}
	end := e.now().UTC()
	start := end.Add(-time.Duration(minutes) * time.Minute)
	return e.Summarize(ctx, store.EventFilter{
		Gate:  gate,
		Type:  typ,
		Start: &start,
		End:   &end,
	})
}
