package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewatch/gate-metrics-service/internal/models"
	"github.com/gatewatch/gate-metrics-service/internal/store"
)

// fakeSource serves canned events, applying the same filter semantics as
// the real store: optional equality on gate/type, inclusive time bounds.
type fakeSource struct {
	events []models.GateEvent
	err    error
	// lastFilter records what the engine asked for.
	lastFilter store.EventFilter
}

func (f *fakeSource) QueryEvents(_ context.Context, filter store.EventFilter) ([]models.GateEvent, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	var out []models.GateEvent
	for _, ev := range f.events {
		if filter.Gate != "" && ev.Gate != filter.Gate {
			continue
		}
		if filter.Type != "" && ev.Type != filter.Type {
			continue
		}
		if filter.Start != nil && ev.Timestamp.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && ev.Timestamp.After(*filter.End) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func at(sec int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, sec, 0, time.UTC)
}

func ev(gate, typ string, people, sec int) models.GateEvent {
	return models.GateEvent{Gate: gate, Type: typ, NumberOfPeople: people, Timestamp: at(sec)}
}

func TestSummarizeSumsPerGateTypePair(t *testing.T) {
	src := &fakeSource{events: []models.GateEvent{
		ev("Gate A", "enter", 3, 0),
		ev("Gate A", "enter", 5, 10),
		ev("Gate A", "leave", 2, 20),
		ev("Gate B", "enter", 7, 30),
	}}
	engine := NewEngine(src)

	got, err := engine.Summarize(context.Background(), store.EventFilter{})
	require.NoError(t, err)

	assert.Equal(t, []models.GateSummary{
		{Gate: "Gate A", Type: "enter", NumberOfPeople: 8},
		{Gate: "Gate A", Type: "leave", NumberOfPeople: 2},
		{Gate: "Gate B", Type: "enter", NumberOfPeople: 7},
	}, got)
}

func TestSummarizeWindowBoundsAreInclusive(t *testing.T) {
	src := &fakeSource{events: []models.GateEvent{
		ev("Gate A", "enter", 1, 9),  // one unit before start: excluded
		ev("Gate A", "enter", 2, 10), // == start: included
		ev("Gate A", "enter", 4, 20), // == end: included
		ev("Gate A", "enter", 8, 21), // one unit after end: excluded
	}}
	engine := NewEngine(src)

	start, end := at(10), at(20)
	got, err := engine.Summarize(context.Background(), store.EventFilter{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].NumberOfPeople)
}

func TestSummarizeFiltersByGateAndType(t *testing.T) {
	src := &fakeSource{events: []models.GateEvent{
		ev("Gate A", "enter", 3, 0),
		ev("Gate A", "leave", 5, 0),
		ev("Gate B", "enter", 7, 0),
	}}
	engine := NewEngine(src)

	got, err := engine.Summarize(context.Background(), store.EventFilter{Gate: "Gate A", Type: "enter"})
	require.NoError(t, err)

	assert.Equal(t, []models.GateSummary{{Gate: "Gate A", Type: "enter", NumberOfPeople: 3}}, got)
}

func TestSummarizeNoMatchesReturnsEmptyNotError(t *testing.T) {
	engine := NewEngine(&fakeSource{})

	got, err := engine.Summarize(context.Background(), store.EventFilter{Gate: "Gate Z"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummarizeSurfacesStoreFailure(t *testing.T) {
	engine := NewEngine(&fakeSource{err: store.ErrUnavailable})

	_, err := engine.Summarize(context.Background(), store.EventFilter{})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestLiveWindowFloorsMinutesToOne(t *testing.T) {
	now := at(0)
	for _, minutes := range []int{0, -5, 1} {
		src := &fakeSource{}
		engine := NewEngine(src)
		engine.now = func() time.Time { return now }

		_, err := engine.Live(context.Background(), minutes, "", "")
		require.NoError(t, err)

		require.NotNil(t, src.lastFilter.Start)
		require.NotNil(t, src.lastFilter.End)
		assert.Equal(t, now, *src.lastFilter.End, "minutes=%d", minutes)
		assert.Equal(t, now.Add(-time.Minute), *src.lastFilter.Start, "minutes=%d", minutes)
	}
}

func TestLivePassesGateAndTypeThrough(t *testing.T) {
	src := &fakeSource{}
	engine := NewEngine(src)

	_, err := engine.Live(context.Background(), 5, "Gate B", "leave")
	require.NoError(t, err)

	assert.Equal(t, "Gate B", src.lastFilter.Gate)
	assert.Equal(t, "leave", src.lastFilter.Type)
	assert.Equal(t, 5*time.Minute, src.lastFilter.End.Sub(*src.lastFilter.Start))
}
