// Package ingest is the single validated write path for gate events.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatewatch/gate-metrics-service/internal/models"
)

// ErrInvalidEvent rejects malformed ingestion input. Invalid events are
// never persisted.
var ErrInvalidEvent = errors.New("invalid gate event")

// EventAppender is the slice of the event store the service writes to.
type EventAppender interface {
	InsertGateEvent(ctx context.Context, ev models.GateEvent) (int64, error)
}

// Notifier receives a copy of every durably written event. Implementations
// must not block; dispatch latency never reaches the ingestion caller.
type Notifier interface {
	Notify(ev models.GateEvent)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ev models.GateEvent)

// Notify calls f.
func (f NotifierFunc) Notify(ev models.GateEvent) { f(ev) }

// Service validates and persists one event, then hands it to the
// notifiers. Submit returns as soon as the durable write succeeds;
// notification is fire-and-forget.
type Service struct {
	store     EventAppender
	notifiers []Notifier
}

// NewService builds the ingestion service. Notifiers are optional.
func NewService(store EventAppender, notifiers ...Notifier) *Service {
	return &Service{store: store, notifiers: notifiers}
}

// Submit validates, persists and fans out a single gate event.
// The returned event carries the store-assigned id and UTC timestamp.
func (s *Service) Submit(ctx context.Context, gate string, ts time.Time, people int, typ string) (models.GateEvent, error) {
	ev := models.GateEvent{
		Gate:           strings.TrimSpace(gate),
		Type:           strings.TrimSpace(typ),
		Timestamp:      ts.UTC(),
		NumberOfPeople: people,
	}
	if err := validate(ev); err != nil {
		return models.GateEvent{}, err
	}

	id, err := s.store.InsertGateEvent(ctx, ev)
	if err != nil {
		return models.GateEvent{}, err
	}
	ev.ID = id

	// Persistence strictly precedes notification; notification outcome
	// never affects the result already owed to the caller.
	for _, n := range s.notifiers {
		n.Notify(ev)
	}
	return ev, nil
}

func validate(ev models.GateEvent) error {
	switch {
	case ev.Gate == "":
		return fmt.Errorf("%w: gate must be non-empty", ErrInvalidEvent)
	case ev.Type == "":
		return fmt.Errorf("%w: type must be non-empty", ErrInvalidEvent)
	case ev.NumberOfPeople < 0:
		return fmt.Errorf("%w: numberOfPeople must be non-negative", ErrInvalidEvent)
	case ev.Timestamp.IsZero():
		return fmt.Errorf("%w: timestamp must be a well-formed instant", ErrInvalidEvent)
	}
	return nil
}
