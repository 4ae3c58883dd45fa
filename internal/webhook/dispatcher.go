package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gatewatch/gate-metrics-service/internal/models"
)

const (
	// queueSize bounds the internal event queue. Enqueueing never blocks
	// on subscriber I/O; if the queue backs up, events are dropped and
	// logged rather than stalling the write path.
	queueSize = 256

	// callTimeout caps one outbound POST so an unresponsive subscriber
	// cannot occupy a dispatch slot indefinitely.
	callTimeout = 3 * time.Second
)

// Dispatcher delivers each accepted gate event to every registered
// subscriber, at most once per event per subscriber, with no retries.
// Delivery failures are logged and never reach the ingestion caller.
type Dispatcher struct {
	registry *Registry
	client   *http.Client
	queue    chan models.GateEvent
	wg       sync.WaitGroup
}

// NewDispatcher starts a dispatcher draining its queue until ctx is
// cancelled. Dispatch in flight at cancellation may be abandoned.
func NewDispatcher(ctx context.Context, registry *Registry) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		client:   &http.Client{Timeout: callTimeout},
		queue:    make(chan models.GateEvent, queueSize),
	}
	d.wg.Add(1)
	go d.run(ctx)
	return d
}

// Notify enqueues an event for fan-out. It never blocks on subscriber
// I/O; when the queue is full the event is dropped and logged, keeping
// delivery strictly best-effort.
func (d *Dispatcher) Notify(ev models.GateEvent) {
	select {
	case d.queue <- ev:
	default:
		log.Printf("webhook queue full, dropping event id=%d", ev.ID)
	}
}

// Wait blocks until the dispatch loop has exited. Used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.queue:
			d.fanOut(ctx, ev)
		}
	}
}

// fanOut posts one event to every URL in the registry snapshot,
// concurrently and independently of each other's outcome.
func (d *Dispatcher) fanOut(ctx context.Context, ev models.GateEvent) {
	urls := d.registry.Snapshot()
	if len(urls) == 0 {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("webhook payload marshal failed: %v", err)
		return
	}

	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			d.post(ctx, url, payload)
		}(u)
	}
	wg.Wait()
}

func (d *Dispatcher) post(ctx context.Context, url string, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("webhook request build failed for %s: %v", url, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("webhook POST to %s failed: %v", url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("webhook POST to %s returned %d", url, resp.StatusCode)
	}
}
