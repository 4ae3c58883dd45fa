// Package generator fabricates a steady stream of gate events so the
// whole pipeline is continuously exercised for demos and load.
package generator

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/gatewatch/gate-metrics-service/internal/models"
)

var (
	gates = []string{"Gate A", "Gate B", "Gate C"}
	types = []string{"enter", "leave"}
)

// Submitter is the ingestion entry point the generator feeds. It is the
// same contract external callers use, so the generator gets no separate
// fast path into storage.
type Submitter interface {
	Submit(ctx context.Context, gate string, ts time.Time, people int, typ string) (models.GateEvent, error)
}

// Generator submits one fabricated event per tick until cancelled.
type Generator struct {
	submitter Submitter
	interval  time.Duration
	rng       *rand.Rand
}

// New builds a generator ticking at the given interval; an interval of
// zero or less falls back to one second, the reference cadence.
func New(submitter Submitter, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Generator{
		submitter: submitter,
		interval:  interval,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks until ctx is cancelled. A failed tick (e.g. the store being
// briefly unreachable) is logged and the loop carries on; only the
// cancellation signal stops it.
func (g *Generator) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	log.Printf("synthetic gate sensor started, interval %s", g.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("synthetic gate sensor stopped")
			return
		case <-ticker.C:
			g.tick(ctx)
		}
	}
}

func (g *Generator) tick(ctx context.Context) {
	gate := gates[g.rng.Intn(len(gates))]
	typ := types[g.rng.Intn(len(types))]
	people := g.rng.Intn(19) + 1 // 1..19 inclusive

	if _, err := g.submitter.Submit(ctx, gate, time.Now().UTC(), people, typ); err != nil {
		log.Printf("synthetic gate event failed: %v", err)
	}
}
