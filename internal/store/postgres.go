package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatewatch/gate-metrics-service/internal/models"
)

// ErrUnavailable indicates the durable store rejected a read or write,
// typically due to lost connectivity. Nothing was partially written.
var ErrUnavailable = errors.New("event store unavailable")

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// EventFilter is a conjunction of optional predicates over the event log.
// Empty/nil fields impose no constraint. Both time bounds are inclusive.
type EventFilter struct {
	Gate  string
	Type  string
	Start *time.Time
	End   *time.Time
}

// PostgresStore is the durable append-only persistence layer for gate events.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertGateEvent appends one event and returns its store-assigned id.
// The timestamp is normalized to UTC before it hits the database.
func (p *PostgresStore) InsertGateEvent(ctx context.Context, ev models.GateEvent) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO gate_events(gate, type, ts, number_of_people)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, ev.Gate, ev.Type, ev.Timestamp.UTC(), ev.NumberOfPeople).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, nil
}

// QueryEvents returns all events matching the filter. No ordering is
// guaranteed; consumers that care must sort.
func (p *PostgresStore) QueryEvents(ctx context.Context, f EventFilter) ([]models.GateEvent, error) {
	var sql strings.Builder
	sql.WriteString(`SELECT id, gate, type, ts, number_of_people FROM gate_events`)

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Gate != "" {
		conds = append(conds, "gate = "+arg(f.Gate))
	}
	if f.Type != "" {
		conds = append(conds, "type = "+arg(f.Type))
	}
	if f.Start != nil {
		conds = append(conds, "ts >= "+arg(f.Start.UTC()))
	}
	if f.End != nil {
		conds = append(conds, "ts <= "+arg(f.End.UTC()))
	}
	if len(conds) > 0 {
		sql.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	rows, err := p.pool.Query(ctx, sql.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var events []models.GateEvent
	for rows.Next() {
		var ev models.GateEvent
		if err := rows.Scan(&ev.ID, &ev.Gate, &ev.Type, &ev.Timestamp, &ev.NumberOfPeople); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return events, nil
}
