package models

import "time"

// GateEvent is one observed crossing at a physical gate. Once stored it is
// never mutated or deleted; the table is an append-only log.
type GateEvent struct {
	ID             int64     `json:"id"`
	Gate           string    `json:"gate"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"` // always UTC once stored
	NumberOfPeople int       `json:"numberOfPeople"`
}

// GateSummary is the aggregated people flow for one (gate, type) pair.
// Computed fresh per query, never persisted.
type GateSummary struct {
	Gate           string `json:"gate"`
	Type           string `json:"type"`
	NumberOfPeople int    `json:"numberOfPeople"`
}

// GateEventRequest is the POST /gatemetrics/gate-event payload.
// Timestamp must be RFC3339 with an explicit offset.
type GateEventRequest struct {
	Gate           string `json:"gate"`
	Timestamp      string `json:"timestamp"`
	NumberOfPeople int    `json:"numberOfPeople"`
	Type           string `json:"type"`
}

// WebhookRequest is the POST /notifications/webhooks payload.
type WebhookRequest struct {
	URL string `json:"url"`
}

// LoginRequest is the POST /auth/token payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by POST /auth/token.
type TokenResponse struct {
	Token string `json:"token"`
}
