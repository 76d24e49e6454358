// Package events fans pipeline events out to websocket clients and Redis streams.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Type names an event kind
type Type string

const (
	TypeOddsCalculated Type = "odds.calculated"
	TypeOddsAbandoned  Type = "odds.abandoned"
	TypeMatchFinished  Type = "match.finished"
	TypeBetsSettled    Type = "bets.settled"
)

// Event is the envelope published to every sink
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// New wraps a payload in an event envelope
func New(t Type, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// OddsCalculated is published when a match receives calculated odds
type OddsCalculated struct {
	CycleID     string  `json:"cycle_id,omitempty"`
	MatchID     int     `json:"match_id"`
	HomeWinOdds float64 `json:"home_win_odds"`
	AwayWinOdds float64 `json:"away_win_odds"`
	DrawOdds    float64 `json:"draw_odds"`
}

// OddsAbandoned is published when pricing of a match is given up
type OddsAbandoned struct {
	CycleID string `json:"cycle_id,omitempty"`
	MatchID int    `json:"match_id"`
	Reason  string `json:"reason"`
}

// MatchFinished is published when a stored match reaches a final status
type MatchFinished struct {
	MatchID int    `json:"match_id"`
	Status  string `json:"status"`
	Winner  string `json:"winner,omitempty"`
}

// BetsSettled is published after the bets on a match are settled
type BetsSettled struct {
	MatchID     int    `json:"match_id"`
	Won         int    `json:"won"`
	Lost        int    `json:"lost"`
	TotalPayout string `json:"total_payout"`
}

// Publisher delivers events to a sink
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// MultiPublisher publishes each event to every wrapped publisher
type MultiPublisher []Publisher

// Publish delivers to all publishers and combines their errors
func (m MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs error
	for _, p := range m {
		errs = multierr.Append(errs, p.Publish(ctx, event))
	}
	return errs
}
