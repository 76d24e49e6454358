package models

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// OddsState tracks where a match's odds are in the pricing lifecycle
type OddsState string

const (
	// OddsStateProvisional means the odds are a random placeholder waiting for a calculation
	OddsStateProvisional OddsState = "provisional"
	// OddsStateCalculated means the odds came from the probability model
	OddsStateCalculated OddsState = "calculated"
	// OddsStateAbandoned means pricing was given up for good and the placeholder stays
	OddsStateAbandoned OddsState = "abandoned"
)

// AbandonReason explains why a match was never priced
type AbandonReason string

const (
	AbandonReasonInsufficientData AbandonReason = "insufficient_data"
	AbandonReasonQuotaRejected    AbandonReason = "quota_rejected"
)

const (
	provisionalOddsMin   = 1.1
	provisionalOddsRange = 2.4
)

// MatchOdds holds the three decimal odds offered for a match
type MatchOdds struct {
	HomeWinOdds   float64        `db:"home_win_odds" json:"home_win_odds"`
	AwayWinOdds   float64        `db:"away_win_odds" json:"away_win_odds"`
	DrawOdds      float64        `db:"draw_odds" json:"draw_odds"`
	IsProvisional bool           `db:"odds_provisional" json:"is_provisional"`
	State         OddsState      `db:"odds_state" json:"state"`
	AbandonReason *AbandonReason `db:"odds_abandon_reason" json:"abandon_reason,omitempty"`
	CalculatedAt  *time.Time     `db:"odds_calculated_at" json:"calculated_at,omitempty"`
}

// NewProvisionalOdds seeds placeholder odds in [1.1, 3.5] rounded to one decimal
func NewProvisionalOdds(rng *rand.Rand) MatchOdds {
	return MatchOdds{
		HomeWinOdds:   randomOdds(rng),
		AwayWinOdds:   randomOdds(rng),
		DrawOdds:      randomOdds(rng),
		IsProvisional: true,
		State:         OddsStateProvisional,
	}
}

// NewCalculatedOdds builds odds produced by the probability model
func NewCalculatedOdds(homeWin, awayWin, draw float64, at time.Time) MatchOdds {
	at = at.UTC()
	return MatchOdds{
		HomeWinOdds:   homeWin,
		AwayWinOdds:   awayWin,
		DrawOdds:      draw,
		IsProvisional: false,
		State:         OddsStateCalculated,
		CalculatedAt:  &at,
	}
}

// Abandoned returns a copy of the odds marked as permanently unpriced.
// The placeholder prices are kept and remain provisional.
func (o MatchOdds) Abandoned(reason AbandonReason) MatchOdds {
	o.State = OddsStateAbandoned
	o.IsProvisional = true
	o.AbandonReason = &reason
	o.CalculatedAt = nil
	return o
}

// Pending reports whether the odds are still waiting for a calculation attempt
func (o MatchOdds) Pending() bool {
	return o.State == OddsStateProvisional
}

// ForWinner returns the odds offered on the given result
func (o MatchOdds) ForWinner(w Winner) float64 {
	switch w {
	case WinnerHomeTeam:
		return o.HomeWinOdds
	case WinnerAwayTeam:
		return o.AwayWinOdds
	default:
		return o.DrawOdds
	}
}

func randomOdds(rng *rand.Rand) float64 {
	raw := decimal.NewFromFloat(provisionalOddsMin + provisionalOddsRange*rng.Float64())
	return raw.Round(1).InexactFloat64()
}
