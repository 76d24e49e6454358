package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet represents a user's stake on a match result
type Bet struct {
	ID        int64           `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id" validate:"required"`
	MatchID   int             `db:"match_id" json:"match_id" validate:"required,gt=0"`
	Winner    Winner          `db:"winner" json:"winner" validate:"required,oneof=HOME_TEAM AWAY_TEAM DRAW"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Odds      decimal.Decimal `db:"odds" json:"odds"`
	IsWon     *bool           `db:"is_won" json:"is_won"`
	PlacedAt  time.Time       `db:"placed_at" json:"placed_at" validate:"required"`
	SettledAt *time.Time      `db:"settled_at" json:"settled_at"`
}

// IsSettled reports whether the bet already has a result
func (b *Bet) IsSettled() bool {
	return b.IsWon != nil
}

// Payout returns the amount credited to the user when the bet wins
func (b *Bet) Payout() decimal.Decimal {
	return b.Amount.Mul(b.Odds)
}

// Settlement is the outcome of settling a single bet against a finished match
type Settlement struct {
	BetID     int64           `json:"bet_id"`
	UserID    string          `json:"user_id"`
	MatchID   int             `json:"match_id"`
	IsWon     bool            `json:"is_won"`
	Payout    decimal.Decimal `json:"payout"`
	SettledAt time.Time       `json:"settled_at"`
}
