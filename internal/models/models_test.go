package models

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvisionalOdds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	lowest, highest := 10.0, 0.0

	for i := 0; i < 200; i++ {
		odds := NewProvisionalOdds(rng)

		assert.True(t, odds.IsProvisional)
		assert.Equal(t, OddsStateProvisional, odds.State)
		assert.True(t, odds.Pending())
		for _, v := range []float64{odds.HomeWinOdds, odds.AwayWinOdds, odds.DrawOdds} {
			assert.GreaterOrEqual(t, v, 1.1)
			assert.LessOrEqual(t, v, 3.5)
			assert.InDelta(t, v, decimal.NewFromFloat(v).Round(1).InexactFloat64(), 1e-9)
			lowest = min(lowest, v)
			highest = max(highest, v)
		}
	}

	// 600 draws cover the range end to end
	assert.Less(t, lowest, 1.5)
	assert.Greater(t, highest, 3.1)
}

func TestMatchOddsAbandonedKeepsPlaceholder(t *testing.T) {
	odds := NewProvisionalOdds(rand.New(rand.NewSource(1)))

	abandoned := odds.Abandoned(AbandonReasonQuotaRejected)

	assert.Equal(t, OddsStateAbandoned, abandoned.State)
	assert.True(t, abandoned.IsProvisional)
	assert.False(t, abandoned.Pending())
	require.NotNil(t, abandoned.AbandonReason)
	assert.Equal(t, AbandonReasonQuotaRejected, *abandoned.AbandonReason)
	assert.Equal(t, odds.HomeWinOdds, abandoned.HomeWinOdds)
	assert.Equal(t, odds.DrawOdds, abandoned.DrawOdds)
	assert.True(t, odds.Pending(), "original value must not change")
}

func TestNewCalculatedOdds(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	odds := NewCalculatedOdds(1.8, 4.2, 3.5, at)

	assert.False(t, odds.IsProvisional)
	assert.Equal(t, OddsStateCalculated, odds.State)
	require.NotNil(t, odds.CalculatedAt)
	assert.Equal(t, at, *odds.CalculatedAt)
	assert.Equal(t, 1.8, odds.ForWinner(WinnerHomeTeam))
	assert.Equal(t, 4.2, odds.ForWinner(WinnerAwayTeam))
	assert.Equal(t, 3.5, odds.ForWinner(WinnerDraw))
}

func TestMatchFinishesWith(t *testing.T) {
	tests := []struct {
		name     string
		from, to Status
		want     bool
	}{
		{"in play to finished", StatusInPlay, StatusFinished, true},
		{"timed to awarded", StatusTimed, StatusAwarded, true},
		{"finished to finished", StatusFinished, StatusFinished, false},
		{"awarded to finished", StatusAwarded, StatusFinished, false},
		{"scheduled to in play", StatusScheduled, StatusInPlay, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := &Match{Status: tt.from}
			updated := &Match{Status: tt.to}
			assert.Equal(t, tt.want, stored.FinishesWith(updated))
		})
	}
}

func TestBetPayout(t *testing.T) {
	bet := &Bet{Amount: decimal.NewFromInt(20), Odds: decimal.RequireFromString("2.35")}

	assert.True(t, bet.Payout().Equal(decimal.RequireFromString("47")))
	assert.False(t, bet.IsSettled())
}
