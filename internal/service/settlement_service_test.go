package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betkick/internal/events"
	"github.com/yourusername/betkick/internal/models"
)

func openBets() []*models.Bet {
	return []*models.Bet{
		{ID: 1, UserID: "alice", MatchID: testMatchID, Winner: models.WinnerHomeTeam,
			Amount: decimal.RequireFromString("10.00"), Odds: decimal.RequireFromString("2.35")},
		{ID: 2, UserID: "bob", MatchID: testMatchID, Winner: models.WinnerDraw,
			Amount: decimal.RequireFromString("5.00"), Odds: decimal.RequireFromString("3.40")},
		{ID: 3, UserID: "carol", MatchID: testMatchID, Winner: models.WinnerHomeTeam,
			Amount: decimal.RequireFromString("0.50"), Odds: decimal.RequireFromString("1.10")},
	}
}

func expectedSettlements(bets []*models.Bet, winner models.Winner, at time.Time) []models.Settlement {
	out := make([]models.Settlement, 0, len(bets))
	for _, b := range bets {
		s := models.Settlement{BetID: b.ID, UserID: b.UserID, MatchID: b.MatchID, Payout: decimal.Zero, SettledAt: at}
		if b.Winner == winner {
			s.IsWon = true
			s.Payout = b.Payout()
		}
		out = append(out, s)
	}
	return out
}

func newSettlementFixture() (*SettlementService, *MockBetRepository, *recordingPublisher) {
	bets := new(MockBetRepository)
	pub := &recordingPublisher{}
	svc := NewSettlementService(bets, pub, newTestLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, bets, pub
}

func TestSettleBetsForMatchPaysWinners(t *testing.T) {
	ctx := context.Background()
	svc, bets, pub := newSettlementFixture()

	open := openBets()
	settlements := expectedSettlements(open, models.WinnerHomeTeam, fixedNow)
	bets.On("GetOpenByMatch", ctx, testMatchID).Return(open, nil)
	bets.On("ApplySettlements", ctx, settlements).Return(settlements, nil).Once()

	report, err := svc.SettleBetsForMatch(ctx, testMatchID, models.WinnerHomeTeam)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Won)
	assert.Equal(t, 1, report.Lost)
	// 10.00 × 2.35 + 0.50 × 1.10
	assert.Equal(t, "24.05", report.TotalPayout.StringFixed(2))

	require.Equal(t, []events.Type{events.TypeBetsSettled}, pub.types())
	payload := pub.events[0].Payload.(events.BetsSettled)
	assert.Equal(t, "24.05", payload.TotalPayout)
	bets.AssertExpectations(t)
}

func TestSettleBetsForMatchCountsOnlyAppliedSettlements(t *testing.T) {
	ctx := context.Background()
	svc, bets, _ := newSettlementFixture()

	open := openBets()
	settlements := expectedSettlements(open, models.WinnerDraw, fixedNow)
	bets.On("GetOpenByMatch", ctx, testMatchID).Return(open, nil)
	// bob's bet was settled concurrently and is skipped by the repository
	bets.On("ApplySettlements", ctx, settlements).Return([]models.Settlement{settlements[0]}, nil)

	report, err := svc.SettleBetsForMatch(ctx, testMatchID, models.WinnerDraw)
	require.NoError(t, err)

	assert.Zero(t, report.Won)
	assert.Equal(t, 1, report.Lost)
	assert.True(t, report.TotalPayout.IsZero())
}

func TestSettleBetsForMatchNoOpenBets(t *testing.T) {
	ctx := context.Background()
	svc, bets, pub := newSettlementFixture()
	bets.On("GetOpenByMatch", ctx, testMatchID).Return([]*models.Bet{}, nil)

	report, err := svc.SettleBetsForMatch(ctx, testMatchID, models.WinnerAwayTeam)
	require.NoError(t, err)

	assert.Zero(t, report.Won+report.Lost)
	assert.Empty(t, pub.types())
	bets.AssertNotCalled(t, "ApplySettlements", mock.Anything, mock.Anything)
}

func TestSettleBetsForMatchRejectsUnknownWinner(t *testing.T) {
	svc, bets, _ := newSettlementFixture()

	_, err := svc.SettleBetsForMatch(context.Background(), testMatchID, models.Winner("NOBODY"))
	assert.Error(t, err)
	bets.AssertNotCalled(t, "GetOpenByMatch", mock.Anything, mock.Anything)
}

func TestSettleBetsForMatchApplyError(t *testing.T) {
	ctx := context.Background()
	svc, bets, pub := newSettlementFixture()
	bets.On("GetOpenByMatch", ctx, testMatchID).Return(openBets(), nil)
	bets.On("ApplySettlements", ctx, mock.Anything).Return([]models.Settlement(nil), assert.AnError)

	_, err := svc.SettleBetsForMatch(ctx, testMatchID, models.WinnerHomeTeam)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, pub.types())
}
