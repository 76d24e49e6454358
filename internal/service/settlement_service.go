package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/events"
	"github.com/yourusername/betkick/internal/logger"
	"github.com/yourusername/betkick/internal/metrics"
	"github.com/yourusername/betkick/internal/models"
	"github.com/yourusername/betkick/internal/repository"
)

// BetSettler settles the open bets of a finished match
type BetSettler interface {
	SettleBetsForMatch(ctx context.Context, matchID int, winner models.Winner) (*SettlementReport, error)
}

// SettlementReport summarizes the bets settled for one match
type SettlementReport struct {
	MatchID     int
	Won         int
	Lost        int
	TotalPayout decimal.Decimal
}

// SettlementService pays out winning bets when a match result is final
type SettlementService struct {
	bets      repository.BetRepository
	publisher events.Publisher
	logger    *logger.PipelineLogger
	audit     *logger.AuditLogger
	now       func() time.Time
}

// NewSettlementService creates a new settlement service
func NewSettlementService(bets repository.BetRepository, publisher events.Publisher, baseLogger *logrus.Logger) *SettlementService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &SettlementService{
		bets:      bets,
		publisher: publisher,
		logger:    logger.NewPipelineLogger(baseLogger),
		audit:     logger.NewAuditLogger(baseLogger),
		now:       time.Now,
	}
}

// SettleBetsForMatch marks every open bet on the match won or lost and credits
// amount × odds for each winner. Bets already settled are left alone, so calling
// it twice for the same match is safe.
func (s *SettlementService) SettleBetsForMatch(ctx context.Context, matchID int, winner models.Winner) (*SettlementReport, error) {
	if !winner.Valid() {
		return nil, fmt.Errorf("cannot settle match %d with winner %q", matchID, winner)
	}

	open, err := s.bets.GetOpenByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open bets: %w", err)
	}

	report := &SettlementReport{MatchID: matchID, TotalPayout: decimal.Zero}
	if len(open) == 0 {
		return report, nil
	}

	settledAt := s.now().UTC()
	settlements := make([]models.Settlement, 0, len(open))
	for _, bet := range open {
		won := bet.Winner == winner
		payout := decimal.Zero
		if won {
			payout = bet.Payout()
		}
		settlements = append(settlements, models.Settlement{
			BetID:     bet.ID,
			UserID:    bet.UserID,
			MatchID:   matchID,
			IsWon:     won,
			Payout:    payout,
			SettledAt: settledAt,
		})
	}

	applied, err := s.bets.ApplySettlements(ctx, settlements)
	if err != nil {
		return nil, fmt.Errorf("failed to apply settlements for match %d: %w", matchID, err)
	}

	for _, st := range applied {
		s.audit.LogBetSettled(st.BetID, st.UserID, st.MatchID, st.IsWon, st.Payout.StringFixed(2), st.SettledAt)
		if st.IsWon {
			report.Won++
			report.TotalPayout = report.TotalPayout.Add(st.Payout)
			s.audit.LogBalanceCredited(st.UserID, st.BetID, st.Payout.StringFixed(2))
		} else {
			report.Lost++
		}
	}

	metrics.RecordBetsSettled(report.Won, report.Lost)
	s.logger.LogBetsSettled(matchID, string(winner), report.Won, report.Lost, report.TotalPayout.StringFixed(2))

	if err := s.publisher.Publish(ctx, events.New(events.TypeBetsSettled, events.BetsSettled{
		MatchID:     matchID,
		Won:         report.Won,
		Lost:        report.Lost,
		TotalPayout: report.TotalPayout.StringFixed(2),
	})); err != nil {
		s.logger.WithError(err).Warn("Failed to publish bets settled event")
	}

	return report, nil
}
