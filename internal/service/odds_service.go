package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/events"
	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/logger"
	"github.com/yourusername/betkick/internal/metrics"
	"github.com/yourusername/betkick/internal/models"
	"github.com/yourusername/betkick/internal/odds"
	"github.com/yourusername/betkick/internal/repository"
)

// OutcomeKind classifies the result of trying to price one match
type OutcomeKind string

const (
	// OutcomePriced means calculated odds were stored
	OutcomePriced OutcomeKind = "priced"
	// OutcomeInsufficientData means the match was abandoned for lack of statistics
	OutcomeInsufficientData OutcomeKind = "insufficient_data"
	// OutcomeQuotaRejected means the match was abandoned because the provider refused the data
	OutcomeQuotaRejected OutcomeKind = "quota_rejected"
	// OutcomeTransientFailure means nothing was stored and the match is retried next cycle
	OutcomeTransientFailure OutcomeKind = "transient_failure"
)

// Outcome is the result of pricing one match
type Outcome struct {
	Kind    OutcomeKind
	MatchID int
	Quote   *odds.Quote
	Err     error
}

// CycleReport aggregates the outcomes of one odds calculation cycle
type CycleReport struct {
	CycleID           string
	Pending           int
	Priced            int
	InsufficientData  int
	QuotaRejected     int
	TransientFailures int
	Outcomes          []Outcome
	Duration          time.Duration
}

func (r *CycleReport) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Kind {
	case OutcomePriced:
		r.Priced++
	case OutcomeInsufficientData:
		r.InsufficientData++
	case OutcomeQuotaRejected:
		r.QuotaRejected++
	case OutcomeTransientFailure:
		r.TransientFailures++
	}
}

// OddsServiceConfig tunes an odds calculation cycle
type OddsServiceConfig struct {
	BatchSize         int
	StatsWindowMonths int
}

// OddsService replaces provisional odds with calculated ones a few matches at a time
type OddsService struct {
	provider  footballdata.Provider
	matches   repository.MatchRepository
	standings repository.StandingRepository
	generator *odds.Generator
	publisher events.Publisher
	logger    *logger.PipelineLogger
	cfg       OddsServiceConfig
	now       func() time.Time
}

// NewOddsService creates a new odds service
func NewOddsService(
	cfg OddsServiceConfig,
	provider footballdata.Provider,
	matches repository.MatchRepository,
	standings repository.StandingRepository,
	generator *odds.Generator,
	publisher events.Publisher,
	baseLogger *logrus.Logger,
) *OddsService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 3
	}
	if cfg.StatsWindowMonths <= 0 {
		cfg.StatsWindowMonths = 23
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &OddsService{
		provider:  provider,
		matches:   matches,
		standings: standings,
		generator: generator,
		publisher: publisher,
		logger:    logger.NewPipelineLogger(baseLogger),
		cfg:       cfg,
		now:       time.Now,
	}
}

// RunCycle prices up to BatchSize pending matches. A report with Pending == 0
// means there is nothing left to price.
func (s *OddsService) RunCycle(ctx context.Context) (*CycleReport, error) {
	start := s.now()
	report := &CycleReport{CycleID: uuid.NewString()}

	pending, err := s.matches.GetMatchesWithProvisionalOdds(ctx, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches with provisional odds: %w", err)
	}
	report.Pending = len(pending)

	for _, match := range pending {
		if ctx.Err() != nil {
			break
		}
		report.add(s.priceMatch(ctx, report.CycleID, match))
	}

	report.Duration = s.now().Sub(start)
	s.logger.LogCycleSummary(report.CycleID, report.Priced, report.InsufficientData,
		report.QuotaRejected, report.TransientFailures, report.Duration)
	metrics.RecordOddsCycle(report.Duration.Seconds())

	if backlog, err := s.matches.CountProvisional(ctx); err == nil {
		metrics.SetProvisionalBacklog(backlog)
	}

	return report, nil
}

// PriceMatchByID prices a single stored match on demand, whatever its odds state
func (s *OddsService) PriceMatchByID(ctx context.Context, matchID int) (Outcome, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return s.priceMatch(ctx, uuid.NewString(), match), nil
}

func (s *OddsService) priceMatch(ctx context.Context, cycleID string, match *models.Match) Outcome {
	outcome := Outcome{MatchID: match.ID}

	data, err := s.fetchMatchData(ctx, match)
	if err != nil {
		outcome.Err = err
		if footballdata.IsQuotaRejected(err) {
			outcome.Kind = OutcomeQuotaRejected
			return s.abandon(ctx, cycleID, match, models.AbandonReasonQuotaRejected, outcome)
		}
		return s.transient(cycleID, outcome)
	}

	quote, err := s.generator.Generate(*data)
	if err != nil {
		outcome.Err = err
		if errors.Is(err, odds.ErrInsufficientData) {
			outcome.Kind = OutcomeInsufficientData
			return s.abandon(ctx, cycleID, match, models.AbandonReasonInsufficientData, outcome)
		}
		return s.transient(cycleID, outcome)
	}

	if err := s.matches.UpdateMatchOdds(ctx, match.ID, quote.MatchOdds(s.now())); err != nil {
		outcome.Err = fmt.Errorf("failed to store calculated odds: %w", err)
		return s.transient(cycleID, outcome)
	}

	outcome.Kind = OutcomePriced
	outcome.Quote = quote
	metrics.RecordOddsOutcome(string(outcome.Kind))
	s.logger.LogOddsCalculated(cycleID, match.ID, quote.HomeWinOdds, quote.DrawOdds, quote.AwayWinOdds)
	s.publish(ctx, events.New(events.TypeOddsCalculated, events.OddsCalculated{
		CycleID:     cycleID,
		MatchID:     match.ID,
		HomeWinOdds: quote.HomeWinOdds,
		AwayWinOdds: quote.AwayWinOdds,
		DrawOdds:    quote.DrawOdds,
	}))
	return outcome
}

// abandon keeps the placeholder prices and stops further attempts on the match
func (s *OddsService) abandon(ctx context.Context, cycleID string, match *models.Match, reason models.AbandonReason, outcome Outcome) Outcome {
	if err := s.matches.UpdateMatchOdds(ctx, match.ID, match.Odds.Abandoned(reason)); err != nil {
		outcome.Err = fmt.Errorf("failed to mark odds abandoned: %w", err)
		return s.transient(cycleID, outcome)
	}

	metrics.RecordOddsOutcome(string(outcome.Kind))
	s.logger.LogOddsAbandoned(cycleID, match.ID, string(reason), outcome.Err)
	s.publish(ctx, events.New(events.TypeOddsAbandoned, events.OddsAbandoned{
		CycleID: cycleID,
		MatchID: match.ID,
		Reason:  string(reason),
	}))
	return outcome
}

func (s *OddsService) transient(cycleID string, outcome Outcome) Outcome {
	outcome.Kind = OutcomeTransientFailure
	metrics.RecordOddsOutcome(string(outcome.Kind))
	s.logger.LogTransientFailure(cycleID, outcome.MatchID, outcome.Err)
	return outcome
}

func (s *OddsService) fetchMatchData(ctx context.Context, match *models.Match) (*odds.MatchData, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, -s.cfg.StatsWindowMonths, 0)

	home, err := s.provider.FetchTeamStats(ctx, match.HomeTeamID, from, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch home team stats: %w", err)
	}
	away, err := s.provider.FetchTeamStats(ctx, match.AwayTeamID, from, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch away team stats: %w", err)
	}
	h2h, err := s.provider.FetchHeadToHead(ctx, match.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch head-to-head: %w", err)
	}

	rows, err := s.standings.GetStandingsForTeamsInCompetition(ctx, match.CompetitionID, match.HomeTeamID, match.AwayTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}
	totalTeams := 0
	if len(rows) > 0 {
		totalTeams, err = s.standings.CountTeamsInCompetition(ctx, match.CompetitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to count teams in competition: %w", err)
		}
	}

	return &odds.MatchData{
		Match:      match,
		HomeTeam:   home,
		AwayTeam:   away,
		HeadToHead: h2h,
		Standings:  rows,
		TotalTeams: totalTeams,
	}, nil
}

func (s *OddsService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Warn("Failed to publish event")
	}
}
