package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/models"
	"github.com/yourusername/betkick/internal/repository"
)

// StandingsService refreshes competitions and their tables. Standings are fetched
// in two batches a minute apart to stay under the provider's request rate, and the
// table is replaced once both batches are in.
type StandingsService struct {
	provider     footballdata.Provider
	competitions repository.CompetitionRepository
	teams        repository.TeamRepository
	standings    repository.StandingRepository
	logger       *logrus.Entry

	mu           sync.Mutex
	pending      []*models.Standing
	pendingTeams []*models.Team

	// firstBatchErr is why the held rows are incomplete, nil once the first batch finished cleanly
	firstBatchErr error
}

// ErrFirstBatchMissing is returned by RefreshSecondBatch when no complete first batch is held
var ErrFirstBatchMissing = errors.New("first standings batch not fetched")

// NewStandingsService creates a new standings service
func NewStandingsService(
	provider footballdata.Provider,
	competitions repository.CompetitionRepository,
	teams repository.TeamRepository,
	standings repository.StandingRepository,
	logger *logrus.Logger,
) *StandingsService {
	return &StandingsService{
		provider:     provider,
		competitions: competitions,
		teams:        teams,
		standings:    standings,
		logger:       logger.WithField("component", "standings"),

		firstBatchErr: ErrFirstBatchMissing,
	}
}

// SaveCompetitions stores the competitions available to the API plan
func (s *StandingsService) SaveCompetitions(ctx context.Context) (int, error) {
	refs, err := s.provider.FetchCompetitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch competitions: %w", err)
	}

	comps := make([]*models.Competition, 0, len(refs))
	for _, ref := range refs {
		if c := footballdata.ToCompetition(ref); c != nil {
			comps = append(comps, c)
		}
	}

	if err := s.competitions.Upsert(ctx, comps); err != nil {
		return 0, err
	}

	s.logger.WithField("count", len(comps)).Info("Competitions saved")
	return len(comps), nil
}

// RefreshFirstBatch fetches the tables of the first half of stored competitions
// and holds them until the second batch completes
func (s *StandingsService) RefreshFirstBatch(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(ErrFirstBatchMissing)

	first, _, err := s.splitCompetitions(ctx)
	if err != nil {
		s.firstBatchErr = err
		return 0, err
	}

	fetched, err := s.fetchBatch(ctx, first)
	if err != nil {
		s.reset(err)
		return fetched, err
	}
	s.firstBatchErr = nil
	return fetched, nil
}

// RefreshSecondBatch fetches the remaining tables and replaces every stored standing
// with both batches in one transaction. The stored table is left alone unless every
// competition of both batches was either fetched or refused by the plan.
func (s *StandingsService) RefreshSecondBatch(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reset(ErrFirstBatchMissing)

	if s.firstBatchErr != nil {
		s.logger.WithError(s.firstBatchErr).Warn("First standings batch incomplete, keeping stored standings")
		return 0, fmt.Errorf("standings refresh skipped: %w", s.firstBatchErr)
	}

	_, second, err := s.splitCompetitions(ctx)
	if err != nil {
		return 0, err
	}

	fetched, err := s.fetchBatch(ctx, second)
	if err != nil {
		s.logger.WithError(err).Warn("Second standings batch incomplete, keeping stored standings")
		return 0, err
	}

	if len(s.pending) == 0 {
		s.logger.Warn("No standings fetched, keeping stored standings")
		return 0, nil
	}

	if err := s.teams.Upsert(ctx, s.pendingTeams); err != nil {
		return 0, err
	}
	if err := s.standings.ReplaceAll(ctx, s.pending); err != nil {
		return 0, err
	}

	saved := len(s.pending)
	s.logger.WithFields(logrus.Fields{
		"rows":         saved,
		"second_batch": fetched,
	}).Info("Standings replaced")
	return saved, nil
}

// PendingRows returns the number of rows held from the first batch
func (s *StandingsService) PendingRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// reset drops the held rows. Callers hold s.mu.
func (s *StandingsService) reset(reason error) {
	s.pending = nil
	s.pendingTeams = nil
	s.firstBatchErr = reason
}

func (s *StandingsService) splitCompetitions(ctx context.Context) (first, second []*models.Competition, err error) {
	comps, err := s.competitions.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load competitions: %w", err)
	}
	half := (len(comps) + 1) / 2
	return comps[:half], comps[half:], nil
}

// fetchBatch appends the tables of comps to the pending rows. Competitions the plan
// does not cover are skipped; a transient failure stops the batch. Callers hold s.mu.
func (s *StandingsService) fetchBatch(ctx context.Context, comps []*models.Competition) (int, error) {
	fetched := 0
	for _, c := range comps {
		payload, err := s.provider.FetchStandings(ctx, c.ID)
		if err != nil {
			if footballdata.IsTransient(err) || ctx.Err() != nil {
				return fetched, fmt.Errorf("failed to fetch standings for competition %d: %w", c.ID, err)
			}
			s.logger.WithError(err).WithField("competition_id", c.ID).Warn("Skipping competition standings")
			continue
		}

		rows := footballdata.ToStandings(payload)
		for _, row := range rows {
			row.CompetitionID = c.ID
		}
		s.pending = append(s.pending, rows...)
		s.pendingTeams = append(s.pendingTeams, footballdata.StandingTeams(payload)...)
		fetched++
	}
	return fetched, nil
}
