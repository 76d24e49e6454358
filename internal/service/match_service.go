package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/events"
	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/models"
	"github.com/yourusername/betkick/internal/repository"
)

// SyncReport counts what a match sync did
type SyncReport struct {
	Fetched  int
	Skipped  int
	Created  int
	Updated  int
	Finished int
}

// MatchService keeps stored matches in step with the provider
type MatchService struct {
	provider     footballdata.Provider
	matches      repository.MatchRepository
	teams        repository.TeamRepository
	competitions repository.CompetitionRepository
	settler      BetSettler
	publisher    events.Publisher
	logger       *logrus.Entry

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewMatchService creates a new match service
func NewMatchService(
	provider footballdata.Provider,
	matches repository.MatchRepository,
	teams repository.TeamRepository,
	competitions repository.CompetitionRepository,
	settler BetSettler,
	publisher events.Publisher,
	logger *logrus.Logger,
) *MatchService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &MatchService{
		provider:     provider,
		matches:      matches,
		teams:        teams,
		competitions: competitions,
		settler:      settler,
		publisher:    publisher,
		logger:       logger.WithField("component", "match_sync"),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchAndSaveMatches stores the matches kicking off between from and to. New
// matches get provisional odds. Stored matches are only refreshed when saveOrUpdate is set.
func (s *MatchService) FetchAndSaveMatches(ctx context.Context, from, to time.Time, saveOrUpdate bool) (*SyncReport, error) {
	payloads, err := s.provider.FetchMatches(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}

	report := &SyncReport{Fetched: len(payloads)}
	incoming := s.convert(payloads, report)
	if len(incoming) == 0 {
		return report, nil
	}

	if err := s.saveReferences(ctx, incoming); err != nil {
		return nil, err
	}

	stored, err := s.matches.GetByIDs(ctx, matchIDs(incoming))
	if err != nil {
		return nil, fmt.Errorf("failed to load stored matches: %w", err)
	}

	for _, m := range incoming {
		existing, ok := stored[m.ID]
		if !ok {
			m.Odds = s.provisionalOdds()
			if err := s.matches.Create(ctx, m); err != nil {
				return report, fmt.Errorf("failed to save match %d: %w", m.ID, err)
			}
			report.Created++
			continue
		}

		if !saveOrUpdate {
			report.Skipped++
			continue
		}
		finished, err := s.reconcile(ctx, existing, m)
		if err != nil {
			return report, err
		}
		report.Updated++
		if finished {
			report.Finished++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"from":    from.Format(time.DateOnly),
		"to":      to.Format(time.DateOnly),
		"fetched": report.Fetched,
		"created": report.Created,
		"updated": report.Updated,
		"skipped": report.Skipped,
	}).Info("Matches saved")

	return report, nil
}

// FetchAndUpdateMatches refreshes score, status, winner, duration and kickoff of
// today's stored matches. Bets are settled before a newly final match is persisted,
// so a settlement failure leaves the match to be retried on the next update.
func (s *MatchService) FetchAndUpdateMatches(ctx context.Context) (*SyncReport, error) {
	payloads, err := s.provider.FetchTodayMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today's matches: %w", err)
	}

	report := &SyncReport{Fetched: len(payloads)}
	incoming := s.convert(payloads, report)
	if len(incoming) == 0 {
		return report, nil
	}

	stored, err := s.matches.GetByIDs(ctx, matchIDs(incoming))
	if err != nil {
		return nil, fmt.Errorf("failed to load stored matches: %w", err)
	}

	for _, m := range incoming {
		existing, ok := stored[m.ID]
		if !ok {
			report.Skipped++
			continue
		}
		finished, err := s.reconcile(ctx, existing, m)
		if err != nil {
			s.logger.WithError(err).WithField("match_id", m.ID).Error("Failed to update match")
			continue
		}
		report.Updated++
		if finished {
			report.Finished++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"fetched":  report.Fetched,
		"updated":  report.Updated,
		"finished": report.Finished,
	}).Debug("Today's matches updated")

	return report, nil
}

// reconcile applies the provider's result fields to a stored match and reports
// whether this update closed the match
func (s *MatchService) reconcile(ctx context.Context, stored, updated *models.Match) (bool, error) {
	finishing := stored.FinishesWith(updated)
	stored.ApplyResult(updated)

	if finishing {
		if stored.Winner == nil {
			s.logger.WithField("match_id", stored.ID).Warn("Match is final without a winner, bets left open")
		} else if _, err := s.settler.SettleBetsForMatch(ctx, stored.ID, *stored.Winner); err != nil {
			return false, fmt.Errorf("failed to settle bets for match %d: %w", stored.ID, err)
		}
	}

	if err := s.matches.UpdateResult(ctx, stored); err != nil {
		return false, fmt.Errorf("failed to update match %d: %w", stored.ID, err)
	}

	if finishing {
		winner := ""
		if stored.Winner != nil {
			winner = string(*stored.Winner)
		}
		if err := s.publisher.Publish(ctx, events.New(events.TypeMatchFinished, events.MatchFinished{
			MatchID: stored.ID,
			Status:  string(stored.Status),
			Winner:  winner,
		})); err != nil {
			s.logger.WithError(err).Warn("Failed to publish match finished event")
		}
	}

	return finishing, nil
}

func (s *MatchService) convert(payloads []footballdata.MatchPayload, report *SyncReport) []*models.Match {
	matches := make([]*models.Match, 0, len(payloads))
	for _, p := range payloads {
		m, ok := footballdata.ToMatch(p)
		if !ok || m.Competition == nil {
			report.Skipped++
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

func (s *MatchService) saveReferences(ctx context.Context, matches []*models.Match) error {
	seenTeams := make(map[int]bool)
	seenComps := make(map[int]bool)
	var teams []*models.Team
	var comps []*models.Competition

	for _, m := range matches {
		for _, t := range []*models.Team{m.HomeTeam, m.AwayTeam} {
			if t != nil && !seenTeams[t.ID] {
				seenTeams[t.ID] = true
				teams = append(teams, t)
			}
		}
		if !seenComps[m.Competition.ID] {
			seenComps[m.Competition.ID] = true
			comps = append(comps, m.Competition)
		}
	}

	if err := s.competitions.Upsert(ctx, comps); err != nil {
		return err
	}
	return s.teams.Upsert(ctx, teams)
}

func (s *MatchService) provisionalOdds() models.MatchOdds {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return models.NewProvisionalOdds(s.rng)
}

func matchIDs(matches []*models.Match) []int {
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}
