package repository

import (
	"context"
	"time"

	"github.com/yourusername/betkick/internal/models"
)

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Match, error)
	// UpdateResult writes the provider-owned fields: score, status, winner, duration and kickoff
	UpdateResult(ctx context.Context, match *models.Match) error
	// GetMatchesWithProvisionalOdds returns matches still waiting for a price, earliest kickoff first
	GetMatchesWithProvisionalOdds(ctx context.Context, limit int) ([]*models.Match, error)
	CountProvisional(ctx context.Context) (int, error)
	UpdateMatchOdds(ctx context.Context, matchID int, odds models.MatchOdds) error
	// ExistsBetween reports whether any match kicks off in [from, to)
	ExistsBetween(ctx context.Context, from, to time.Time) (bool, error)
}

// StandingRepository defines the interface for standings data access
type StandingRepository interface {
	GetStandingsForTeamsInCompetition(ctx context.Context, competitionID, homeTeamID, awayTeamID int) ([]*models.Standing, error)
	CountTeamsInCompetition(ctx context.Context, competitionID int) (int, error)
	// ReplaceAll swaps the whole standings table for rows in a single transaction
	ReplaceAll(ctx context.Context, rows []*models.Standing) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Upsert(ctx context.Context, teams []*models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
}

// CompetitionRepository defines the interface for competition data access
type CompetitionRepository interface {
	Upsert(ctx context.Context, competitions []*models.Competition) error
	GetAll(ctx context.Context) ([]*models.Competition, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetOpenByMatch(ctx context.Context, matchID int) ([]*models.Bet, error)
	// ApplySettlements marks bets settled and credits winning payouts in one transaction.
	// Bets settled by someone else in the meantime are skipped; the applied settlements are returned.
	ApplySettlements(ctx context.Context, settlements []models.Settlement) ([]models.Settlement, error)
}
