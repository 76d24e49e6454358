// Package repository implements hand-written SQL persistence over pgx.
package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/betkick/internal/database"
	"github.com/yourusername/betkick/internal/models"
)

const uniqueViolation = "23505"

// Repositories holds all repository implementations
type Repositories struct {
	Match       MatchRepository
	Standing    StandingRepository
	Team        TeamRepository
	Competition CompetitionRepository
	Bet         BetRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:       NewPostgresMatchRepository(db),
		Standing:    NewPostgresStandingRepository(db),
		Team:        NewPostgresTeamRepository(db),
		Competition: NewPostgresCompetitionRepository(db),
		Bet:         NewPostgresBetRepository(db),
	}, nil
}

// mapError translates driver errors into model sentinels
func mapError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("failed to %s: %w", op, models.ErrDuplicateKey)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
