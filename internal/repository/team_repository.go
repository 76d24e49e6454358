package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betkick/internal/database"
	"github.com/yourusername/betkick/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Upsert inserts teams or refreshes their names and crest
func (r *PostgresTeamRepository) Upsert(ctx context.Context, teams []*models.Team) error {
	if len(teams) == 0 {
		return nil
	}

	query := `
		INSERT INTO teams (id, name, short_name, tla, crest)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, short_name = EXCLUDED.short_name,
			tla = EXCLUDED.tla, crest = EXCLUDED.crest, updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, t := range teams {
		batch.Queue(query, t.ID, t.Name, t.ShortName, t.TLA, t.Crest)
	}

	if err := r.db.GetPool().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert teams: %w", err)
	}

	return nil
}

// GetByID retrieves a team by ID
func (r *PostgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, name, short_name, tla, crest, updated_at FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.ShortName, &team.TLA, &team.Crest, &team.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "get team")
	}

	return team, nil
}
