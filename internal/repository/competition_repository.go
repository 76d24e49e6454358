package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betkick/internal/database"
	"github.com/yourusername/betkick/internal/models"
)

// PostgresCompetitionRepository implements CompetitionRepository for PostgreSQL
type PostgresCompetitionRepository struct {
	db *database.DB
}

// NewPostgresCompetitionRepository creates a new competition repository
func NewPostgresCompetitionRepository(db *database.DB) CompetitionRepository {
	return &PostgresCompetitionRepository{db: db}
}

// Upsert inserts competitions or refreshes their details
func (r *PostgresCompetitionRepository) Upsert(ctx context.Context, competitions []*models.Competition) error {
	if len(competitions) == 0 {
		return nil
	}

	query := `
		INSERT INTO competitions (id, code, name, type, emblem)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code, name = EXCLUDED.name, type = EXCLUDED.type,
			emblem = EXCLUDED.emblem, updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, c := range competitions {
		batch.Queue(query, c.ID, c.Code, c.Name, c.Type, c.Emblem)
	}

	if err := r.db.GetPool().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert competitions: %w", err)
	}

	return nil
}

// GetAll returns every stored competition ordered by ID
func (r *PostgresCompetitionRepository) GetAll(ctx context.Context) ([]*models.Competition, error) {
	rows, err := r.db.GetPool().Query(ctx,
		`SELECT id, code, name, type, emblem, updated_at FROM competitions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitions: %w", err)
	}
	defer rows.Close()

	var competitions []*models.Competition
	for rows.Next() {
		c := &models.Competition{}
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Type, &c.Emblem, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan competition: %w", err)
		}
		competitions = append(competitions, c)
	}

	return competitions, rows.Err()
}
