package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betkick/internal/database"
	"github.com/yourusername/betkick/internal/models"
)

var standingCopyColumns = []string{
	"competition_id", "stage", "group_name", "team_id", "position", "played_games",
	"won", "draw", "lost", "points", "goals_for", "goals_against", "goal_difference",
}

// PostgresStandingRepository implements StandingRepository for PostgreSQL
type PostgresStandingRepository struct {
	db *database.DB
}

// NewPostgresStandingRepository creates a new standings repository
func NewPostgresStandingRepository(db *database.DB) StandingRepository {
	return &PostgresStandingRepository{db: db}
}

// GetStandingsForTeamsInCompetition returns the table rows of both teams in a competition
func (r *PostgresStandingRepository) GetStandingsForTeamsInCompetition(ctx context.Context, competitionID, homeTeamID, awayTeamID int) ([]*models.Standing, error) {
	query := `
		SELECT id, competition_id, stage, group_name, team_id, position, played_games,
		       won, draw, lost, points, goals_for, goals_against, goal_difference, created_at
		FROM standings
		WHERE competition_id = $1 AND team_id IN ($2, $3)
		ORDER BY position ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, competitionID, homeTeamID, awayTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for teams: %w", err)
	}
	defer rows.Close()

	var standings []*models.Standing
	for rows.Next() {
		s := &models.Standing{}
		err := rows.Scan(
			&s.ID, &s.CompetitionID, &s.Stage, &s.Group, &s.TeamID, &s.Position, &s.PlayedGames,
			&s.Won, &s.Draw, &s.Lost, &s.Points, &s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}

// CountTeamsInCompetition returns the number of table rows stored for a competition
func (r *PostgresStandingRepository) CountTeamsInCompetition(ctx context.Context, competitionID int) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT COUNT(*) FROM standings WHERE competition_id = $1`, competitionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams in competition: %w", err)
	}
	return count, nil
}

// ReplaceAll deletes every stored standing and copies in the new rows atomically
func (r *PostgresStandingRepository) ReplaceAll(ctx context.Context, standings []*models.Standing) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM standings`); err != nil {
			return fmt.Errorf("failed to clear standings: %w", err)
		}

		copyCount, err := tx.CopyFrom(ctx,
			pgx.Identifier{"standings"},
			standingCopyColumns,
			pgx.CopyFromSlice(len(standings), func(i int) ([]any, error) {
				s := standings[i]
				return []any{
					s.CompetitionID, s.Stage, s.Group, s.TeamID, s.Position, s.PlayedGames,
					s.Won, s.Draw, s.Lost, s.Points, s.GoalsFor, s.GoalsAgainst, s.GoalDifference,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy standings: %w", err)
		}

		if copyCount != int64(len(standings)) {
			return fmt.Errorf("copied %d of %d standings", copyCount, len(standings))
		}

		return nil
	})
}
