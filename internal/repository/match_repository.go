package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betkick/internal/database"
	"github.com/yourusername/betkick/internal/models"
)

const matchColumns = `
	m.id, m.competition_id, m.home_team_id, m.away_team_id, m.utc_date, m.status, m.winner, m.duration,
	m.score_home, m.score_away, m.penalties_home, m.penalties_away,
	m.home_win_odds, m.away_win_odds, m.draw_odds, m.odds_provisional, m.odds_state,
	m.odds_abandon_reason, m.odds_calculated_at, m.created_at, m.updated_at,
	hteam.short_name, ateam.short_name`

const matchFrom = `
	FROM matches m
	JOIN teams hteam ON hteam.id = m.home_team_id
	JOIN teams ateam ON ateam.id = m.away_team_id`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a new match together with its initial odds
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, competition_id, home_team_id, away_team_id, utc_date, status, winner, duration,
		                     score_home, score_away, penalties_home, penalties_away,
		                     home_win_odds, away_win_odds, draw_odds, odds_provisional, odds_state,
		                     odds_abandon_reason, odds_calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	o := match.Odds
	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.CompetitionID, match.HomeTeamID, match.AwayTeamID, match.UTCDate.UTC(),
		string(match.Status), winnerArg(match.Winner), string(match.Duration),
		match.Score.Home, match.Score.Away, match.Score.PenaltiesHome, match.Score.PenaltiesAway,
		o.HomeWinOdds, o.AwayWinOdds, o.DrawOdds, o.IsProvisional, string(o.State),
		reasonArg(o.AbandonReason), o.CalculatedAt,
	)
	if err != nil {
		return mapError(err, "create match")
	}

	return nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + matchFrom + ` WHERE m.id = $1`

	match, err := scanMatch(r.db.GetPool().QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "get match")
	}

	return match, nil
}

// GetByIDs retrieves the stored subset of the given matches keyed by ID
func (r *PostgresMatchRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Match, error) {
	found := make(map[int]*models.Match, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + matchColumns + matchFrom + ` WHERE m.id = ANY($1)`

	rows, err := r.db.GetPool().Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		found[match.ID] = match
	}

	return found, rows.Err()
}

// UpdateResult updates the provider-owned result fields of a match
func (r *PostgresMatchRepository) UpdateResult(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			utc_date = $2, status = $3, winner = $4, duration = $5,
			score_home = $6, score_away = $7, penalties_home = $8, penalties_away = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.UTCDate.UTC(), string(match.Status), winnerArg(match.Winner), string(match.Duration),
		match.Score.Home, match.Score.Away, match.Score.PenaltiesHome, match.Score.PenaltiesAway,
	)
	if err != nil {
		return fmt.Errorf("failed to update match result: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetMatchesWithProvisionalOdds returns up to limit matches in the provisional odds state
func (r *PostgresMatchRepository) GetMatchesWithProvisionalOdds(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + matchFrom + `
		WHERE m.odds_state = 'provisional'
		ORDER BY m.utc_date ASC, m.id ASC
		LIMIT $1`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query provisional matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// CountProvisional returns the number of matches waiting for a price
func (r *PostgresMatchRepository) CountProvisional(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM matches WHERE odds_state = 'provisional'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count provisional matches: %w", err)
	}
	return count, nil
}

// UpdateMatchOdds stores the odds of a match
func (r *PostgresMatchRepository) UpdateMatchOdds(ctx context.Context, matchID int, odds models.MatchOdds) error {
	query := `
		UPDATE matches SET
			home_win_odds = $2, away_win_odds = $3, draw_odds = $4, odds_provisional = $5,
			odds_state = $6, odds_abandon_reason = $7, odds_calculated_at = $8, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		matchID, odds.HomeWinOdds, odds.AwayWinOdds, odds.DrawOdds, odds.IsProvisional,
		string(odds.State), reasonArg(odds.AbandonReason), odds.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update match odds: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ExistsBetween reports whether any stored match kicks off in [from, to)
func (r *PostgresMatchRepository) ExistsBetween(ctx context.Context, from, to time.Time) (bool, error) {
	var exists bool
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE utc_date >= $1 AND utc_date < $2)`,
		from.UTC(), to.UTC(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check matches between dates: %w", err)
	}
	return exists, nil
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var (
		m                       models.Match
		status, duration, state string
		winner, reason          *string
		homeShort, awayShort    string
	)
	err := row.Scan(
		&m.ID, &m.CompetitionID, &m.HomeTeamID, &m.AwayTeamID, &m.UTCDate, &status, &winner, &duration,
		&m.Score.Home, &m.Score.Away, &m.Score.PenaltiesHome, &m.Score.PenaltiesAway,
		&m.Odds.HomeWinOdds, &m.Odds.AwayWinOdds, &m.Odds.DrawOdds, &m.Odds.IsProvisional, &state,
		&reason, &m.Odds.CalculatedAt, &m.CreatedAt, &m.UpdatedAt,
		&homeShort, &awayShort,
	)
	if err != nil {
		return nil, err
	}

	m.Status = models.Status(status)
	m.Duration = models.Duration(duration)
	m.Odds.State = models.OddsState(state)
	if winner != nil {
		w := models.Winner(*winner)
		m.Winner = &w
	}
	if reason != nil {
		ar := models.AbandonReason(*reason)
		m.Odds.AbandonReason = &ar
	}
	m.HomeTeam = &models.Team{ID: m.HomeTeamID, ShortName: homeShort}
	m.AwayTeam = &models.Team{ID: m.AwayTeamID, ShortName: awayShort}

	return &m, nil
}

func winnerArg(w *models.Winner) *string {
	if w == nil {
		return nil
	}
	s := string(*w)
	return &s
}

func reasonArg(r *models.AbandonReason) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
