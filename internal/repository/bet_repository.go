package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betkick/internal/database"
	"github.com/yourusername/betkick/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// Create inserts a new bet and sets its generated ID
func (b *PostgresBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (user_id, match_id, winner, amount, odds, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := b.db.GetPool().QueryRow(ctx, query,
		bet.UserID, bet.MatchID, string(bet.Winner), bet.Amount, bet.Odds, bet.PlacedAt.UTC(),
	).Scan(&bet.ID)
	if err != nil {
		return mapError(err, "create bet")
	}

	return nil
}

// GetOpenByMatch retrieves the unsettled bets on a match
func (b *PostgresBetRepository) GetOpenByMatch(ctx context.Context, matchID int) ([]*models.Bet, error) {
	query := `
		SELECT id, user_id, match_id, winner, amount, odds, is_won, placed_at, settled_at
		FROM bets
		WHERE match_id = $1 AND is_won IS NULL
		ORDER BY placed_at ASC, id ASC
	`

	rows, err := b.db.GetPool().Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet := &models.Bet{}
		var winner string
		err := rows.Scan(
			&bet.ID, &bet.UserID, &bet.MatchID, &winner, &bet.Amount, &bet.Odds,
			&bet.IsWon, &bet.PlacedAt, &bet.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bet.Winner = models.Winner(winner)
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}

// ApplySettlements settles bets and credits won payouts within one transaction
func (b *PostgresBetRepository) ApplySettlements(ctx context.Context, settlements []models.Settlement) ([]models.Settlement, error) {
	if len(settlements) == 0 {
		return nil, nil
	}

	var applied []models.Settlement
	err := b.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		applied = applied[:0]
		for _, s := range settlements {
			tag, err := tx.Exec(ctx,
				`UPDATE bets SET is_won = $2, settled_at = $3 WHERE id = $1 AND is_won IS NULL`,
				s.BetID, s.IsWon, s.SettledAt.UTC(),
			)
			if err != nil {
				return fmt.Errorf("failed to settle bet %d: %w", s.BetID, err)
			}
			if tag.RowsAffected() == 0 {
				continue
			}

			if s.IsWon && s.Payout.IsPositive() {
				tag, err := tx.Exec(ctx,
					`UPDATE users SET account_balance = account_balance + $2, updated_at = NOW() WHERE id = $1`,
					s.UserID, s.Payout,
				)
				if err != nil {
					return fmt.Errorf("failed to credit user %s: %w", s.UserID, err)
				}
				if tag.RowsAffected() == 0 {
					return fmt.Errorf("failed to credit user %s: %w", s.UserID, models.ErrNotFound)
				}
			}
			applied = append(applied, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}
