package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransactionRollsBack(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "INSERT INTO competitions (id, name) VALUES (1, 'Premier League')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM competitions").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransactionCommits(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "INSERT INTO competitions (id, name) VALUES (2021, 'Premier League')")
		return err
	})
	require.NoError(t, err)

	var name string
	require.NoError(t, db.GetPool().QueryRow(ctx, "SELECT name FROM competitions WHERE id = 2021").Scan(&name))
	assert.Equal(t, "Premier League", name)
	assert.NoError(t, db.HealthCheck(ctx))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := SetupTestDB(t)
	assert.NoError(t, db.EnsureSchema(context.Background()))
}
