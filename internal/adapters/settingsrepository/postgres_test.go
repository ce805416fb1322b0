package settingsrepository

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Amund211/clientboard/internal/adapters/database"
	"github.com/Amund211/clientboard/internal/domain"
)

func newPostgres(t *testing.T, db *sqlx.DB, schemaSuffix string, nowFunc func() time.Time) *Postgres {
	require.NotEmpty(t, schemaSuffix, "schemaSuffix must not be empty")
	schema := fmt.Sprintf("settings_repo_test_%s", schemaSuffix)

	db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schema)))

	migrator := database.NewDatabaseMigrator(db, slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	require.NoError(t, migrator.Migrate(t.Context(), schema))

	return NewPostgres(db, schema, nowFunc)
}

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}
	t.Parallel()

	db, err := database.NewPostgresDatabase(database.LOCAL_CONNECTION_STRING)
	require.NoError(t, err)

	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }

	t.Run("no settings stored", func(t *testing.T) {
		t.Parallel()

		repo := newPostgres(t, db, "empty", nowFunc)

		_, err := repo.GetSettings(t.Context())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store and overwrite", func(t *testing.T) {
		t.Parallel()

		repo := newPostgres(t, db, "store", nowFunc)

		stored, err := repo.StoreSettings(t.Context(), domain.Settings{
			TeamID:          "1",
			SpaceID:         "2",
			ListID:          "3",
			RefreshInterval: 30 * time.Minute,
		})
		require.NoError(t, err)
		require.Equal(t, "3", stored.ListID)
		require.Equal(t, 30*time.Minute, stored.RefreshInterval)
		require.WithinDuration(t, now, stored.UpdatedAt, time.Millisecond)

		stored, err = repo.StoreSettings(t.Context(), domain.Settings{
			ListID:          "4",
			RefreshInterval: time.Minute,
		})
		require.NoError(t, err)

		got, err := repo.GetSettings(t.Context())
		require.NoError(t, err)
		require.Equal(t, "", got.TeamID)
		require.Equal(t, "4", got.ListID)
		require.Equal(t, time.Minute, got.RefreshInterval)
		require.Equal(t, stored.ListID, got.ListID)
	})

	t.Run("invalid settings are rejected", func(t *testing.T) {
		t.Parallel()

		repo := newPostgres(t, db, "invalid", nowFunc)

		_, err := repo.StoreSettings(t.Context(), domain.Settings{ListID: "3"})
		require.ErrorIs(t, err, domain.ErrInvalidSettings)

		_, err = repo.GetSettings(t.Context())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
