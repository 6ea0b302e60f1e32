//go:build integration

package repository_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/locator/internal/database"
	"github.com/UnknownOlympus/locator/internal/filter"
	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/UnknownOlympus/locator/internal/repository"
	"github.com/UnknownOlympus/locator/internal/search"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const seed = `
	INSERT INTO location_categories (id, name) VALUES (1, 'Cafe'), (2, 'Bakery'), (3, 'Diner');
	INSERT INTO locations (id, title, lat, lng, show_in_locator, featured) VALUES
		(1, 'No coords', 0, 0, true, false),
		(2, 'Hidden', 10, 10, false, false),
		(3, 'Bean', 20, 20, true, true),
		(4, 'Crust', 5, 5, true, false),
		(5, 'Grill', 5, 6, true, false);
	INSERT INTO location_category_links (location_id, category_id) VALUES (3, 1), (4, 1), (4, 2), (5, 3);
	INSERT INTO locators (id, title, unit) VALUES (1, 'All', 'km'), (2, 'Broken', 'yd');
	INSERT INTO locator_categories (locator_id, category_id) VALUES (1, 1), (1, 2);
`

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := t.Context()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("locator"),
		postgres.WithUsername("locator"),
		postgres.WithPassword("locator"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	tc.CleanupContainer(t, container)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool, slog.Default()))
	_, err = pool.Exec(ctx, seed)
	require.NoError(t, err)

	return pool
}

func TestRepositoryIntegration(t *testing.T) {
	pool := setupPool(t)
	repo := repository.NewRepository(pool, slog.Default())
	ctx := t.Context()

	t.Run("success - load and filter", func(t *testing.T) {
		view, snapshot, err := repo.Load(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, models.UnitKilometers, view.Unit)
		assert.True(t, view.AutoGeocode)
		assert.Equal(t, []models.Category{{ID: 2, Name: "Bakery"}, {ID: 1, Name: "Cafe"}}, view.Categories)
		require.Len(t, snapshot.Locations, 5)
		assert.Equal(t, []int64{1, 2}, snapshot.Locations[3].CategoryIDs)
		assert.Empty(t, snapshot.Locations[0].CategoryIDs)

		found, err := filter.Locations(snapshot.Locations, filter.Request{
			MatchAny: search.ResolveSearchCategories(view.Categories),
		})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, int64(3), found[0].ID)
		assert.Equal(t, int64(4), found[1].ID)
	})

	t.Run("error - malformed unit", func(t *testing.T) {
		_, _, err := repo.Load(ctx, 2)
		require.ErrorIs(t, err, models.ErrInvalidConfiguration)
	})

	t.Run("error - unknown locator", func(t *testing.T) {
		_, _, err := repo.Load(ctx, 99)
		require.ErrorIs(t, err, models.ErrLocatorNotFound)
	})

	t.Run("success - ping", func(t *testing.T) {
		require.NoError(t, repo.Ping(ctx))
	})
}
