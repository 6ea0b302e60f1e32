package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	locatorQuery = `
		SELECT id, title, auto_geocode, modal_window, unit
		FROM locators
		WHERE id = $1;
	`
	locatorCategoriesQuery = `
		SELECT c.id, c.name
		FROM locator_categories lc
		JOIN location_categories c ON c.id = lc.category_id
		WHERE lc.locator_id = $1
		ORDER BY c.name, c.id;
	`
	categoriesQuery = `
		SELECT id, name
		FROM location_categories
		ORDER BY name, id;
	`
	locationsQuery = `
		SELECT
			l.id, l.title, l.address, l.suburb, l.state, l.postcode, l.country,
			l.website, l.phone, l.email, l.lat, l.lng, l.featured, l.show_in_locator,
			COALESCE(
				array_agg(lc.category_id ORDER BY lc.category_id) FILTER (WHERE lc.category_id IS NOT NULL),
				'{}'
			)::bigint[]
		FROM locations l
		LEFT JOIN location_category_links lc ON lc.location_id = l.id
		GROUP BY l.id
		ORDER BY l.id;
	`
)

// NewDatabase opens a pgx connection pool and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     name,
		RawQuery: "sslmode=disable",
	}

	pool, err := pgxpool.New(ctx, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", models.ErrDependencyUnavailable, err)
	}

	return nil
}

// Load reads a locator view together with the location and category collections.
// Everything is read inside one read-only repeatable-read transaction, so the view,
// its categories and the locations form a consistent snapshot even while editors
// change records concurrently.
//
// Returns ErrLocatorNotFound for an unknown id, ErrInvalidConfiguration for a malformed
// stored view and ErrDependencyUnavailable for any database failure.
func (r *Repository) Load(ctx context.Context, locatorID int64) (*models.LocatorView, *models.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, nil, unavailable("failed to begin snapshot transaction", err)
	}

	view, snapshot, err := r.load(ctx, tx, locatorID)
	if err != nil {
		if errRb := tx.Rollback(ctx); errRb != nil {
			r.log.WarnContext(ctx, "Failed to rollback snapshot transaction", "error", errRb)
		}
		return nil, nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, unavailable("failed to commit snapshot transaction", err)
	}

	r.log.DebugContext(ctx, "Snapshot loaded",
		"locator", locatorID,
		"locations", len(snapshot.Locations),
		"categories", len(snapshot.Categories))

	return view, snapshot, nil
}

func (r *Repository) load(
	ctx context.Context,
	tx pgx.Tx,
	locatorID int64,
) (*models.LocatorView, *models.Snapshot, error) {
	view, err := r.fetchLocator(ctx, tx, locatorID)
	if err != nil {
		return nil, nil, err
	}

	view.Categories, err = fetchCategories(ctx, tx, locatorCategoriesQuery, locatorID)
	if err != nil {
		return nil, nil, err
	}

	categories, err := fetchCategories(ctx, tx, categoriesQuery)
	if err != nil {
		return nil, nil, err
	}

	locations, err := fetchLocations(ctx, tx)
	if err != nil {
		return nil, nil, err
	}

	return view, &models.Snapshot{Locations: locations, Categories: categories}, nil
}

func (r *Repository) fetchLocator(ctx context.Context, tx pgx.Tx, locatorID int64) (*models.LocatorView, error) {
	view := models.NewLocatorView(locatorID)
	var unit string

	err := tx.QueryRow(ctx, locatorQuery, locatorID).
		Scan(&view.ID, &view.Title, &view.AutoGeocode, &view.ModalWindow, &unit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", models.ErrLocatorNotFound, locatorID)
	}
	if err != nil {
		return nil, unavailable("failed to query locator", err)
	}

	view.Unit, err = models.ParseUnit(unit)
	if err != nil {
		r.log.ErrorContext(ctx, "Locator has a malformed configuration", "locator", locatorID, "error", err)
		return nil, fmt.Errorf("locator %d: %w", locatorID, err)
	}

	return &view, nil
}

func fetchCategories(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]models.Category, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("failed to query categories", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if errScan := rows.Scan(&c.ID, &c.Name); errScan != nil {
			return nil, unavailable("failed to scan category", errScan)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, unavailable("failed to read category row", err)
	}

	return categories, nil
}

func fetchLocations(ctx context.Context, tx pgx.Tx) ([]models.Location, error) {
	rows, err := tx.Query(ctx, locationsQuery)
	if err != nil {
		return nil, unavailable("failed to query locations", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var l models.Location
		errScan := rows.Scan(
			&l.ID, &l.Title, &l.Address, &l.Suburb, &l.State, &l.Postcode, &l.Country,
			&l.Website, &l.Phone, &l.Email, &l.Lat, &l.Lng, &l.Featured, &l.ShowInLocator,
			&l.CategoryIDs,
		)
		if errScan != nil {
			return nil, unavailable("failed to scan location", errScan)
		}
		locations = append(locations, l)
	}

	if err = rows.Err(); err != nil {
		return nil, unavailable("failed to read location row", err)
	}

	return locations, nil
}

func unavailable(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrDependencyUnavailable, msg, err)
}
