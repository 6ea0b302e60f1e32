package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/jackc/pgx/v5"
)

// Database is the subset of pgxpool.Pool used by the repository.
// pgxmock pools satisfy it in tests.
type Database interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	Load(ctx context.Context, locatorID int64) (*models.LocatorView, *models.Snapshot, error)
	Ping(ctx context.Context) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
