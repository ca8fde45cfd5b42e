// Package repomanager wires the account and file stores for the configured
// backend: PostgreSQL (with goose migrations) or in-memory.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/docdrop/internal/dbx"
	"github.com/dmitrijs2005/docdrop/internal/server/migrations"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/files"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories sharing one pool.
type PostgresRepositoryManager struct {
	db       *sql.DB
	accounts *accounts.PostgresRepository
	files    *files.PostgresRepository
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewPostgresRepositoryManager opens a pgx-backed pool for dsn.
func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return newPostgresRepositoryManager(db), nil
}

func newPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
		files:    files.NewPostgresRepository(db),
	}
}

func (m *PostgresRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *PostgresRepositoryManager) Files() files.Repository { return m.files }

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// Seed inserts all accounts in one transaction.
func (m *PostgresRepositoryManager) Seed(ctx context.Context, seed []*models.Account) (int, error) {
	created := 0
	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := seedInto(ctx, accounts.NewPostgresRepository(tx), seed)
		created = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed accounts: %w", err)
	}
	return created, nil
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
