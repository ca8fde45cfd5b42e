package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/dbx"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the account. The primary key on email makes the
// duplicate check part of the insert itself.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) error {
	query :=
		`INSERT INTO accounts (email, password_hash, role, verified, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		account.Email, account.PasswordHash, string(account.Role), account.Verified, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrDuplicateAccount
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT email, password_hash, role, verified, created_at FROM accounts
		 WHERE email = $1
		 `

	var (
		account models.Account
		role    string
	)
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&account.Email, &account.PasswordHash, &role, &account.Verified, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	account.Role = models.Role(role)

	return &account, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, email string) error {
	query := `UPDATE accounts SET verified = TRUE WHERE email = $1`

	res, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
