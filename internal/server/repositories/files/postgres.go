package files

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docdrop/internal/dbx"
)

// PostgresRepository implements the file index over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add indexes name. The unique constraint on files.name keeps re-uploads
// from producing a second row.
func (r *PostgresRepository) Add(ctx context.Context, name string) error {
	query := `INSERT INTO files (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns indexed names ordered by insertion (serial id).
func (r *PostgresRepository) List(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM files ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result = append(result, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
