package repomanager

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/files"
)

// RepositoryManager vends the stores of one backend.
type RepositoryManager interface {
	Accounts() accounts.Repository
	Files() files.Repository
	RunMigrations(ctx context.Context) error
	// Seed creates the given accounts, skipping emails that already exist,
	// and returns how many were created.
	Seed(ctx context.Context, seed []*models.Account) (int, error)
	Close() error
}

func seedInto(ctx context.Context, repo accounts.Repository, seed []*models.Account) (int, error) {
	created := 0
	for _, a := range seed {
		err := repo.Create(ctx, a)
		if errors.Is(err, common.ErrDuplicateAccount) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
