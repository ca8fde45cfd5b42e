package repomanager

import (
	"context"

	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/files"
)

// MemoryRepositoryManager holds volatile in-process stores.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	files    *files.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		files:    files.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) Files() files.Repository { return m.files }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Seed(ctx context.Context, seed []*models.Account) (int, error) {
	return seedInto(ctx, m.accounts, seed)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
