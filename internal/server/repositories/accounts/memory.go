package accounts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
)

// MemoryRepository keeps accounts in a mutex-guarded map. Records are
// copied in and out so callers never share state with the store.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]models.Account)}
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Email]; ok {
		return common.ErrDuplicateAccount
	}
	r.accounts[account.Email] = *account
	return nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) MarkVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[email]
	if !ok {
		return common.ErrorNotFound
	}
	a.Verified = true
	r.accounts[email] = a
	return nil
}
