// Package accounts stores registered DocDrop accounts keyed by email.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/docdrop/internal/server/models"
)

// Repository is the credential store.
//
// Create fails with common.ErrDuplicateAccount when the email is taken; the
// check and the insert are one atomic step. GetByEmail and MarkVerified fail
// with common.ErrorNotFound for unknown emails.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	MarkVerified(ctx context.Context, email string) error
}
