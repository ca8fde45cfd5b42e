// Package files keeps the index of uploaded document names.
package files

import "context"

// Repository is the file index. Add is a no-op for names already indexed;
// List returns names in first-upload order.
type Repository interface {
	Add(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}
