// Package blobstore stores uploaded document bytes keyed by filename.
package blobstore

import (
	"context"
	"io"
	"strings"

	"github.com/dmitrijs2005/docdrop/internal/common"
)

// Store is content storage addressed by a flat key. Put overwrites
// (last writer wins) and is atomic per key. Open fails with
// common.ErrorNotFound for absent keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ValidateKey rejects names that cannot be used as a flat storage key:
// empty, "." or "..", or containing a path separator or NUL.
func ValidateKey(name string) error {
	if name == "" || name == "." || name == ".." {
		return common.ErrInvalidFilename
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return common.ErrInvalidFilename
	}
	return nil
}
