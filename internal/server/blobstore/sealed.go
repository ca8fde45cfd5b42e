package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/docdrop/internal/cryptox"
)

// keySalt scopes derived storage keys to this use.
var keySalt = []byte("docdrop/blobstore/v1")

// SealedStore encrypts content before handing it to the wrapped Store and
// decrypts it on Open. Blobs are buffered whole in memory.
type SealedStore struct {
	inner Store
	key   []byte
}

// NewSealedStore wraps inner with a key derived from passphrase.
func NewSealedStore(inner Store, passphrase string) *SealedStore {
	return &SealedStore{inner: inner, key: cryptox.DeriveKey([]byte(passphrase), keySalt)}
}

func (s *SealedStore) Put(ctx context.Context, key string, r io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	sealed, err := cryptox.Seal(plaintext, s.key)
	if err != nil {
		return err
	}

	return s.inner.Put(ctx, key, bytes.NewReader(sealed))
}

func (s *SealedStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, key)
}

func (s *SealedStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.inner.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	sealed, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	plaintext, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("unseal %s: %w", key, err)
	}

	return io.NopCloser(bytes.NewReader(plaintext)), nil
}
