package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/filex"
)

// FSStore keeps each blob as a file in one flat directory.
type FSStore struct {
	dir string
}

// NewFSStore creates dir if needed.
func NewFSStore(dir string) (*FSStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FSStore{dir: abs}, nil
}

// Dir returns the absolute storage directory.
func (s *FSStore) Dir() string { return s.dir }

// Put writes to a temp file in the same directory and renames it over the
// target, so readers never see a partial file.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}

	ok = true
	return nil
}

func (s *FSStore) Exists(_ context.Context, key string) (bool, error) {
	if ValidateKey(key) != nil {
		return false, nil
	}

	info, err := os.Stat(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (s *FSStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if ValidateKey(key) != nil {
		return nil, common.ErrorNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
