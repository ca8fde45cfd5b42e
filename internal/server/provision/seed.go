// Package provision loads out-of-band account definitions (ops users)
// from a YAML seed file.
package provision

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"gopkg.in/yaml.v3"
)

// SeedFile is the document shape:
//
//	accounts:
//	  - email: ops@example.com
//	    password_hash: $2a$10$...
//	    role: ops
//	    verified: true
type SeedFile struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// SeedAccount describes one account. Exactly one of Password and
// PasswordHash must be set; a plain Password is hashed on load.
type SeedAccount struct {
	Email        string `yaml:"email"`
	Password     string `yaml:"password,omitempty"`
	PasswordHash string `yaml:"password_hash,omitempty"`
	Role         string `yaml:"role"`
	Verified     bool   `yaml:"verified"`
}

// Hasher turns a plain password into a stored hash.
type Hasher interface {
	Hash(password string) (string, error)
}

// Load reads and validates the seed file at path.
func Load(path string, hasher Hasher, now time.Time) ([]*models.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data, hasher, now)
}

// Parse converts a YAML seed document into accounts stamped with now.
func Parse(data []byte, hasher Hasher, now time.Time) ([]*models.Account, error) {
	var doc SeedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	out := make([]*models.Account, 0, len(doc.Accounts))
	for i, s := range doc.Accounts {
		if s.Email == "" {
			return nil, fmt.Errorf("account #%d: email is required", i+1)
		}

		role := models.Role(s.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("account %s: unknown role %q", s.Email, s.Role)
		}

		hash := s.PasswordHash
		var err error
		switch {
		case s.Password != "" && hash != "":
			return nil, fmt.Errorf("account %s: set either password or password_hash", s.Email)
		case s.Password != "":
			hash, err = hasher.Hash(s.Password)
			if err != nil {
				return nil, fmt.Errorf("account %s: %w", s.Email, err)
			}
		case hash == "":
			return nil, fmt.Errorf("account %s: password or password_hash is required", s.Email)
		}

		out = append(out, &models.Account{
			Email:        s.Email,
			PasswordHash: hash,
			Role:         role,
			Verified:     s.Verified,
			CreatedAt:    now,
		})
	}

	return out, nil
}
