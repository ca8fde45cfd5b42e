package auth

import (
	"github.com/dmitrijs2005/docdrop/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt. Each hash
// carries its own random salt.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt cost
// (bcrypt.DefaultCost when cost is 0).
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	secret := common.GenerateRandByteArray(24)
	defer common.WipeByteArray(secret)

	dummy, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return nil, err
	}

	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash never matches.
func (h *PasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy runs a comparison against a hash no password matches.
// Used for unknown accounts so that login costs the same either way.
func (h *PasswordHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
