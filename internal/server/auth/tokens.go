// Package auth implements DocDrop token issuance and validation, password
// hashing and the role-based authorization policy.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/timex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of every DocDrop token. The purpose of a token is
// given by which optional fields are set:
//   - verification: Subject only
//   - session: Subject and Role
//   - download: Subject and Filename
type Claims struct {
	jwt.RegisteredClaims
	Role     models.Role `json:"role,omitempty"`
	Filename string      `json:"filename,omitempty"`
}

func VerificationClaims(email string) Claims {
	return Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: email}}
}

func SessionClaims(email string, role models.Role) Claims {
	return Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: email}, Role: role}
}

func DownloadClaims(email, filename string) Claims {
	return Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: email}, Filename: filename}
}

// IsSession reports whether the claims carry a role.
func (c *Claims) IsSession() bool { return c.Role != "" }

// IsDownload reports whether the claims carry a filename.
func (c *Claims) IsDownload() bool { return c.Filename != "" }

// IsVerification reports whether the claims carry only a subject.
func (c *Claims) IsVerification() bool { return c.Role == "" && c.Filename == "" }

// TokenService issues and validates HS256-signed tokens.
type TokenService struct {
	secret []byte
	clock  timex.Clock
}

func NewTokenService(secret []byte, clock timex.Clock) *TokenService {
	if clock == nil {
		clock = timex.SystemClock
	}
	return &TokenService{secret: secret, clock: clock}
}

// Issue stamps claims with iat, exp = now + ttl and a random jti, and signs them.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := s.clock.Now()

	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate verifies the signature and expiry of tokenString and returns its claims.
//
// Errors:
//   - common.ErrTokenExpired: signature is good but now >= exp
//   - common.ErrInvalidSignature: anything else (bad signature, wrong alg,
//     malformed, missing exp or sub)
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidSignature
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidSignature
	}

	return claims, nil
}
