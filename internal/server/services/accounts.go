// Package services contains server-side business logic: the account flow
// (signup, email verification, login) and the file access flow (upload,
// listing, download links and secure download).
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/logging"
	"github.com/dmitrijs2005/docdrop/internal/server/auth"
	"github.com/dmitrijs2005/docdrop/internal/server/config"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/notify"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/docdrop/internal/timex"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

// AccountService drives an account through Unregistered -> Pending -> Verified
// and issues session tokens.
type AccountService struct {
	accounts accounts.Repository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	notifier notify.Notifier
	clock    timex.Clock
	log      logging.Logger

	baseURL         string
	verificationTTL time.Duration
	sessionTTL      time.Duration
	minEntropy      float64
}

func NewAccountService(repo accounts.Repository, hasher *auth.PasswordHasher, tokens *auth.TokenService,
	notifier notify.Notifier, clock timex.Clock, cfg *config.Config, log logging.Logger) *AccountService {
	return &AccountService{
		accounts:        repo,
		hasher:          hasher,
		tokens:          tokens,
		notifier:        notifier,
		clock:           clock,
		log:             log,
		baseURL:         cfg.PublicBaseURL,
		verificationTTL: cfg.VerificationTokenValidityDuration,
		sessionTTL:      cfg.SessionTokenValidityDuration,
		minEntropy:      cfg.MinPasswordEntropy,
	}
}

// Signup registers a client account and returns its verification URL.
func (s *AccountService) Signup(ctx context.Context, email, password string) (string, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.ErrInvalidEmail
	}

	if s.minEntropy > 0 {
		if err := passwordvalidator.Validate(password, s.minEntropy); err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrWeakPassword, err)
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleClient,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return "", err
		}
		return "", fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.Issue(auth.VerificationClaims(email), s.verificationTTL)
	if err != nil {
		return "", fmt.Errorf("issue verification token: %w", err)
	}

	link := s.baseURL + "/verify-email?" + url.Values{common.TokenFieldName: {token}}.Encode()

	if err := s.notifier.SendVerification(ctx, email, link); err != nil {
		s.log.Warn(ctx, "verification notification failed", "email", email, "error", err)
	}

	s.log.Info(ctx, "account registered", "email", email)
	return link, nil
}

// VerifyEmail marks the token's subject verified. Repeating it is harmless.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return err
	}
	// session and download tokens must not stand in for the mailed link
	if !claims.IsVerification() {
		return common.ErrInvalidSignature
	}

	if err := s.accounts.MarkVerified(ctx, claims.Subject); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAccountNotFound
		}
		return fmt.Errorf("mark verified: %w", err)
	}

	s.log.Info(ctx, "email verified", "email", claims.Subject)
	return nil
}

// Login returns a session token. Unknown emails and wrong passwords both
// yield common.ErrInvalidCredentials after a bcrypt comparison.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup account: %w", err)
	}

	if !s.hasher.Verify(account.PasswordHash, password) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.SessionClaims(account.Email, account.Role), s.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	return token, nil
}
