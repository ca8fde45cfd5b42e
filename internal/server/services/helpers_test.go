package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/logging"
	"github.com/dmitrijs2005/docdrop/internal/server/auth"
	"github.com/dmitrijs2005/docdrop/internal/server/blobstore"
	"github.com/dmitrijs2005/docdrop/internal/server/config"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/files"
	"github.com/dmitrijs2005/docdrop/internal/timex"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// movableClock lets a test advance time between calls.
type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu   sync.Mutex
	urls map[string]string
	err  error
}

func (n *recordingNotifier) SendVerification(_ context.Context, email, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.urls == nil {
		n.urls = map[string]string{}
	}
	n.urls[email] = url
	return n.err
}

type testEnv struct {
	cfg      *config.Config
	clock    *movableClock
	accounts *accounts.MemoryRepository
	files    *files.MemoryRepository
	blobs    *blobstore.MemoryStore
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	notifier *recordingNotifier
	acct     *AccountService
	file     *FileService
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PublicBaseURL = "http://docs.test"
	for _, m := range mutate {
		m(cfg)
	}

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	clock := &movableClock{now: t0}
	env := &testEnv{
		cfg:      cfg,
		clock:    clock,
		accounts: accounts.NewMemoryRepository(),
		files:    files.NewMemoryRepository(),
		blobs:    blobstore.NewMemoryStore(),
		hasher:   hasher,
		tokens:   auth.NewTokenService([]byte("test-secret"), clock),
		notifier: &recordingNotifier{},
	}

	log := logging.NewNopLogger()
	env.acct = NewAccountService(env.accounts, hasher, env.tokens, env.notifier, timex.Clock(clock), cfg, log)
	env.file = NewFileService(env.accounts, env.files, env.blobs, env.tokens,
		auth.Policy{RequireVerified: cfg.RequireVerified}, cfg, log)

	return env
}

// addAccount provisions an account directly in the store.
func (e *testEnv) addAccount(t *testing.T, email, password string, role models.Role, verified bool) {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	require.NoError(t, e.accounts.Create(context.Background(), &models.Account{
		Email: email, PasswordHash: hash, Role: role, Verified: verified, CreatedAt: t0,
	}))
}

func (e *testEnv) session(t *testing.T, email, password string) string {
	t.Helper()
	tok, err := e.acct.Login(context.Background(), email, password)
	require.NoError(t, err)
	return tok
}
