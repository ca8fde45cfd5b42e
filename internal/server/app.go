// Package server wires the DocDrop components together and runs the HTTP
// API next to the gRPC health endpoint until the process is signalled.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/logging"
	"github.com/dmitrijs2005/docdrop/internal/server/auth"
	"github.com/dmitrijs2005/docdrop/internal/server/blobstore"
	"github.com/dmitrijs2005/docdrop/internal/server/config"
	"github.com/dmitrijs2005/docdrop/internal/server/httpapi"
	"github.com/dmitrijs2005/docdrop/internal/server/notify"
	"github.com/dmitrijs2005/docdrop/internal/server/provision"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docdrop/internal/server/services"
	"github.com/dmitrijs2005/docdrop/internal/timex"

	gs "github.com/dmitrijs2005/docdrop/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	accounts *services.AccountService
	files    *services.FileService
	health   *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret init error: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}

	repos, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(0)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	if c.SeedFile != "" {
		seed, err := provision.Load(c.SeedFile, hasher, timex.SystemClock.Now())
		if err != nil {
			repos.Close()
			return nil, err
		}
		n, err := repos.Seed(ctx, seed)
		if err != nil {
			repos.Close()
			return nil, fmt.Errorf("seed error: %w", err)
		}
		logger.Info(ctx, "Seeded accounts", "created", n, "total", len(seed))
	}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		repos.Close()
		return nil, err
	}
	if fsStore, ok := blobs.(*blobstore.FSStore); ok {
		logger.Info(ctx, "Storing uploads on disk", "dir", fsStore.Dir())
	}
	if c.StorageKey != "" {
		blobs = blobstore.NewSealedStore(blobs, c.StorageKey)
		logger.Info(ctx, "Stored files are encrypted")
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), timex.SystemClock)
	policy := auth.Policy{RequireVerified: c.RequireVerified}

	as := services.NewAccountService(repos.Accounts(), hasher, tokens, newNotifier(c, logger),
		timex.SystemClock, c, logger.With("module", "accounts"))
	fs := services.NewFileService(repos.Accounts(), repos.Files(), blobs, tokens, policy,
		c, logger.With("module", "files"))

	return &App{
		config:   c,
		logger:   logger,
		repos:    repos,
		accounts: as,
		files:    fs,
		health:   gs.NewHealthServer(c.EndpointAddrGRPC, logger),
	}, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	m, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.StorageBackend {
	case config.StorageMemory:
		return blobstore.NewMemoryStore(), nil
	case config.StorageFS:
		return blobstore.NewFSStore(c.UploadDir)
	case config.StorageS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Config{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func newNotifier(c *config.Config, logger logging.Logger) notify.Notifier {
	if c.SMTPHost == "" {
		return notify.NewLogNotifier(logger)
	}
	return notify.NewSMTPNotifier(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword,
		c.SMTPFrom, c.VerificationTokenValidityDuration.String())
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) handler() http.Handler {
	h := httpapi.NewHandler(app.accounts, app.files, app.config.MaxUploadBytes, app.logger.With("module", "http"))
	return httpapi.NewRouter(h)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.handler(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	app.health.SetServing(true)

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(context.Background(), "close repositories", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
