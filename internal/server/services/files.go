package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/logging"
	"github.com/dmitrijs2005/docdrop/internal/server/auth"
	"github.com/dmitrijs2005/docdrop/internal/server/blobstore"
	"github.com/dmitrijs2005/docdrop/internal/server/config"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/files"
)

// Download is an opened blob ready to stream. The caller closes Body.
type Download struct {
	Filename string
	Body     io.ReadCloser
}

// FileService gates document upload and retrieval on session and download tokens.
type FileService struct {
	accounts accounts.Repository
	files    files.Repository
	blobs    blobstore.Store
	tokens   *auth.TokenService
	policy   auth.Policy
	log      logging.Logger

	baseURL     string
	downloadTTL time.Duration
}

func NewFileService(accountRepo accounts.Repository, fileRepo files.Repository, blobs blobstore.Store,
	tokens *auth.TokenService, policy auth.Policy, cfg *config.Config, log logging.Logger) *FileService {
	return &FileService{
		accounts:    accountRepo,
		files:       fileRepo,
		blobs:       blobs,
		tokens:      tokens,
		policy:      policy,
		log:         log,
		baseURL:     cfg.PublicBaseURL,
		downloadTTL: cfg.DownloadTokenValidityDuration,
	}
}

// Extension returns the text after the last dot, or the whole name when
// there is none.
func Extension(filename string) string {
	return filename[strings.LastIndex(filename, ".")+1:]
}

// authorize validates a token of the expected shape and applies the policy
// for required against the subject's current account record.
func (s *FileService) authorize(ctx context.Context, token string, required models.Role, shape func(*auth.Claims) bool) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	if !shape(claims) {
		return nil, common.ErrInvalidSignature
	}

	account, err := s.accounts.GetByEmail(ctx, claims.Subject)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if err := s.policy.Authorize(claims, account, required); err != nil {
		s.log.Debug(ctx, "access denied", "subject", claims.Subject, "required", string(required), "error", err)
		return nil, err
	}

	return claims, nil
}

// Upload stores content under filename on behalf of an ops session.
func (s *FileService) Upload(ctx context.Context, session, filename string, content io.Reader) error {
	claims, err := s.authorize(ctx, session, models.RoleOps, (*auth.Claims).IsSession)
	if err != nil {
		return err
	}

	if err := blobstore.ValidateKey(filename); err != nil {
		return err
	}
	if !slices.Contains(common.AllowedExtensions, Extension(filename)) {
		return common.ErrUnsupportedFileType
	}

	if err := s.blobs.Put(ctx, filename, content); err != nil {
		return fmt.Errorf("store %s: %w", filename, err)
	}
	if err := s.files.Add(ctx, filename); err != nil {
		return fmt.Errorf("index %s: %w", filename, err)
	}

	s.log.Info(ctx, "file uploaded", "filename", filename, "by", claims.Subject)
	return nil
}

// ListFiles returns indexed filenames in upload order for a client session.
func (s *FileService) ListFiles(ctx context.Context, session string) ([]string, error) {
	if _, err := s.authorize(ctx, session, models.RoleClient, (*auth.Claims).IsSession); err != nil {
		return nil, err
	}
	return s.files.List(ctx)
}

// GetDownloadURL issues a download token for filename and returns the
// secure-download link carrying it. The file is not required to exist yet.
func (s *FileService) GetDownloadURL(ctx context.Context, session, filename string) (string, error) {
	claims, err := s.authorize(ctx, session, models.RoleClient, (*auth.Claims).IsSession)
	if err != nil {
		return "", err
	}

	if err := blobstore.ValidateKey(filename); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(auth.DownloadClaims(claims.Subject, filename), s.downloadTTL)
	if err != nil {
		return "", fmt.Errorf("issue download token: %w", err)
	}

	return s.baseURL + "/secure-download/" + url.PathEscape(token), nil
}

// SecureDownload redeems a download token. The token alone is the credential.
func (s *FileService) SecureDownload(ctx context.Context, downloadToken string) (*Download, error) {
	claims, err := s.authorize(ctx, downloadToken, models.RoleClient, (*auth.Claims).IsDownload)
	if err != nil {
		return nil, err
	}

	if blobstore.ValidateKey(claims.Filename) != nil {
		return nil, common.ErrorNotFound
	}

	body, err := s.blobs.Open(ctx, claims.Filename)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "file downloaded", "filename", claims.Filename, "by", claims.Subject)
	return &Download{Filename: claims.Filename, Body: body}, nil
}
