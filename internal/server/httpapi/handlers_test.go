package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/logging"
	"github.com/dmitrijs2005/docdrop/internal/server/auth"
	"github.com/dmitrijs2005/docdrop/internal/server/config"
	"github.com/dmitrijs2005/docdrop/internal/server/notify"
	"github.com/dmitrijs2005/docdrop/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/docdrop/internal/server/services"
	"github.com/dmitrijs2005/docdrop/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccounts struct {
	signupErr error
	verifyErr error
	loginErr  error

	gotEmail, gotPassword, gotToken string
}

func (f *fakeAccounts) Signup(_ context.Context, email, password string) (string, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.signupErr != nil {
		return "", f.signupErr
	}
	return "/verify-email?token=v", nil
}

func (f *fakeAccounts) VerifyEmail(_ context.Context, token string) error {
	f.gotToken = token
	return f.verifyErr
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (string, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "session", nil
}

type fakeFiles struct {
	err error

	gotSession, gotFilename, gotContent, gotToken string
	download                                      *services.Download
}

func (f *fakeFiles) Upload(_ context.Context, session, filename string, content io.Reader) error {
	f.gotSession, f.gotFilename = session, filename
	b, _ := io.ReadAll(content)
	f.gotContent = string(b)
	return f.err
}

func (f *fakeFiles) ListFiles(_ context.Context, session string) ([]string, error) {
	f.gotSession = session
	if f.err != nil {
		return nil, f.err
	}
	return []string{"a.docx", "b.pptx"}, nil
}

func (f *fakeFiles) GetDownloadURL(_ context.Context, session, filename string) (string, error) {
	f.gotSession, f.gotFilename = session, filename
	if f.err != nil {
		return "", f.err
	}
	return "/secure-download/d", nil
}

func (f *fakeFiles) SecureDownload(_ context.Context, token string) (*services.Download, error) {
	f.gotToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.download, nil
}

func newTestRouter(a *fakeAccounts, f *fakeFiles, maxUpload int64) http.Handler {
	return NewRouter(NewHandler(a, f, maxUpload, logging.NewNopLogger()))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSignup(t *testing.T) {
	a := &fakeAccounts{}
	h := newTestRouter(a, &fakeFiles{}, 0)

	rec := serve(h, formRequest(http.MethodPost, "/signup", url.Values{"email": {"a@x.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "/verify-email?token=v", decode(t, rec)["encrypted_url"])
	assert.Equal(t, "a@x.com", a.gotEmail)
	assert.Equal(t, "pw", a.gotPassword)
}

func TestSignup_MissingFields(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{}, 0)

	rec := serve(h, formRequest(http.MethodPost, "/signup", url.Values{"email": {"a@x.com"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		detail string
	}{
		{common.ErrDuplicateAccount, http.StatusBadRequest, "Email exists"},
		{common.ErrInvalidEmail, http.StatusBadRequest, "Invalid email"},
		{common.ErrWeakPassword, http.StatusBadRequest, "Password is too weak"},
		{common.ErrInvalidSignature, http.StatusForbidden, "Invalid token"},
		{common.ErrTokenExpired, http.StatusForbidden, "Invalid token"},
		{common.ErrForbidden, http.StatusForbidden, "Access denied"},
		{common.ErrAccountNotFound, http.StatusNotFound, "Invalid verification"},
		{common.ErrorNotFound, http.StatusNotFound, "File not found"},
		{common.ErrUnsupportedFileType, http.StatusBadRequest, "Invalid file type"},
		{common.ErrInvalidFilename, http.StatusBadRequest, "Invalid filename"},
		{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{fmt.Errorf("%w: store down", common.ErrorInternal), http.StatusInternalServerError, "Internal server error"},
		{errors.New("db exploded"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.detail, func(t *testing.T) {
			h := newTestRouter(&fakeAccounts{signupErr: tt.err}, &fakeFiles{}, 0)

			rec := serve(h, formRequest(http.MethodPost, "/signup", url.Values{"email": {"a@x.com"}, "password": {"pw"}}))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.detail, decode(t, rec)["detail"])
		})
	}
}

func TestTokenFailuresAreIndistinguishable(t *testing.T) {
	bodies := make([]string, 0, 2)
	for _, err := range []error{common.ErrInvalidSignature, common.ErrTokenExpired} {
		h := newTestRouter(&fakeAccounts{verifyErr: err}, &fakeFiles{}, 0)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/verify-email?token=t", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestVerifyEmail(t *testing.T) {
	a := &fakeAccounts{}
	h := newTestRouter(a, &fakeFiles{}, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/verify-email?token=abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email verified", decode(t, rec)["message"])
	assert.Equal(t, "abc", a.gotToken)
}

func TestLogin(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{}, 0)

	rec := serve(h, formRequest(http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session", decode(t, rec)["token"])
}

func TestUpload(t *testing.T) {
	f := &fakeFiles{}
	h := newTestRouter(&fakeAccounts{}, f, 1<<20)

	rec := serve(h, multipartRequest(t, map[string]string{"token": "ops-session"}, "deck.pptx", "slides"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Uploaded successfully", decode(t, rec)["message"])
	assert.Equal(t, "ops-session", f.gotSession)
	assert.Equal(t, "deck.pptx", f.gotFilename)
	assert.Equal(t, "slides", f.gotContent)
}

func TestUpload_BearerFallback(t *testing.T) {
	f := &fakeFiles{}
	h := newTestRouter(&fakeAccounts{}, f, 1<<20)

	req := multipartRequest(t, nil, "deck.pptx", "slides")
	req.Header.Set("Authorization", "Bearer from-header")

	rec := serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-header", f.gotSession)
}

func TestUpload_BadRequests(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{}, 1<<20)

	rec := serve(h, multipartRequest(t, map[string]string{"token": "t"}, "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing file part")

	rec = serve(h, formRequest(http.MethodPost, "/upload", url.Values{"token": {"t"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "not multipart")
}

func TestUpload_TooLarge(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{}, 64)

	rec := serve(h, multipartRequest(t, map[string]string{"token": "t"}, "deck.pptx", strings.Repeat("x", 1024)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File too large", decode(t, rec)["detail"])
}

func TestListFiles(t *testing.T) {
	f := &fakeFiles{}
	h := newTestRouter(&fakeAccounts{}, f, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/files?token=client-session", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"a.docx", "b.pptx"}, decode(t, rec)["files"])
	assert.Equal(t, "client-session", f.gotSession)
}

func TestListFiles_Forbidden(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{err: common.ErrForbidden}, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/files?token=ops-session", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetDownloadURL(t *testing.T) {
	f := &fakeFiles{}
	h := newTestRouter(&fakeAccounts{}, f, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/download/deck.pptx?token=s", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "/secure-download/d", body["download-link"])
	assert.Equal(t, "success", body["message"])
	assert.Equal(t, "deck.pptx", f.gotFilename)
	assert.Equal(t, "s", f.gotSession)
}

func TestSecureDownload(t *testing.T) {
	f := &fakeFiles{download: &services.Download{
		Filename: "Q3 deck.pptx",
		Body:     io.NopCloser(strings.NewReader("slides")),
	}}
	h := newTestRouter(&fakeAccounts{}, f, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/secure-download/tok123", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "slides", rec.Body.String())
	assert.Equal(t, `attachment; filename="Q3 deck.pptx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "tok123", f.gotToken)
}

func TestSecureDownload_NotFound(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{err: common.ErrorNotFound}, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/secure-download/tok", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "File not found", decode(t, rec)["detail"])
}

func TestHealth(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{}, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(&fakeAccounts{}, &fakeFiles{}, 0)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/signup", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVerifyEmail_SessionAndDownloadTokensRejected(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.RequireVerified = true

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenService([]byte("test-secret"), timex.SystemClock)
	repo := accounts.NewMemoryRepository()
	log := logging.NewNopLogger()

	acct := services.NewAccountService(repo, hasher, tokens, notify.NewLogNotifier(log), timex.SystemClock, cfg, log)
	h := NewRouter(NewHandler(acct, &fakeFiles{}, 0, log))

	postForm := func(path string) map[string]any {
		rec := serve(h, formRequest(http.MethodPost, path, url.Values{"email": {"victim@x.com"}, "password": {"pw"}}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode(t, rec)
	}
	postForm("/signup")
	sess := postForm("/login")["token"].(string)

	dl, err := tokens.Issue(auth.DownloadClaims("victim@x.com", "deck.pptx"), time.Hour)
	require.NoError(t, err)

	for name, tok := range map[string]string{"session": sess, "download": dl} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/verify-email?token="+url.QueryEscape(tok), nil))
		assert.Equal(t, http.StatusForbidden, rec.Code, name)
		assert.Equal(t, "Invalid token", decode(t, rec)["detail"], name)
	}

	a, err := repo.GetByEmail(context.Background(), "victim@x.com")
	require.NoError(t, err)
	assert.False(t, a.Verified)
}
