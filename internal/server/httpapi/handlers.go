// Package httpapi exposes the account and file flows over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/logging"
	"github.com/dmitrijs2005/docdrop/internal/server/services"
	"github.com/gorilla/mux"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

type AccountFlow interface {
	Signup(ctx context.Context, email, password string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (string, error)
}

type FileFlow interface {
	Upload(ctx context.Context, session, filename string, content io.Reader) error
	ListFiles(ctx context.Context, session string) ([]string, error)
	GetDownloadURL(ctx context.Context, session, filename string) (string, error)
	SecureDownload(ctx context.Context, downloadToken string) (*services.Download, error)
}

type Handler struct {
	accounts       AccountFlow
	files          FileFlow
	logger         logging.Logger
	maxUploadBytes int64
}

func NewHandler(accounts AccountFlow, files FileFlow, maxUploadBytes int64, l logging.Logger) *Handler {
	return &Handler{
		accounts:       accounts,
		files:          files,
		logger:         l,
		maxUploadBytes: maxUploadBytes,
	}
}

// NewRouter registers every route on a gorilla/mux router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.recoverer, h.accessLog)

	r.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/verify-email", h.VerifyEmail).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/files", h.ListFiles).Methods(http.MethodGet)
	r.HandleFunc("/download/{filename}", h.GetDownloadURL).Methods(http.MethodGet)
	r.HandleFunc("/secure-download/{token}", h.SecureDownload).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	return r
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn(context.Background(), "write response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, errorBody{Detail: msg})
}

// sessionToken reads the token form/query field, falling back to an
// Authorization: Bearer header.
func sessionToken(r *http.Request) string {
	if tok := r.FormValue(common.TokenFieldName); tok != "" {
		return tok
	}
	if v, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func (h *Handler) credentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	email, password := r.FormValue("email"), r.FormValue("password")
	if email == "" || password == "" {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "email and password are required"})
		return "", "", false
	}
	return email, password, true
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	email, password, ok := h.credentials(w, r)
	if !ok {
		return
	}

	link, err := h.accounts.Signup(r.Context(), email, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"encrypted_url": link})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.VerifyEmail(r.Context(), r.URL.Query().Get(common.TokenFieldName)); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email, password, ok := h.credentials(w, r)
	if !ok {
		return
	}

	token, err := h.accounts.Login(r.Context(), email, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		if r.ContentLength > h.maxUploadBytes {
			h.writeError(w, r, &http.MaxBytesError{Limit: h.maxUploadBytes})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "multipart form expected"})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "file is required"})
		return
	}
	defer file.Close()

	if err := h.files.Upload(r.Context(), sessionToken(r), header.Filename, file); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Uploaded successfully"})
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	names, err := h.files.ListFiles(r.Context(), sessionToken(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]string{"files": names})
}

func (h *Handler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	link, err := h.files.GetDownloadURL(r.Context(), sessionToken(r), mux.Vars(r)["filename"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"download-link": link, "message": "success"})
}

func (h *Handler) SecureDownload(w http.ResponseWriter, r *http.Request) {
	d, err := h.files.SecureDownload(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer d.Body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(d.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, d.Body); err != nil {
		h.logger.Warn(r.Context(), "download interrupted", "filename", d.Filename, "error", err)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
