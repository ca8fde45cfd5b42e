package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/docdrop/internal/common"
)

type errorBody struct {
	Detail string `json:"detail"`
}

// statusFor maps a flow error onto the response status and the message
// shown to the caller. Both token failures share one message so callers
// cannot tell a forged token from an expired one.
func statusFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, common.ErrInvalidSignature), errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden, "Invalid token"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, common.ErrAccountNotFound):
		return http.StatusNotFound, "Invalid verification"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusBadRequest, "Email exists"
	case errors.Is(err, common.ErrInvalidEmail):
		return http.StatusBadRequest, "Invalid email"
	case errors.Is(err, common.ErrWeakPassword):
		return http.StatusBadRequest, "Password is too weak"
	case errors.Is(err, common.ErrUnsupportedFileType):
		return http.StatusBadRequest, "Invalid file type"
	case errors.Is(err, common.ErrInvalidFilename):
		return http.StatusBadRequest, "Invalid filename"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "File too large"
	case errors.Is(err, common.ErrorInternal):
		return http.StatusInternalServerError, "Internal server error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
