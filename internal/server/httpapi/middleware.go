package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/common"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// the path may carry a download token; log the route template instead
		h.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"route", routeTemplate(r),
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				h.writeError(w, r, fmt.Errorf("%w: panic: %v", common.ErrorInternal, p))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
