package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	errx "github.com/cartsense-poc-v1/server/internal/core/error"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields []errx.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError never exposes the wrapped cause, only the public message.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errx.StatusOf(err), ErrorResponse{
		Error:  errx.PublicMessage(err),
		Fields: errx.FieldErrors(err),
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errx.WrapValidation([]errx.FieldError{{Field: "body", Message: "invalid JSON: " + err.Error()}})
	}
	return nil
}

// requestLogger logs one line per request through logx.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logx.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}
