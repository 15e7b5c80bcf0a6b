// Package respond writes rendered responses to HTTP clients.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/rs/zerolog"
)

// Write copies a rendered response onto w. Downloadable bodies get an
// attachment disposition.
func Write(w http.ResponseWriter, r *http.Request, resp api.Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	if resp.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.Filename))
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if _, err := w.Write(resp.Body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to write response")
	}
}

// Error writes {"error": message} with the given status
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(api.Error{Error: message}); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode error response")
	}
}
