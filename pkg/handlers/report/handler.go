package report

import (
	"context"
	"net/http"
	"strings"

	"github.com/de-tools/beat-sheets/pkg/handlers/respond"
	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/de-tools/beat-sheets/pkg/services/report"
	"github.com/rs/zerolog"
)

const defaultFormat = report.FormatHTML

// Renderer produces an encoded beat report
type Renderer interface {
	Render(ctx context.Context, format report.Format) api.Response
}

type Handler struct {
	reports Renderer
}

func NewHandler(reports Renderer) *Handler {
	return &Handler{reports: reports}
}

// GetReport serves /reports/beats?format=...
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, r.URL.Query().Get("format"))
}

// GetReportAs serves a fixed format, used by the /reports/beats.{ext} aliases
func (h *Handler) GetReportAs(format report.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Write(w, r, h.reports.Render(r.Context(), format))
	}
}

// GetReportJSON serves the versioned API route, which is always JSON
func (h *Handler) GetReportJSON(w http.ResponseWriter, r *http.Request) {
	respond.Write(w, r, h.reports.Render(r.Context(), report.FormatJSON))
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, requested string) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	format := defaultFormat
	if strings.TrimSpace(requested) != "" {
		parsed, err := report.ParseFormat(requested)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("format", requested).
				Msg("rejected report request")
			respond.Error(w, r, http.StatusBadRequest, err.Error())
			return
		}
		format = parsed
	}

	respond.Write(w, r, h.reports.Render(ctx, format))
}
