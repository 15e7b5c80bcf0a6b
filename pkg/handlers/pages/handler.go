package pages

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/beat-sheets/pkg/handlers/respond"
	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Renderer builds the navigable HTML pages
type Renderer interface {
	ActsOverview(ctx context.Context) api.Response
	ActListing(ctx context.Context, actNo int) api.Response
	AllBeats(ctx context.Context) api.Response
	BeatDetail(ctx context.Context, actNo, beatNumber int) api.Response
}

type Handler struct {
	pages Renderer
}

func NewHandler(pages Renderer) *Handler {
	return &Handler{pages: pages}
}

func (h *Handler) ActsOverview(w http.ResponseWriter, r *http.Request) {
	respond.Write(w, r, h.pages.ActsOverview(r.Context()))
}

func (h *Handler) AllBeats(w http.ResponseWriter, r *http.Request) {
	respond.Write(w, r, h.pages.AllBeats(r.Context()))
}

func (h *Handler) ActListing(w http.ResponseWriter, r *http.Request) {
	actNo, ok := intParam(w, r, "actNo")
	if !ok {
		return
	}
	respond.Write(w, r, h.pages.ActListing(r.Context(), actNo))
}

func (h *Handler) BeatDetail(w http.ResponseWriter, r *http.Request) {
	actNo, ok := intParam(w, r, "actNo")
	if !ok {
		return
	}
	beatNo, ok := intParam(w, r, "beatNo")
	if !ok {
		return
	}
	respond.Write(w, r, h.pages.BeatDetail(r.Context(), actNo, beatNo))
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().
			Str(name, raw).
			Msg("invalid path parameter")
		http.Error(w, fmt.Sprintf("invalid %s %q: expected an integer", name, raw), http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
