package pages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/beat-sheets/pkg/adapters"
	"github.com/de-tools/beat-sheets/pkg/models/api"
	"github.com/de-tools/beat-sheets/pkg/models/domain"
	"github.com/de-tools/beat-sheets/pkg/runtime/export"
	"github.com/de-tools/beat-sheets/pkg/runtime/pages"
	"github.com/de-tools/beat-sheets/pkg/store/beats"
	"github.com/rs/zerolog"
)

// Renderer serves the per-entity and listing pages. Each page issues its own
// narrow query; none of them go through the report aggregator.
type Renderer struct {
	store beats.Store
}

func NewRenderer(store beats.Store) (*Renderer, error) {
	if store == nil {
		return nil, fmt.Errorf("beat store is nil")
	}
	return &Renderer{store: store}, nil
}

type overviewPage struct {
	Acts   []actCard
	Totals string
}

type actCard struct {
	Link      string
	ActNo     int
	Title     string
	BeatCount string
}

type actPage struct {
	ActNo int
	Found bool
	Beats []beatCard
}

type beatsPage struct {
	Acts []actSection
}

type actSection struct {
	Link  string
	ActNo int
	Title string
	Beats []beatCard
}

type beatCard struct {
	Link        string
	Heading     string
	Title       string
	Description string
}

type beatPage struct {
	ActLink    string
	ActNo      int
	ActTitle   string
	BeatNumber int
	Found      bool
	Beat       beatDetail
}

type beatDetail struct {
	Heading     string
	Title       string
	Description string
	Fields      []field
}

type field struct {
	Label   string
	Value   string
	Missing bool
}

type errorPage struct {
	Message string
}

func (r *Renderer) ActsOverview(ctx context.Context) api.Response {
	rows, err := r.store.ListActs(ctx)
	if err != nil {
		return r.failure(ctx, "Acts Overview", "Could not load acts", err)
	}

	page := overviewPage{Acts: make([]actCard, 0, len(rows))}
	totalBeats := 0
	for _, row := range rows {
		act := adapters.MapStoreActOverviewToDomain(row)
		page.Acts = append(page.Acts, actCard{
			Link:      ActLink(act.ActNo),
			ActNo:     act.ActNo,
			Title:     act.Title,
			BeatCount: domain.Count(act.BeatCount, "beat"),
		})
		totalBeats += act.BeatCount
	}
	page.Totals = domain.Count(totalBeats, "beat") + " across " + domain.Count(len(page.Acts), "act") + "."

	return r.render(ctx, pages.PageActsOverview, "Acts Overview", page)
}

func (r *Renderer) ActListing(ctx context.Context, actNo int) api.Response {
	title := fmt.Sprintf("Act %d", actNo)

	act, err := r.store.GetAct(ctx, actNo)
	if errors.Is(err, domain.ErrNotFound) {
		return r.render(ctx, pages.PageActListing, title, actPage{ActNo: actNo})
	}
	if err != nil {
		return r.failure(ctx, title, "Could not load act", err)
	}
	title = fmt.Sprintf("Act %d: %s", act.ActNo, act.Title)

	rows, err := r.store.ListActBeats(ctx, actNo)
	if err != nil {
		return r.failure(ctx, title, "Could not load beats", err)
	}

	page := actPage{ActNo: actNo, Found: true, Beats: make([]beatCard, 0, len(rows))}
	for _, b := range adapters.MapStoreBeatsToDomain(rows) {
		page.Beats = append(page.Beats, newBeatCard(b))
	}
	return r.render(ctx, pages.PageActListing, title, page)
}

func (r *Renderer) AllBeats(ctx context.Context) api.Response {
	rows, err := r.store.ListCurrentBeats(ctx)
	if err != nil {
		return r.failure(ctx, "All Beats", "Could not load beats", err)
	}

	page := beatsPage{Acts: make([]actSection, 0)}
	for _, b := range adapters.MapStoreBeatsToDomain(rows) {
		last := len(page.Acts) - 1
		if last < 0 || page.Acts[last].ActNo != b.ActNo {
			page.Acts = append(page.Acts, actSection{
				Link:  ActLink(b.ActNo),
				ActNo: b.ActNo,
				Title: b.ActTitle,
			})
			last++
		}
		page.Acts[last].Beats = append(page.Acts[last].Beats, newBeatCard(b))
	}
	return r.render(ctx, pages.PageAllBeats, "All Beats", page)
}

// BeatDetail renders one beat. A missing beat is a normal page naming the act,
// so at most two queries run: the beat, then its act.
func (r *Renderer) BeatDetail(ctx context.Context, actNo, beatNumber int) api.Response {
	title := fmt.Sprintf("Act %d, Beat %d", actNo, beatNumber)

	row, err := r.store.GetBeat(ctx, actNo, beatNumber)
	if errors.Is(err, domain.ErrNotFound) {
		page := beatPage{
			ActLink:    ActLink(actNo),
			ActNo:      actNo,
			ActTitle:   domain.Placeholder(domain.FieldActTitle),
			BeatNumber: beatNumber,
		}
		act, err := r.store.GetAct(ctx, actNo)
		switch {
		case err == nil:
			page.ActTitle = act.Title
		case !errors.Is(err, domain.ErrNotFound):
			return r.failure(ctx, title, "Could not load act", err)
		}
		return r.render(ctx, pages.PageBeatDetail, "Beat Not Found", page)
	}
	if err != nil {
		return r.failure(ctx, title, "Could not load beat", err)
	}

	b := adapters.MapStoreBeatToDomain(*row)
	page := beatPage{
		ActLink:    ActLink(b.ActNo),
		ActNo:      b.ActNo,
		ActTitle:   b.ActTitle,
		BeatNumber: b.BeatNumber,
		Found:      true,
		Beat:       newBeatDetail(b),
	}
	return r.render(ctx, pages.PageBeatDetail, page.Beat.Title, page)
}

func ActLink(actNo int) string {
	return "/acts/" + strconv.Itoa(actNo)
}

func BeatLink(actNo, beatNumber int) string {
	return ActLink(actNo) + "/beats/" + strconv.Itoa(beatNumber)
}

func newBeatCard(b domain.Beat) beatCard {
	return beatCard{
		Link:        BeatLink(b.ActNo, b.BeatNumber),
		Heading:     b.View().Heading(),
		Title:       domain.TextOr(b.Title, domain.FieldTitle),
		Description: domain.TextOr(b.Description, domain.FieldDescription),
	}
}

func newBeatDetail(b domain.Beat) beatDetail {
	scene := field{Label: "Scene", Value: domain.Placeholder(domain.FieldScene), Missing: true}
	if b.SceneNumber != nil {
		scene = field{Label: "Scene", Value: strconv.Itoa(*b.SceneNumber)}
	}

	d := beatDetail{
		Heading:     b.View().Heading(),
		Title:       domain.TextOr(b.Title, domain.FieldTitle),
		Description: domain.TextOr(b.Description, domain.FieldDescription),
		Fields:      []field{scene},
	}

	view := b.View()
	for _, l := range domain.Labels {
		v := view.Value(l.Field)
		d.Fields = append(d.Fields, field{
			Label:   l.Label,
			Value:   domain.TextOr(v, l.Field),
			Missing: !domain.Present(v),
		})
	}
	d.Fields = append(d.Fields,
		field{Label: "Version", Value: strconv.Itoa(b.Version)},
		field{Label: "Updated", Value: b.UpdatedAt.Format(time.RFC1123)},
	)
	return d
}

func (r *Renderer) render(ctx context.Context, page, title string, content any) api.Response {
	body, err := pages.Render(page, title, content)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("page", page).Msg("failed to render page")
		return api.Response{
			Body:        []byte("failed to render page\n"),
			ContentType: "text/plain; charset=utf-8",
			Status:      http.StatusInternalServerError,
		}
	}
	return api.Response{
		Body:        body,
		ContentType: export.ContentTypeHTML,
		Status:      http.StatusOK,
	}
}

// failure renders store errors inside the normal layout so navigation stays usable
func (r *Renderer) failure(ctx context.Context, title, message string, err error) api.Response {
	zerolog.Ctx(ctx).Error().Err(err).Str("page", title).Msg(message)

	resp := r.render(ctx, pages.PageError, title, errorPage{Message: fmt.Sprintf("%s: %v", message, err)})
	resp.Status = http.StatusInternalServerError
	return resp
}
