package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var reportTemplates = template.Must(template.New("export").ParseFS(templateFS, "templates/*.tmpl"))

type htmlReport struct {
	GeneratedAt string
	TotalActs   int
	TotalBeats  int
	Acts        []htmlAct
}

type htmlAct struct {
	Anchor    string
	ActNo     int
	Title     string
	BeatCount string
	Beats     []htmlBeat
}

type htmlBeat struct {
	Heading     string
	Title       string
	Description string
	Fields      []htmlField
}

type htmlField struct {
	Label string
	Value string
}

type htmlError struct {
	Message string
}

// HTMLProjector renders the navigable report document
type HTMLProjector struct{}

func NewHTMLProjector() *HTMLProjector {
	return &HTMLProjector{}
}

func (p *HTMLProjector) Project(report *domain.Report) ([]byte, error) {
	return execute("report", newHTMLReport(report))
}

func (p *HTMLProjector) ProjectError(message string) ([]byte, error) {
	return execute("report-error", htmlError{Message: message})
}

func (p *HTMLProjector) ContentType() string {
	return ContentTypeHTML
}

// ActAnchor is the in-page section id of an act
func ActAnchor(actNo int) string {
	return "act-" + strconv.Itoa(actNo)
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}

func newHTMLReport(report *domain.Report) htmlReport {
	view := htmlReport{
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC1123),
		TotalActs:   report.Summary.TotalActs,
		TotalBeats:  report.Summary.TotalBeats,
		Acts:        make([]htmlAct, 0, len(report.Acts)),
	}
	for _, act := range report.Acts {
		a := htmlAct{
			Anchor:    ActAnchor(act.ActNo),
			ActNo:     act.ActNo,
			Title:     act.ActTitle,
			BeatCount: domain.Count(act.BeatCount, "beat"),
			Beats:     make([]htmlBeat, 0, len(act.Beats)),
		}
		for _, b := range act.Beats {
			a.Beats = append(a.Beats, newHTMLBeat(b))
		}
		view.Acts = append(view.Acts, a)
	}
	return view
}

func newHTMLBeat(b domain.BeatView) htmlBeat {
	beat := htmlBeat{
		Heading:     b.Heading(),
		Title:       domain.TextOr(b.Title, domain.FieldTitle),
		Description: domain.TextOr(b.Description, domain.FieldDescription),
	}
	for _, l := range domain.Labels {
		v := b.Value(l.Field)
		if !domain.Present(v) {
			continue
		}
		beat.Fields = append(beat.Fields, htmlField{Label: l.Label, Value: *v})
	}
	return beat
}
