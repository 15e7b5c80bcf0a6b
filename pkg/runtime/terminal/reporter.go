package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
)

// Reporter prints every beat of a report grouped by act
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type outline struct {
	GeneratedAt string
	Totals      string
	Acts        []outlineAct
}

type outlineAct struct {
	ActNo int
	Title string
	Beats []outlineBeat
}

type outlineBeat struct {
	Heading     string
	Title       string
	Description string
	Details     []outlineDetail
}

type outlineDetail struct {
	Name  string
	Value string
}

func (c *Reporter) Handle(report *domain.Report) error {
	tmpl := `
Beat Sheets ({{.Totals}})
Generated: {{.GeneratedAt}}
{{range .Acts}}
=== Act {{.ActNo}}: {{.Title}} ===
{{range .Beats}}
- {{.Heading}}: {{.Title}}
  {{.Description}}
{{- range .Details}}
  {{.Name}}: {{.Value}}
{{- end}}
{{end}}
{{- end}}`

	t, err := template.New("outline").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, newOutline(report))
}

func newOutline(report *domain.Report) outline {
	view := outline{
		GeneratedAt: report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST"),
		Totals:      domain.Count(report.Summary.TotalBeats, "beat") + " across " + domain.Count(report.Summary.TotalActs, "act"),
	}
	for _, act := range report.Acts {
		a := outlineAct{ActNo: act.ActNo, Title: act.ActTitle}
		for _, b := range act.Beats {
			beat := outlineBeat{
				Heading:     b.Heading(),
				Title:       domain.TextOr(b.Title, domain.FieldTitle),
				Description: domain.TextOr(b.Description, domain.FieldDescription),
			}
			for _, l := range domain.Labels {
				if v := b.Value(l.Field); domain.Present(v) {
					beat.Details = append(beat.Details, outlineDetail{Name: l.Label, Value: *v})
				}
			}
			a.Beats = append(a.Beats, beat)
		}
		view.Acts = append(view.Acts, a)
	}
	return view
}
