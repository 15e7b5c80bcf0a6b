package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
)

type TableConfig struct {
	ActWidth   int
	TitleWidth int
	CountWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		ActWidth:   6,
		TitleWidth: 48,
		CountWidth: 8,
	}
}

// Reporter prints the per-act beat counts of a report as a table
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(act any, title string, count any) string {
			return fmt.Sprintf("| %-*v | %-*s | %*v |",
				c.config.ActWidth, act,
				c.config.TitleWidth, truncate(title, c.config.TitleWidth),
				c.config.CountWidth, count)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.ActWidth+2),
				strings.Repeat("-", c.config.TitleWidth+2),
				strings.Repeat("-", c.config.CountWidth+2))
		},
	}

	tmpl := `
Beat Sheets Summary
Generated: {{.GeneratedAt.UTC.Format "2006-01-02 15:04:05 MST"}}
Total Acts: {{.Summary.TotalActs}}
Total Beats: {{.Summary.TotalBeats}}

{{separator}}
{{formatRow "Act" "Title" "Beats"}}
{{separator}}
{{range .Summary.BeatsPerAct}}{{formatRow .ActNo .ActTitle .BeatCount}}
{{end}}{{separator}}
`

	t, err := template.New("summary").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
