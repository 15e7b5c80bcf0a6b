package export

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
)

var csvHeader = []string{
	"Act Number",
	"Act Title",
	"Beat Number",
	"Scene Number",
	"Beat Title",
	"Description",
	"Conflict",
	"Emotion",
	"Location",
	"Time of Day",
	"Characters",
	"Version",
	"Created At",
	"Updated At",
}

type CSVProjector struct{}

func NewCSVProjector() *CSVProjector {
	return &CSVProjector{}
}

func (p *CSVProjector) Project(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	writeCSVRow(&buf, csvHeader)

	for _, act := range report.Acts {
		for _, b := range act.Beats {
			writeCSVRow(&buf, []string{
				strconv.Itoa(act.ActNo),
				act.ActTitle,
				strconv.Itoa(b.BeatNumber),
				optionalInt(b.SceneNumber),
				optional(b.Title),
				optional(b.Description),
				optional(b.Conflict),
				optional(b.Emotion),
				optional(b.Location),
				optional(b.TimeOfDay),
				optional(b.Characters),
				strconv.Itoa(b.Version),
				formatTime(b.CreatedAt),
				formatTime(b.UpdatedAt),
			})
		}
	}
	return buf.Bytes(), nil
}

func (p *CSVProjector) ProjectError(message string) ([]byte, error) {
	var buf bytes.Buffer
	writeCSVRow(&buf, []string{"error"})
	writeCSVRow(&buf, []string{message})
	return buf.Bytes(), nil
}

func (p *CSVProjector) ContentType() string {
	return ContentTypeCSV
}

// EscapeCSVField quotes a field, doubling inner quotes, only when it holds a
// comma, a double quote or a line break. Every other field is written as is.
func EscapeCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(EscapeCSVField(f))
	}
	buf.WriteByte('\n')
}

func optional(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
