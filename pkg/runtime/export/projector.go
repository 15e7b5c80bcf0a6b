package export

import "github.com/de-tools/beat-sheets/pkg/models/domain"

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// Projector encodes a report in one output format. Projectors are pure:
// they read the report and never modify it.
type Projector interface {
	Project(report *domain.Report) ([]byte, error)
	// ProjectError encodes a failure message in the same format, so callers
	// always receive a well-formed body.
	ProjectError(message string) ([]byte, error)
	ContentType() string
}
