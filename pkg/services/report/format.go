package report

import (
	"fmt"
	"strings"

	"github.com/de-tools/beat-sheets/pkg/runtime/export"
)

// Format is the closed set of report encodings
type Format int

const (
	FormatJSON Format = iota
	FormatHTML
	FormatCSV
	FormatPrintHTML
)

var formatNames = map[Format]string{
	FormatJSON:      "json",
	FormatHTML:      "html",
	FormatCSV:       "csv",
	FormatPrintHTML: "print",
}

// Formats lists every supported format in declaration order
var Formats = []Format{FormatJSON, FormatHTML, FormatCSV, FormatPrintHTML}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a requested format name to a Format. Unknown names are a
// caller error and must be rejected before reaching the report service.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unsupported report format %q", name)
}

// DefaultProjectors returns one projector per format
func DefaultProjectors() map[Format]export.Projector {
	html := export.NewHTMLProjector()
	return map[Format]export.Projector{
		FormatJSON:      export.NewJSONProjector(),
		FormatHTML:      html,
		FormatCSV:       export.NewCSVProjector(),
		FormatPrintHTML: export.NewPrintProjector(html),
	}
}
