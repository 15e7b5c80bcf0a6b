package export

import (
	"bytes"
	"regexp"

	"github.com/de-tools/beat-sheets/pkg/models/domain"
)

var (
	sidebarPattern = regexp.MustCompile(`(?s)<nav class="sidebar">.*?</nav>\n?`)
	actionsPattern = regexp.MustCompile(`(?s)<div class="actions">.*?</div>\n?`)
)

const printOverrides = `<style>
body { color: #000 !important; background: #fff !important; }
.content { margin-left: 0 !important; max-width: none; }
.stat, .beat { background: #fff !important; border-color: #000 !important; }
.beat { page-break-inside: avoid; }
a { color: #000 !important; }
</style>
</head>`

// PrintProjector post-processes the HTML projector output for paper: it drops
// navigation and action chrome and forces dark text on a light background.
// Data content is exactly that of the HTML document.
type PrintProjector struct {
	html *HTMLProjector
}

func NewPrintProjector(html *HTMLProjector) *PrintProjector {
	if html == nil {
		html = NewHTMLProjector()
	}
	return &PrintProjector{html: html}
}

func (p *PrintProjector) Project(report *domain.Report) ([]byte, error) {
	body, err := p.html.Project(report)
	if err != nil {
		return nil, err
	}
	return ForPrint(body), nil
}

func (p *PrintProjector) ProjectError(message string) ([]byte, error) {
	body, err := p.html.ProjectError(message)
	if err != nil {
		return nil, err
	}
	return ForPrint(body), nil
}

func (p *PrintProjector) ContentType() string {
	return ContentTypeHTML
}

// ForPrint rewrites a rendered report document into its print variant
func ForPrint(document []byte) []byte {
	out := sidebarPattern.ReplaceAll(document, nil)
	out = actionsPattern.ReplaceAll(out, nil)
	return bytes.Replace(out, []byte("</head>"), []byte(printOverrides), 1)
}
