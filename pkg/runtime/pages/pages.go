package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	PageActsOverview = "overview"
	PageActListing   = "act"
	PageAllBeats     = "beats"
	PageBeatDetail   = "beat"
	PageError        = "error"
)

var pageNames = []string{PageActsOverview, PageActListing, PageAllBeats, PageBeatDetail, PageError}

// each page is parsed with its own copy of the layout so "content" blocks never collide
var pageTemplates = func() map[string]*template.Template {
	set := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		set[name] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html.tmpl",
			"templates/"+name+".html.tmpl",
		))
	}
	return set
}()

// Layout is the data every page receives
type Layout struct {
	Title   string
	Content any
}

// Render executes a page inside the shared layout
func Render(page string, title string, content any) ([]byte, error) {
	tmpl, ok := pageTemplates[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", Layout{Title: title, Content: content}); err != nil {
		return nil, fmt.Errorf("failed to render %s page: %w", page, err)
	}
	return buf.Bytes(), nil
}
