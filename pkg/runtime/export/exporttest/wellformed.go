// Package exporttest holds assertions shared by tests of rendered documents.
package exporttest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// WellFormed checks that a document starts with a doctype, that every
// non-void element is closed in order and that html, head and body exist.
func WellFormed(document []byte) error {
	z := html.NewTokenizer(bytes.NewReader(document))
	var stack []string
	seen := map[string]bool{}
	doctype := false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return z.Err()
			}
			if !doctype {
				return fmt.Errorf("missing doctype")
			}
			if len(stack) > 0 {
				return fmt.Errorf("unclosed elements: %v", stack)
			}
			for _, name := range []string{"html", "head", "body"} {
				if !seen[name] {
					return fmt.Errorf("missing <%s> element", name)
				}
			}
			return nil
		case html.DoctypeToken:
			doctype = true
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			seen[tag] = true
			if !voidElements[tag] {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if len(stack) == 0 || stack[len(stack)-1] != tag {
				return fmt.Errorf("unexpected </%s>, open elements: %v", tag, stack)
			}
			stack = stack[:len(stack)-1]
		}
	}
}
