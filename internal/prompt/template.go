// Package prompt holds the fixed prompt templates fed to the language
// models. Templates declare their placeholder set up front and fail at
// construction when the text references anything outside it, so a typo
// surfaces at process start instead of mid-request.
package prompt

import (
	"fmt"
	"io"
	"sort"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Template renders a fixed text against a closed set of named placeholders.
type Template struct {
	name         string
	tpl          *fasttemplate.Template
	placeholders map[string]struct{}
}

// New parses text and verifies every {{tag}} it contains is in the declared
// placeholder set.
func New(name, text string, placeholders ...string) (*Template, error) {
	tpl, err := fasttemplate.NewTemplate(text, startTag, endTag)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	declared := make(map[string]struct{}, len(placeholders))
	for _, p := range placeholders {
		declared[p] = struct{}{}
	}

	seen := map[string]struct{}{}
	tpl.ExecuteFuncString(func(_ io.Writer, tag string) (int, error) {
		seen[tag] = struct{}{}
		return 0, nil
	})

	var unbound []string
	for tag := range seen {
		if _, ok := declared[tag]; !ok {
			unbound = append(unbound, tag)
		}
	}
	if len(unbound) > 0 {
		sort.Strings(unbound)
		return nil, fmt.Errorf("template %s: unbound placeholders %v", name, unbound)
	}

	return &Template{name: name, tpl: tpl, placeholders: declared}, nil
}

// MustNew is New for package-level template variables.
func MustNew(name, text string, placeholders ...string) *Template {
	t, err := New(name, text, placeholders...)
	if err != nil {
		panic(err)
	}
	return t
}

// Render substitutes the full parameter set into the template. Every
// declared placeholder must receive a value and no extra values are allowed.
func (t *Template) Render(params map[string]string) (string, error) {
	for p := range t.placeholders {
		if _, ok := params[p]; !ok {
			return "", fmt.Errorf("template %s: missing value for placeholder %q", t.name, p)
		}
	}
	for k := range params {
		if _, ok := t.placeholders[k]; !ok {
			return "", fmt.Errorf("template %s: unknown parameter %q", t.name, k)
		}
	}

	values := make(map[string]interface{}, len(params))
	for k, v := range params {
		values[k] = v
	}
	return t.tpl.ExecuteString(values), nil
}
