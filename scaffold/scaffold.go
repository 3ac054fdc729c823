// Package scaffold provides the embedded body templates used by
// "unentropy new" to create blog posts and documentation pages.
package scaffold

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

// Templates contains the body templates, one per collection.
// Files use Go text/template syntax and have a .md.tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the variables passed to every body template.
type Data struct {
	Title  string
	Slug   string
	Author string
}

// Body renders the body template for collection.
func Body(collection string, data Data) (string, error) {
	name := "templates/" + collection + ".md.tmpl"
	src, err := Templates.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("scaffold: no template for %q", collection)
	}
	tmpl, err := template.New(collection).Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("scaffold: parse %s: %w", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("scaffold: execute %s: %w", name, err)
	}
	return b.String(), nil
}
