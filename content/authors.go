package content

import (
	"github.com/unentropy/website/authors"
)

// ParseAuthorReference checks the structure of an authors value and converts
// it to a Reference. Identifiers are not looked up.
func ParseAuthorReference(v any) (authors.Reference, error) {
	c := &collector{}
	ref := parseAuthors(c, "authors", v)
	if err := c.err(); err != nil {
		return nil, err
	}
	return ref, nil
}

func parseAuthors(c *collector, path string, v any) authors.Reference {
	if v == nil {
		return authors.Absent{}
	}
	if s, ok := v.(string); ok {
		return authors.Identifier(s)
	}
	if obj, ok := asObject(v); ok {
		return parseInlineAuthor(c, path, obj)
	}
	list, ok := asList(v)
	if !ok {
		c.add(path, expected("string, author object or array", v))
		return authors.Absent{}
	}
	out := make(authors.List, 0, len(list))
	for i, item := range list {
		p := index(path, i)
		if s, ok := item.(string); ok {
			out = append(out, authors.Identifier(s))
			continue
		}
		if obj, ok := asObject(item); ok {
			out = append(out, parseInlineAuthor(c, p, obj))
			continue
		}
		c.add(p, expected("string or author object", item))
	}
	return out
}

func parseInlineAuthor(c *collector, path string, obj map[string]any) authors.Inline {
	mistyped := map[string]bool{}
	text := func(key string) string {
		v, ok := obj[key]
		if !ok || v == nil {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			c.add(join(path, key), expected("string", v))
			mistyped[key] = true
		}
		return s
	}
	a := authors.Author{
		Name:    text("name"),
		Title:   text("title"),
		Picture: text("picture"),
		URL:     text("url"),
	}
	for _, issue := range a.Validate() {
		if !mistyped[issue.Field] {
			c.add(join(path, issue.Field), issue.Reason)
		}
	}
	return authors.Inline(a)
}

// authorsValue converts a Reference back into its frontmatter form.
func authorsValue(ref authors.Reference) (any, bool) {
	switch v := ref.(type) {
	case authors.Identifier:
		return string(v), true
	case authors.Inline:
		return inlineValue(v), true
	case authors.List:
		out := make([]any, len(v))
		for i, e := range v {
			switch item := e.(type) {
			case authors.Identifier:
				out[i] = string(item)
			case authors.Inline:
				out[i] = inlineValue(item)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func inlineValue(a authors.Inline) map[string]any {
	m := map[string]any{"name": a.Name}
	if a.Title != "" {
		m["title"] = a.Title
	}
	if a.Picture != "" {
		m["picture"] = a.Picture
	}
	if a.URL != "" {
		m["url"] = a.URL
	}
	return m
}
