package content

import "time"

// Template names accepted by documentation pages.
const (
	TemplateDoc    = "doc"
	TemplateSplash = "splash"
)

// DocPage is a validated documentation frontmatter record.
type DocPage struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Template        string          `json:"template"`
	Draft           bool            `json:"draft,omitempty"`
	LastUpdated     *time.Time      `json:"lastUpdated,omitempty"`
	ShowLastUpdated *bool           `json:"showLastUpdated,omitempty"`
	Sidebar         Sidebar         `json:"sidebar"`
	TableOfContents TableOfContents `json:"tableOfContents"`
	Pagefind        bool            `json:"pagefind"`
}

// Sidebar controls how a page appears in the generated navigation.
type Sidebar struct {
	Order  *int   `json:"order,omitempty"`
	Label  string `json:"label,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// TableOfContents selects which heading levels appear in the page outline.
type TableOfContents struct {
	Enabled         bool `json:"enabled"`
	MinHeadingLevel int  `json:"minHeadingLevel"`
	MaxHeadingLevel int  `json:"maxHeadingLevel"`
}

var defaultTableOfContents = TableOfContents{Enabled: true, MinHeadingLevel: 2, MaxHeadingLevel: 3}

// ValidateDocPage validates raw against the documentation schema.
func ValidateDocPage(raw map[string]any) (DocPage, error) {
	c := &collector{}
	d := DocPage{
		Template:        TemplateDoc,
		TableOfContents: defaultTableOfContents,
		Pagefind:        true,
	}

	d.Title = requiredString(c, raw, "title", "title")
	d.Description = optionalString(c, raw, "description", "description")
	if tmpl := optionalString(c, raw, "template", "template"); tmpl != "" {
		if tmpl != TemplateDoc && tmpl != TemplateSplash {
			c.addf("template", "expected %q or %q, received %q", TemplateDoc, TemplateSplash, tmpl)
		}
		d.Template = tmpl
	}
	d.Draft, _ = optionalBool(c, raw, "draft", "draft")
	switch v := raw["lastUpdated"].(type) {
	case nil:
	case bool:
		d.ShowLastUpdated = &v
	default:
		d.LastUpdated = optionalDate(c, raw, "lastUpdated", "lastUpdated")
	}
	d.Sidebar = parseSidebar(c, raw["sidebar"])
	d.TableOfContents = parseTableOfContents(c, raw["tableOfContents"])
	if pf, ok := optionalBool(c, raw, "pagefind", "pagefind"); ok {
		d.Pagefind = pf
	}

	if err := c.err(); err != nil {
		return DocPage{}, err
	}
	return d, nil
}

func parseSidebar(c *collector, v any) Sidebar {
	var s Sidebar
	if v == nil {
		return s
	}
	obj, ok := asObject(v)
	if !ok {
		c.add("sidebar", expected("object", v))
		return s
	}
	if raw, present := obj["order"]; present && raw != nil {
		n, ok := asInt(raw)
		if !ok {
			c.add("sidebar.order", expected("integer", raw))
		} else {
			s.Order = &n
		}
	}
	s.Label = optionalString(c, obj, "label", "sidebar.label")
	s.Hidden, _ = optionalBool(c, obj, "hidden", "sidebar.hidden")
	return s
}

func parseTableOfContents(c *collector, v any) TableOfContents {
	toc := defaultTableOfContents
	switch val := v.(type) {
	case nil:
		return toc
	case bool:
		toc.Enabled = val
		return toc
	}
	obj, ok := asObject(v)
	if !ok {
		c.add("tableOfContents", expected("boolean or object", v))
		return toc
	}
	mark := c.mark()
	toc.MinHeadingLevel = headingLevel(c, obj, "minHeadingLevel", toc.MinHeadingLevel)
	toc.MaxHeadingLevel = headingLevel(c, obj, "maxHeadingLevel", toc.MaxHeadingLevel)
	if !c.failedSince(mark) && toc.MinHeadingLevel > toc.MaxHeadingLevel {
		c.add("tableOfContents", "minHeadingLevel must not exceed maxHeadingLevel")
	}
	return toc
}

func headingLevel(c *collector, obj map[string]any, key string, def int) int {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return def
	}
	n, ok := asInt(raw)
	if !ok || n < 1 || n > 6 {
		c.add("tableOfContents."+key, expected("integer between 1 and 6", raw))
		return def
	}
	return n
}
