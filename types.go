package website

import (
	"github.com/unentropy/website/content"
)

// Collection names, matching the content directory layout.
const (
	CollectionBlog = "blog"
	CollectionDocs = "docs"
)

// Post is a validated blog post and the file it came from.
type Post struct {
	content.BlogPost
	Slug   string
	Body   string
	Source string // path relative to the content directory
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Doc is a validated documentation page and the file it came from.
type Doc struct {
	content.DocPage
	Slug   string
	Body   string
	Source string
}

// Link returns the site-relative URL of the page.
func (d Doc) Link() string {
	if d.Slug == "" {
		return "/"
	}
	return "/" + d.Slug + "/"
}

// Severity of a Diagnostic.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic is a problem found in one content file.
type Diagnostic struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Field == "" {
		return d.File + ": " + d.Severity + ": " + d.Message
	}
	return d.File + ": " + d.Severity + ": " + d.Field + ": " + d.Message
}
