package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	website "github.com/unentropy/website"
	"github.com/unentropy/website/authors"
	"github.com/unentropy/website/content"
	"github.com/unentropy/website/frontmatter"
	"github.com/unentropy/website/scaffold"
)

// runNew writes a new content file for kind ("post" or "doc") and returns its path.
func runNew(cfg website.SiteConfig, dir authors.Directory, kind, title string) (string, error) {
	slug := website.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no usable characters", title)
	}

	var (
		collection string
		record     map[string]any
		data       = scaffold.Data{Title: title, Slug: slug}
	)
	switch kind {
	case "post":
		collection = website.CollectionBlog
		post := content.BlogPost{
			Title: title,
			Date:  time.Now().UTC().Truncate(24 * time.Hour),
			Tags:  []string{},
			Draft: true,
		}
		if id := website.EnvOr("AUTHOR_ID", defaultAuthor(dir)); id != "" {
			post.Authors = authors.Identifier(id)
			data.Author = id
		}
		record = post.Record()
		record["date"] = post.Date.Format(time.DateOnly)
	case "doc":
		collection = website.CollectionDocs
		record = map[string]any{
			"title":       title,
			"description": "",
		}
	default:
		return "", fmt.Errorf("unknown content kind %q (want post or doc)", kind)
	}

	body, err := scaffold.Body(collection, data)
	if err != nil {
		return "", err
	}
	src, err := frontmatter.Format(record, body)
	if err != nil {
		return "", err
	}
	if err := checkGenerated(collection, src); err != nil {
		return "", err
	}

	path := filepath.Join(cfg.ContentDir, collection, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// checkGenerated validates a generated file the same way the loader will.
func checkGenerated(collection string, src []byte) error {
	raw, _, err := frontmatter.Parse(src)
	if err != nil {
		return err
	}
	if collection == website.CollectionBlog {
		_, err = content.ValidateBlogPost(raw)
	} else {
		_, err = content.ValidateDocPage(raw)
	}
	return err
}

func defaultAuthor(dir authors.Directory) string {
	if ids := dir.IDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
