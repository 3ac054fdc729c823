package website

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unentropy/website/authors"
	"github.com/unentropy/website/content"
	"github.com/unentropy/website/frontmatter"
	"github.com/unentropy/website/logging"
	"github.com/unentropy/website/markdown"
	"github.com/unentropy/website/metrics"
)

// LoadResult is the outcome of reading a content directory. Files that fail
// validation are left out of Posts and Docs and reported in Diagnostics.
type LoadResult struct {
	Posts       []Post
	Docs        []Doc
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (r LoadResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *LoadResult) report(file, severity, field, msg string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{File: file, Severity: severity, Field: field, Message: msg})
}

func (r *LoadResult) reportValidation(file string, err error) {
	var ve *content.ValidationError
	if !errors.As(err, &ve) {
		r.report(file, SeverityError, "", err.Error())
		return
	}
	for _, fe := range ve.Errors {
		r.report(file, SeverityError, fe.Path, fe.Reason)
	}
}

// dropRejected removes entries the index refused to store and records why.
func (r *LoadResult) dropRejected(rejected []Diagnostic) {
	bad := make(map[string]bool, len(rejected))
	for _, d := range rejected {
		bad[d.File] = true
	}
	posts := r.Posts[:0]
	for _, p := range r.Posts {
		if !bad[p.Source] {
			posts = append(posts, p)
		}
	}
	r.Posts = posts
	docs := r.Docs[:0]
	for _, d := range r.Docs {
		if !bad[d.Source] {
			docs = append(docs, d)
		}
	}
	r.Docs = docs
	r.Diagnostics = append(r.Diagnostics, rejected...)
}

// LoadContent reads blog/ and docs/ under dir. Collection directories that do
// not exist are skipped. m may be nil.
func LoadContent(dir string, resolver *authors.Resolver, m *metrics.Metrics) (LoadResult, error) {
	var res LoadResult
	if _, err := os.Stat(dir); err != nil {
		return res, fmt.Errorf("content dir: %w", err)
	}
	l := &loader{root: dir, resolver: resolver, metrics: m, result: &res}
	if err := l.walk(CollectionBlog, l.loadPost); err != nil {
		return res, err
	}
	if err := l.walk(CollectionDocs, l.loadDoc); err != nil {
		return res, err
	}
	sort.SliceStable(res.Posts, func(i, j int) bool {
		if !res.Posts[i].Date.Equal(res.Posts[j].Date) {
			return res.Posts[i].Date.After(res.Posts[j].Date)
		}
		return res.Posts[i].Slug < res.Posts[j].Slug
	})
	return res, nil
}

type loader struct {
	root     string
	resolver *authors.Resolver
	metrics  *metrics.Metrics
	result   *LoadResult
}

func (l *loader) walk(collection string, load func(rel, slug string, src []byte)) error {
	base := filepath.Join(l.root, collection)
	if _, err := os.Stat(base); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	seen := make(map[string]string)
	return filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != base && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") || !isContentFile(name) {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		inCollection, _ := filepath.Rel(base, p)
		slug := slugFromPath(filepath.ToSlash(inCollection))

		if l.metrics != nil {
			l.metrics.FilesLoaded.WithLabelValues(collection).Inc()
		}
		if prev, dup := seen[slug]; dup {
			l.result.report(rel, SeverityError, "", fmt.Sprintf("duplicate slug %q (also used by %s)", slug, prev))
			return nil
		}
		seen[slug] = rel

		src, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		load(rel, slug, src)
		return nil
	})
}

func (l *loader) failed(collection string) {
	if l.metrics != nil {
		l.metrics.ValidationFailures.WithLabelValues(collection).Inc()
	}
}

func (l *loader) loadPost(rel, slug string, src []byte) {
	log := logging.WithFile(CollectionBlog, rel)
	if slug == "" {
		l.result.report(rel, SeverityError, "", "blog post needs a file name other than index")
		l.failed(CollectionBlog)
		return
	}
	raw, body, err := frontmatter.Parse(src)
	if err != nil {
		l.result.report(rel, SeverityError, "", err.Error())
		l.failed(CollectionBlog)
		return
	}
	post, err := content.ValidateBlogPost(raw)
	if err != nil {
		l.result.reportValidation(rel, err)
		l.failed(CollectionBlog)
		log.Debug().Err(err).Msg("rejected")
		return
	}
	if post.Cover != nil && !l.resolveCover(rel, post.Cover) {
		l.failed(CollectionBlog)
		return
	}
	if post.Metrics == nil {
		if words := markdown.WordCount(body); words > 0 {
			post.Metrics = &content.Metrics{
				Words:       float64(words),
				ReadingTime: float64(markdown.ReadingTime(words)),
			}
		}
	}
	if post.Excerpt == "" {
		post.Excerpt = markdown.Summary(body, 160)
	}
	if l.resolver != nil {
		for _, id := range l.resolver.Unresolved(post.Authors) {
			l.result.report(rel, SeverityWarning, "authors", fmt.Sprintf("unknown author %q", string(id)))
			if l.metrics != nil {
				l.metrics.UnresolvedAuthors.Inc()
			}
		}
	}
	l.result.Posts = append(l.result.Posts, Post{BlogPost: post, Slug: slug, Body: body, Source: rel})
	log.Debug().Str("slug", slug).Msg("loaded")
}

// resolveCover replaces relative cover paths with measured image references.
// Site-absolute paths and URLs are left as they are.
func (l *loader) resolveCover(rel string, c *content.Cover) bool {
	ok := true
	measure := func(field string, img *content.Image) {
		if img == nil || img.IsAsset() || !isRelativeAsset(img.Src) {
			return
		}
		assetRel := path.Join(path.Dir(rel), img.Src)
		sized, err := ReadImageSize(filepath.Join(l.root, filepath.FromSlash(assetRel)))
		if err != nil {
			l.result.report(rel, SeverityError, field, fmt.Sprintf("cover image %s: %v", img.Src, unwrapPathError(err)))
			ok = false
			return
		}
		sized.Src = assetRel
		*img = sized
	}
	measure("cover.image", c.Image)
	measure("cover.dark", c.Dark)
	measure("cover.light", c.Light)
	return ok
}

func (l *loader) loadDoc(rel, slug string, src []byte) {
	raw, body, err := frontmatter.Parse(src)
	if err != nil {
		l.result.report(rel, SeverityError, "", err.Error())
		l.failed(CollectionDocs)
		return
	}
	page, err := content.ValidateDocPage(raw)
	if err != nil {
		l.result.reportValidation(rel, err)
		l.failed(CollectionDocs)
		return
	}
	l.result.Docs = append(l.result.Docs, Doc{DocPage: page, Slug: slug, Body: body, Source: rel})
}

func isContentFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

func isRelativeAsset(src string) bool {
	return strings.HasPrefix(src, "./") || strings.HasPrefix(src, "../")
}

func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// slugFromPath turns "Guides/Getting Started.md" into "guides/getting-started".
// A trailing index segment is dropped, so "index.md" maps to "".
func slugFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	parts := strings.Split(rel, "/")
	if strings.EqualFold(parts[len(parts)-1], "index") {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
