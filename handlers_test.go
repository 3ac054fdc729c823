package website

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"

	"github.com/unentropy/website/content"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, sampleContent)
	writePNG(t, filepath.Join(root, "blog", "Second Post", "chart.png"), 40, 20)

	cfg := DefaultSiteConfig()
	cfg.URL = "https://unentropy.dev"
	cfg.Description = "Metrics for your repository"
	cfg.ContentDir = root
	cfg.DatabasePath = filepath.Join(t.TempDir(), "content.db")

	app := New(cfg, nil)
	t.Cleanup(func() { app.Close() })
	if _, err := app.Index(); err != nil {
		t.Fatalf("Index: %v", err)
	}
	return app
}

func doRequest(t *testing.T, app *App, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHandlePosts(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/api/posts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	posts := decode[[]postView](t, rec)
	if len(posts) != 2 || posts[0].Slug != "second-post" || posts[1].Slug != "hello" {
		t.Fatalf("posts = %+v", posts)
	}

	var names []string
	for _, a := range posts[0].Authors {
		names = append(names, a.Name)
	}
	if want := []string{"Mateusz Tymek", "Guest Writer"}; !reflect.DeepEqual(names, want) {
		t.Errorf("authors = %v, want %v", names, want)
	}
	if posts[0].LastUpdated != "2024-04-01" || posts[0].Link != "/blog/second-post/" {
		t.Errorf("post = %+v", posts[0])
	}

	rec = doRequest(t, app, http.MethodGet, "/api/posts?tag=INTRO", "")
	posts = decode[[]postView](t, rec)
	if len(posts) != 1 || posts[0].Slug != "hello" {
		t.Errorf("tag filter = %+v", posts)
	}
}

func TestHandlePost(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/api/posts/hello/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	post := decode[postDetail](t, rec)
	if post.Title != "Hello" || post.Date != "2024-01-01" {
		t.Errorf("post = %+v", post.postView)
	}
	if len(post.Related) != 1 || post.Related[0].Slug != "second-post" {
		t.Errorf("related = %+v", post.Related)
	}
	if !strings.Contains(post.JSONLD, `"name":"Mateusz Tymek"`) {
		t.Errorf("jsonLd = %s", post.JSONLD)
	}
	if !strings.Contains(post.Body, "Welcome to the blog") {
		t.Errorf("body = %q", post.Body)
	}
}

func TestHandlePostNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, slug := range []string{"missing", "draft"} {
		rec := doRequest(t, app, http.MethodGet, "/api/posts/"+slug, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", slug, rec.Code)
		}
		if got := decode[errorResponse](t, rec); got.Error != "post not found" {
			t.Errorf("%s: error = %q", slug, got.Error)
		}
	}
}

func TestHandleTags(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/api/tags", "")
	tags := decode[[]string](t, rec)
	if want := []string{"go", "intro"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestHandleAuthors(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/api/authors", "")
	list := decode[[]authorView](t, rec)
	if len(list) != 1 || list[0].ID != "mat" || list[0].Title != "CTO & Co-founder at Cleeng" {
		t.Fatalf("authors = %+v", list)
	}

	rec = doRequest(t, app, http.MethodGet, "/api/authors/mat/posts", "")
	if posts := decode[[]postView](t, rec); len(posts) != 2 {
		t.Errorf("posts by mat = %+v", posts)
	}

	rec = doRequest(t, app, http.MethodGet, "/api/authors/ghost/posts", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown author status = %d", rec.Code)
	}
}

func TestHandleResolveAuthors(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodPost, "/api/authors/resolve", `["mat", {"name": "Guest"}, "ghost"]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[struct {
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		Unresolved []string `json:"unresolved"`
	}](t, rec)
	if len(got.Authors) != 2 || got.Authors[0].Name != "Mateusz Tymek" || got.Authors[1].Name != "Guest" {
		t.Errorf("authors = %+v", got.Authors)
	}
	if !reflect.DeepEqual(got.Unresolved, []string{"ghost"}) {
		t.Errorf("unresolved = %v", got.Unresolved)
	}

	rec = doRequest(t, app, http.MethodPost, "/api/authors/resolve", `{"url": "not a url"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decode[errorResponse](t, rec)
	want := []content.FieldError{
		{Path: "authors.name", Reason: "required"},
		{Path: "authors.url", Reason: "invalid url"},
	}
	if !reflect.DeepEqual(resp.Fields, want) {
		t.Errorf("fields = %+v, want %+v", resp.Fields, want)
	}
}

func TestHandleValidate(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodPost, "/api/validate/blog", `{"title": "Hello", "date": "2024-01-01", "authors": "mat"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"Mateusz Tymek"`) {
		t.Errorf("body = %s", rec.Body)
	}

	rec = doRequest(t, app, http.MethodPost, "/api/validate/blog", `{"date": true, "cover": {"alt": "x"}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decode[errorResponse](t, rec)
	var paths []string
	for _, fe := range resp.Fields {
		paths = append(paths, fe.Path)
	}
	if want := []string{"title", "date", "cover"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	rec = doRequest(t, app, http.MethodPost, "/api/validate/docs", `{"title": "Guide", "tableOfContents": false}`)
	if rec.Code != http.StatusOK {
		t.Errorf("docs status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, app, http.MethodPost, "/api/validate/changelog", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown collection status = %d", rec.Code)
	}

	rec = doRequest(t, app, http.MethodPost, "/api/validate/blog", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d", rec.Code)
	}
}

func TestHandleDocs(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/api/docs", "")
	docs := decode[[]docView](t, rec)
	if len(docs) != 2 || docs[0].Slug != "guides/getting-started" || docs[1].Link != "/" {
		t.Fatalf("docs = %+v", docs)
	}

	rec = doRequest(t, app, http.MethodGet, "/api/docs/guides/getting-started", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if d := decode[docView](t, rec); d.Title != "Getting Started" || !strings.Contains(d.Body, "Install it.") {
		t.Errorf("doc = %+v", d)
	}

	rec = doRequest(t, app, http.MethodGet, "/api/docs/bad", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("invalid doc status = %d", rec.Code)
	}
}

func TestHandleFeed(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/feed.xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}

	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if feed.Title != "Unentropy" || len(feed.Items) != 2 {
		t.Fatalf("feed = %q with %d items", feed.Title, len(feed.Items))
	}
	item := feed.Items[0]
	if item.Title != "Second" || item.Link != "https://unentropy.dev/blog/second-post/" {
		t.Errorf("item = %q %q", item.Title, item.Link)
	}
	if !strings.Contains(rec.Body.String(), "<dc:creator>Mateusz Tymek, Guest Writer</dc:creator>") {
		t.Errorf("feed does not credit the resolved authors:\n%s", rec.Body)
	}
	if !reflect.DeepEqual(item.Categories, []string{"go"}) {
		t.Errorf("categories = %v", item.Categories)
	}
	if item.PublishedParsed == nil || item.PublishedParsed.Format("2006-01-02") != "2024-03-05" {
		t.Errorf("published = %v", item.PublishedParsed)
	}
}

func TestHandleSitemap(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/sitemap.xml", "")
	body := rec.Body.String()
	for _, want := range []string{
		"<loc>https://unentropy.dev/blog/hello/</loc><lastmod>2024-01-01</lastmod>",
		"<loc>https://unentropy.dev/blog/second-post/</loc><lastmod>2024-04-01</lastmod>",
		"<loc>https://unentropy.dev/guides/getting-started/</loc>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "/blog/draft/") {
		t.Error("sitemap lists a draft")
	}
}

func TestHandleSiteAndMetrics(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/api/site", "")
	site := decode[struct {
		Site struct {
			Title string `json:"title"`
		} `json:"site"`
		JSONLD string `json:"jsonLd"`
	}](t, rec)
	if site.Site.Title != "Unentropy" || !strings.Contains(site.JSONLD, `"@type":"WebSite"`) {
		t.Errorf("site = %+v", site)
	}
	if strings.Contains(rec.Body.String(), "content.db") {
		t.Error("site response leaks the database path")
	}

	rec = doRequest(t, app, http.MethodGet, "/metrics", "")
	body := rec.Body.String()
	for _, want := range []string{
		"unentropy_index_posts 3",
		"unentropy_index_docs 2",
		`unentropy_api_requests_total{code="200",route="/api/site"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
