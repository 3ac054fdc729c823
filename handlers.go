package website

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unentropy/website/authors"
	"github.com/unentropy/website/content"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/site", a.handleSite)
	api.GET("/posts", a.handlePosts)
	api.GET("/posts/*", a.handlePost)
	api.GET("/tags", a.handleTags)
	api.GET("/authors", a.handleAuthors)
	api.GET("/authors/:id/posts", a.handleAuthorPosts)
	api.POST("/authors/resolve", a.handleResolveAuthors, a.limiter.Middleware)
	api.GET("/docs", a.handleDocs)
	api.GET("/docs/*", a.handleDoc)
	api.POST("/validate/:collection", a.handleValidate, a.limiter.Middleware)
}

// postView is the JSON shape of a post in listings.
type postView struct {
	Slug        string           `json:"slug"`
	Link        string           `json:"link"`
	Title       string           `json:"title"`
	Date        string           `json:"date"`
	LastUpdated string           `json:"lastUpdated,omitempty"`
	Excerpt     string           `json:"excerpt,omitempty"`
	Tags        []string         `json:"tags"`
	Authors     []authors.Author `json:"authors"`
	Cover       *content.Cover   `json:"cover,omitempty"`
	Featured    bool             `json:"featured,omitempty"`
	Metrics     *content.Metrics `json:"metrics,omitempty"`
}

type postDetail struct {
	postView
	Body    string     `json:"body"`
	Related []postView `json:"related"`
	JSONLD  string     `json:"jsonLd"`
}

type docView struct {
	content.DocPage
	Slug string `json:"slug"`
	Link string `json:"link"`
	Body string `json:"body,omitempty"`
}

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []content.FieldError `json:"fields,omitempty"`
}

func (a *App) viewPost(p Post) postView {
	v := postView{
		Slug:     p.Slug,
		Link:     p.Link(),
		Title:    p.Title,
		Date:     p.Date.Format(time.DateOnly),
		Excerpt:  p.Excerpt,
		Tags:     p.Tags,
		Authors:  a.Resolver.ResolveMany(p.Authors),
		Cover:    p.Cover,
		Featured: p.Featured,
		Metrics:  p.Metrics,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if p.LastUpdated != nil {
		v.LastUpdated = p.LastUpdated.Format(time.DateOnly)
	}
	return v
}

func (a *App) viewPosts(posts []Post) []postView {
	out := make([]postView, len(posts))
	for i, p := range posts {
		out[i] = a.viewPost(p)
	}
	return out
}

func (a *App) handleSite(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"site":   a.Config,
		"jsonLd": WebsiteJsonLD(a.Config),
	})
}

func (a *App) handlePosts(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.QueryParam("tag"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.viewPosts(posts))
}

func (a *App) handlePost(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postDetail{
		postView: a.viewPost(post),
		Body:     post.Body,
		Related:  a.viewPosts(FilterRelatedPosts(post, posts)),
		JSONLD:   BlogPostingJsonLD(post, a.Resolver.ResolveMany(post.Authors), a.Config),
	})
}

func (a *App) handleTags(c echo.Context) error {
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, tags)
}

type authorView struct {
	ID string `json:"id"`
	authors.Author
}

func (a *App) handleAuthors(c echo.Context) error {
	dir := a.Resolver.Directory()
	out := make([]authorView, 0, dir.Len())
	for _, id := range dir.IDs() {
		au, _ := dir.Lookup(id)
		out = append(out, authorView{ID: id, Author: au})
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleAuthorPosts(c echo.Context) error {
	id := c.Param("id")
	if _, ok := a.Resolver.Directory().Lookup(id); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "author not found")
	}
	posts, err := a.Cache.ListPostsByAuthor(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.viewPosts(posts))
}

// handleResolveAuthors resolves an arbitrary author reference posted as the
// JSON request body.
func (a *App) handleResolveAuthors(c echo.Context) error {
	var raw any
	if err := decodeJSON(c, &raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	ref, err := content.ParseAuthorReference(raw)
	if err != nil {
		return validationFailed(c, err)
	}
	unresolved := []string{}
	for _, id := range a.Resolver.Unresolved(ref) {
		unresolved = append(unresolved, string(id))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"authors":    a.Resolver.ResolveMany(ref),
		"unresolved": unresolved,
	})
}

func (a *App) handleDocs(c echo.Context) error {
	docs, err := a.Store.ListDocs()
	if err != nil {
		return err
	}
	out := make([]docView, 0, len(docs))
	for _, d := range docs {
		if d.Sidebar.Hidden {
			continue
		}
		out = append(out, docView{DocPage: d.DocPage, Slug: d.Slug, Link: d.Link()})
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleDoc(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	d, err := a.Store.GetDoc(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "page not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, docView{DocPage: d.DocPage, Slug: d.Slug, Link: d.Link(), Body: d.Body})
}

// handleValidate checks a frontmatter record posted as a JSON object.
func (a *App) handleValidate(c echo.Context) error {
	var raw map[string]any
	if err := decodeJSON(c, &raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if raw == nil {
		raw = map[string]any{}
	}
	switch c.Param("collection") {
	case CollectionBlog:
		p, err := content.ValidateBlogPost(raw)
		if err != nil {
			return validationFailed(c, err)
		}
		unresolved := []string{}
		for _, id := range a.Resolver.Unresolved(p.Authors) {
			unresolved = append(unresolved, string(id))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"valid":      true,
			"post":       p,
			"authors":    a.Resolver.ResolveMany(p.Authors),
			"unresolved": unresolved,
		})
	case CollectionDocs:
		d, err := content.ValidateDocPage(raw)
		if err != nil {
			return validationFailed(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"valid": true, "page": d})
	}
	return echo.NewHTTPError(http.StatusNotFound, "unknown collection")
}

// decodeJSON reads the request body directly; echo's binder would also copy
// path parameters into map destinations.
func decodeJSON(c echo.Context, v any) error {
	return json.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize)).Decode(v)
}

const maxBodySize = 1 << 20

func validationFailed(c echo.Context, err error) error {
	var ve *content.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "invalid frontmatter", Fields: ve.Errors})
	}
	return err
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	docs, err := a.Store.ListDocs()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, docs)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		a.log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("server error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Error: msg})
}
