// Package website indexes and serves the content of the Unentropy site.
// It loads the blog and docs collections from Markdown files, validates their
// frontmatter, resolves post authors against the author directory, stores
// the result in a SQLite index and exposes it through a read-only JSON API
// together with an RSS feed and a sitemap.
package website

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/unentropy/website/authors"
	"github.com/unentropy/website/logging"
	"github.com/unentropy/website/metrics"
)

// App wires together the content index, cache, author resolver, handlers
// and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Resolver *authors.Resolver
	Metrics  *metrics.Metrics

	log          zerolog.Logger
	limiter      *RateLimiter
	registry     *prometheus.Registry
	customRoutes []func(*App)
}

// New creates an App. A nil resolver uses the default author directory.
func New(cfg SiteConfig, resolver *authors.Resolver, opts ...Option) *App {
	cfg.setDefaults()
	if resolver == nil {
		resolver = authors.NewResolver(authors.DefaultDirectory())
	}

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Resolver: resolver,
		log:      logging.WithComponent("website"),
		limiter:  NewRateLimiter(60, time.Minute),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	a.Metrics = metrics.New(a.registry)
	return a
}

// Init opens the content index and registers middleware and routes.
func (a *App) Init() error {
	if a.Store != nil {
		return nil
	}
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("website: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Index reloads the content directory and replaces the stored index with the
// files that passed validation. Diagnostics are returned to the caller;
// only I/O and database failures are errors.
func (a *App) Index() (LoadResult, error) {
	if err := a.Init(); err != nil {
		return LoadResult{}, err
	}
	res, err := LoadContent(a.Config.ContentDir, a.Resolver, a.Metrics)
	if err != nil {
		return res, fmt.Errorf("website: load content: %w", err)
	}
	rejected, err := a.Store.Rebuild(res.Posts, res.Docs)
	if err != nil {
		return res, fmt.Errorf("website: rebuild index: %w", err)
	}
	if len(rejected) > 0 {
		res.dropRejected(rejected)
	}
	a.Metrics.IndexedPosts.Set(float64(len(res.Posts)))
	a.Metrics.IndexedDocs.Set(float64(len(res.Docs)))
	a.Cache.Invalidate()

	a.log.Info().
		Int("posts", len(res.Posts)).
		Int("docs", len(res.Docs)).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("content indexed")
	return res, nil
}

// Start initializes the app and serves the API until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.log.Info().Str("addr", a.Config.Addr).Msg("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases the content index.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
