package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	website "github.com/unentropy/website"
	"github.com/unentropy/website/authors"
)

func printDiagnostics(w io.Writer, res website.LoadResult) (errs, warnings int) {
	diags := append([]website.Diagnostic(nil), res.Diagnostics...)
	sort.SliceStable(diags, func(i, j int) bool { return diags[i].File < diags[j].File })
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
		if d.Severity == website.SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}

func runCheck(w io.Writer, cfg website.SiteConfig, resolver *authors.Resolver) int {
	res, err := website.LoadContent(cfg.ContentDir, resolver, nil)
	if err != nil {
		log.Error().Err(err).Msg("check failed")
		return 1
	}
	errs, warnings := printDiagnostics(w, res)
	fmt.Fprintf(w, "%d posts, %d docs, %d errors, %d warnings\n", len(res.Posts), len(res.Docs), errs, warnings)
	if res.HasErrors() {
		return 1
	}
	return 0
}

func runIndex(w io.Writer, cfg website.SiteConfig, resolver *authors.Resolver) int {
	app := website.New(cfg, resolver)
	defer app.Close()

	res, err := app.Index()
	if err != nil {
		log.Error().Err(err).Msg("index failed")
		return 1
	}
	printDiagnostics(w, res)
	if res.HasErrors() {
		return 1
	}
	return 0
}

func runServe(cfg website.SiteConfig, resolver *authors.Resolver) int {
	app := website.New(cfg, resolver)
	defer app.Close()

	res, err := app.Index()
	if err != nil {
		log.Error().Err(err).Msg("index failed")
		return 1
	}
	for _, d := range res.Diagnostics {
		log.Warn().Str("file", d.File).Str("field", d.Field).Str("severity", d.Severity).Msg(d.Message)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown failed")
		return 1
	}
	return 0
}

func printAuthors(w io.Writer, dir authors.Directory) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTITLE\tURL")
	for _, id := range dir.IDs() {
		a, _ := dir.Lookup(id)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, a.Name, a.Title, a.URL)
	}
	tw.Flush()
}
