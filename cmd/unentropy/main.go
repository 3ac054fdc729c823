package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	website "github.com/unentropy/website"
	"github.com/unentropy/website/authors"
	"github.com/unentropy/website/logging"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultConfigFile = "site.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("unentropy %s\n", version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, resolver, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code := 0
	switch os.Args[1] {
	case "check":
		code = runCheck(os.Stdout, cfg, resolver)
	case "index":
		code = runIndex(os.Stdout, cfg, resolver)
	case "serve":
		code = runServe(cfg, resolver)
	case "authors":
		printAuthors(os.Stdout, resolver.Directory())
	case "new":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: unentropy new post|doc <title>")
			os.Exit(1)
		}
		path, err := runNew(cfg, resolver.Directory(), os.Args[2], os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created %s\n", path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		code = 1
	}
	os.Exit(code)
}

// setup loads .env, the site config and the author directory, and
// initializes logging.
func setup() (website.SiteConfig, *authors.Resolver, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return website.SiteConfig{}, nil, fmt.Errorf("load .env: %w", err)
	}

	path := website.EnvOr("SITE_CONFIG", "")
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := website.LoadConfig(path)
	if err != nil {
		return cfg, nil, err
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dir := authors.DefaultDirectory()
	if cfg.AuthorsFile != "" {
		dir, err = authors.LoadDirectory(cfg.AuthorsFile, dir)
		if err != nil {
			return cfg, nil, err
		}
	}
	log.Debug().Str("config", path).Int("authors", dir.Len()).Msg("configuration loaded")
	return cfg, authors.NewResolver(dir), nil
}

func printUsage() {
	fmt.Println(`unentropy - content tooling for the Unentropy website

Usage:
  unentropy <command> [arguments]

Commands:
  check               Validate blog and docs frontmatter
  index               Rebuild the SQLite content index
  serve               Index content and serve the content API
  authors             List the author directory
  new post <title>    Create a blog post
  new doc <title>     Create a documentation page
  version             Print the version
  help                Show this help message

Configuration is read from site.yaml (or $SITE_CONFIG) and environment
variables; a .env file in the working directory is loaded first.`)
}
