package website

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultSiteConfig(t *testing.T) {
	cfg := DefaultSiteConfig()
	if cfg.Title != "Unentropy" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if !cfg.Logo.ReplacesTitle || len(cfg.Social) != 1 || cfg.Social[0].Icon != "github" {
		t.Errorf("branding = %+v %+v", cfg.Logo, cfg.Social)
	}
	if cfg.PostCacheTTL != 5*time.Minute || cfg.Addr != ":4321" {
		t.Errorf("defaults = %v %q", cfg.PostCacheTTL, cfg.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	os.WriteFile(path, []byte(`
title: Staging
url: https://staging.unentropy.dev
contentDir: content
postCacheTTL: 30s
social:
  - icon: github
    label: GitHub
    href: https://github.com/unentropy/unentropy
`), 0o644)
	t.Setenv("SITE_TITLE", "")
	t.Setenv("DATABASE_PATH", "/tmp/index.db")
	t.Setenv("POST_CACHE_TTL", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Title != "Staging" || cfg.URL != "https://staging.unentropy.dev" || cfg.ContentDir != "content" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.PostCacheTTL != 30*time.Second {
		t.Errorf("PostCacheTTL = %v", cfg.PostCacheTTL)
	}
	if cfg.DatabasePath != "/tmp/index.db" {
		t.Errorf("DatabasePath = %q, want env override", cfg.DatabasePath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	os.WriteFile(path, []byte("url: not-a-url\nlogFormat: xml\n"), 0o644)
	t.Setenv("SITE_URL", "")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"SiteConfig.URL", "SiteConfig.LogFormat"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("UNENTROPY_TEST_VALUE", "  set ")
	if got := EnvOr("UNENTROPY_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("EnvOr = %q", got)
	}
	t.Setenv("UNENTROPY_TEST_VALUE", "")
	if got := EnvOr("UNENTROPY_TEST_VALUE", "fallback"); got != "fallback" {
		t.Errorf("EnvOr = %q", got)
	}
}
