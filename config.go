package website

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for the site and its tooling.
type SiteConfig struct {
	Title       string       `yaml:"title" json:"title" validate:"required"`
	Description string       `yaml:"description" json:"description,omitempty"`
	URL         string       `yaml:"url" json:"url" validate:"required,url"` // canonical base URL
	Logo        Logo         `yaml:"logo" json:"logo"`
	Social      []SocialLink `yaml:"social" json:"social" validate:"dive"`
	CustomCSS   []string     `yaml:"customCss" json:"customCss,omitempty"`
	Plugins     []string     `yaml:"plugins" json:"plugins,omitempty"` // theme plugins, e.g. starlight-theme-nova

	ContentDir   string        `yaml:"contentDir" json:"-" validate:"required"`   // holds blog/ and docs/
	AuthorsFile  string        `yaml:"authorsFile" json:"-"`                      // optional YAML overlay for the author directory
	DatabasePath string        `yaml:"databasePath" json:"-" validate:"required"` // SQLite content index
	Addr         string        `yaml:"addr" json:"-"`
	PostCacheTTL time.Duration `yaml:"postCacheTTL" json:"-"`

	LogLevel  string `yaml:"logLevel" json:"-"`
	LogFormat string `yaml:"logFormat" json:"-" validate:"omitempty,oneof=json console"`
}

// Logo is the header logo. ReplacesTitle hides the text title next to it.
type Logo struct {
	Src           string `yaml:"src" json:"src,omitempty"`
	ReplacesTitle bool   `yaml:"replacesTitle" json:"replacesTitle,omitempty"`
}

// SocialLink is an icon link shown in the site header.
type SocialLink struct {
	Icon  string `yaml:"icon" json:"icon" validate:"required"`
	Label string `yaml:"label" json:"label" validate:"required"`
	Href  string `yaml:"href" json:"href" validate:"required,url"`
}

// DefaultSiteConfig returns the Unentropy site settings.
func DefaultSiteConfig() SiteConfig {
	cfg := SiteConfig{
		Title: "Unentropy",
		URL:   "https://unentropy.dev",
		Logo: Logo{
			Src:           "./src/assets/logo-icon.svg",
			ReplacesTitle: true,
		},
		Social: []SocialLink{{
			Icon:  "github",
			Label: "GitHub",
			Href:  "https://github.com/unentropy/unentropy",
		}},
		CustomCSS: []string{"./src/styles/custom.css"},
		Plugins:   []string{"starlight-theme-nova"},
	}
	cfg.setDefaults()
	return cfg
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "Unentropy"
	}
	if c.URL == "" {
		c.URL = "http://localhost:4321"
	}
	if c.ContentDir == "" {
		c.ContentDir = "src/content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/content.db"
	}
	if c.Addr == "" {
		c.Addr = ":4321"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

// LoadConfig reads path (if non-empty) over the defaults, applies
// environment overrides and validates the result.
func LoadConfig(path string) (SiteConfig, error) {
	cfg := DefaultSiteConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	c.Title = EnvOr("SITE_TITLE", c.Title)
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Description = EnvOr("SITE_DESCRIPTION", c.Description)
	c.ContentDir = EnvOr("CONTENT_DIR", c.ContentDir)
	c.AuthorsFile = EnvOr("AUTHORS_FILE", c.AuthorsFile)
	c.DatabasePath = EnvOr("DATABASE_PATH", c.DatabasePath)
	c.Addr = EnvOr("ADDR", c.Addr)
	c.LogLevel = EnvOr("LOG_LEVEL", c.LogLevel)
	c.LogFormat = EnvOr("LOG_FORMAT", c.LogFormat)
	if v := EnvOr("POST_CACHE_TTL", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PostCacheTTL = d
		}
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required settings and URL formats.
func (c SiteConfig) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return errors.New(strings.Join(msgs, "; "))
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithRegistry sets the Prometheus registry used for the app's metrics and
// served on /metrics. By default each App gets its own registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}
