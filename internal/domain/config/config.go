package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gazette/internal/catalog"
	domainerr "gazette/internal/domain/errors"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override, e.g. GAZETTE_SERVER_ADDR.
const EnvPrefix = "GAZETTE_"

type Config struct {
	Site    SiteConfig    `yaml:"site" envPrefix:"SITE_"`
	Content ContentConfig `yaml:"content" envPrefix:"CONTENT_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
}

type SiteConfig struct {
	Title       string `yaml:"title" env:"TITLE"`
	SiteURL     string `yaml:"site_url" env:"URL"`
	Language    string `yaml:"language" env:"LANGUAGE"`
	Description string `yaml:"description" env:"DESCRIPTION"`
	Theme       string `yaml:"theme" env:"THEME"`
}

type ContentConfig struct {
	SourceDir    string `yaml:"source_dir" env:"SOURCE_DIR"`
	IndexPath    string `yaml:"index_path" env:"INDEX_PATH"`
	IncludeDraft bool   `yaml:"include_draft" env:"INCLUDE_DRAFT"`
	DefaultImage string `yaml:"default_image" env:"DEFAULT_IMAGE"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	Dev             bool          `yaml:"dev" env:"DEV"`
	StaticDir       string        `yaml:"static_dir" env:"STATIC_DIR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Gazette",
			SiteURL:  "http://localhost:8080",
			Language: "en",
			Theme:    catalog.DefaultTheme,
		},
		Content: ContentConfig{
			SourceDir:    "content",
			IndexPath:    ".gazette/index.db",
			IncludeDraft: false,
			DefaultImage: "/static/Image/logo.jpg",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if _, ok := catalog.LookupTheme(c.Site.Theme); !ok {
		ve.Add("site.theme", fmt.Sprintf("unknown theme %q", c.Site.Theme))
	}

	if strings.TrimSpace(c.Content.SourceDir) == "" {
		ve.Add("content.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Content.IndexPath) == "" {
		ve.Add("content.index_path", "must not be empty")
	}
	if img := strings.TrimSpace(c.Content.DefaultImage); img == "" {
		ve.Add("content.default_image", "must not be empty")
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		ve.Add("server.addr", "must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		ve.Add("server.read_timeout", "must not be negative")
	}
	if c.Server.WriteTimeout < 0 {
		ve.Add("server.write_timeout", "must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		ve.Add("server.shutdown_timeout", "must be positive")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Load reads path over Default(), applies GAZETTE_* environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadOrDefault behaves like Load but treats a missing file as empty.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	return cfg, err
}

func finish(cfg Config) (Config, error) {
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
