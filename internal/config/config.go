// Package config loads folio settings from a YAML file, .env files and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/notion"
)

// Config is the full folio configuration.
type Config struct {
	Notion  NotionConfig  `mapstructure:"notion"`
	Content ContentConfig `mapstructure:"content"`
	Site    SiteConfig    `mapstructure:"site"`
	Profile folio.Profile `mapstructure:"profile"`
	Log     LogConfig     `mapstructure:"log"`
}

type NotionConfig struct {
	Token              string        `mapstructure:"token"`
	PostsDatabaseID    string        `mapstructure:"posts_database_id"`
	ProjectsDatabaseID string        `mapstructure:"projects_database_id"`
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type ContentConfig struct {
	PublishedOnly  bool   `mapstructure:"published_only"`
	StatusProperty string `mapstructure:"status_property"`
	StatusType     string `mapstructure:"status_type"`
	PublishedValue string `mapstructure:"published_value"`
}

type SiteConfig struct {
	Name        string        `mapstructure:"name"`
	URL         string        `mapstructure:"url"`
	Description string        `mapstructure:"description"`
	Author      string        `mapstructure:"author"`
	Addr        string        `mapstructure:"addr"`
	Revalidate  time.Duration `mapstructure:"revalidate"`
	RateLimit   int           `mapstructure:"rate_limit"`
	StaticDir   string        `mapstructure:"static_dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings lists the environment variables read for each key, in
// priority order.
var envBindings = map[string][]string{
	"notion.token":                {"WORKSPACE_AUTH_TOKEN", "NOTION_TOKEN"},
	"notion.posts_database_id":    {"POSTS_DATABASE_ID", "NOTION_DATABASE_ID"},
	"notion.projects_database_id": {"PROJECTS_DATABASE_ID", "NOTION_PROJECTS_DATABASE_ID"},
	"notion.base_url":             {"FOLIO_NOTION_BASE_URL"},
	"content.published_only":      {"FOLIO_CONTENT_PUBLISHED_ONLY"},
	"site.name":                   {"FOLIO_SITE_NAME"},
	"site.url":                    {"FOLIO_SITE_URL"},
	"site.description":            {"FOLIO_SITE_DESCRIPTION"},
	"site.author":                 {"FOLIO_SITE_AUTHOR"},
	"site.addr":                   {"FOLIO_SITE_ADDR"},
	"log.level":                   {"FOLIO_LOG_LEVEL", "LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.posts_database_id", "")
	v.SetDefault("notion.projects_database_id", "")
	v.SetDefault("notion.base_url", notion.DefaultBaseURL)
	v.SetDefault("notion.timeout", 10*time.Second)

	v.SetDefault("content.published_only", false)
	v.SetDefault("content.status_property", "Status")
	v.SetDefault("content.status_type", "select")
	v.SetDefault("content.published_value", "Published")

	v.SetDefault("site.name", "Portfolio")
	v.SetDefault("site.url", "http://localhost:3000")
	v.SetDefault("site.description", "")
	v.SetDefault("site.author", "")
	v.SetDefault("site.addr", ":3000")
	v.SetDefault("site.revalidate", folio.DefaultRevalidate)
	v.SetDefault("site.rate_limit", folio.DefaultRateLimit)
	v.SetDefault("site.static_dir", "public")

	v.SetDefault("log.level", "info")
}

// Loader reads configuration and can watch the config file for changes.
type Loader struct {
	v *viper.Viper
	// EnvFiles are loaded into the environment before reading. Missing
	// files are skipped.
	EnvFiles []string
	file     string
}

// NewLoader returns a Loader for file. An empty file searches for
// folio.yaml in the working directory and is optional.
func NewLoader(file string) *Loader {
	return &Loader{v: viper.New(), EnvFiles: []string{".env"}, file: file}
}

// Load reads the configuration.
func (l *Loader) Load() (Config, error) {
	for _, f := range l.EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	v := l.v
	setDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || l.file != "" {
			return Config{}, fmt.Errorf("config: read %s: %w", l.describe(), err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

func (l *Loader) describe() string {
	if l.file != "" {
		return l.file
	}
	return "folio.yaml"
}

// FileUsed returns the config file that was read, or "" when none was.
func (l *Loader) FileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch calls fn with the new configuration every time the config file is
// written. It does nothing when no file was read.
func (l *Loader) Watch(fn func(Config, error)) {
	if l.FileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(l.decode())
	})
	l.v.WatchConfig()
}

// Configured reports whether workspace credentials are present.
func (c Config) Configured() bool {
	return c.Notion.Token != ""
}

// FetcherConfig returns the content fetcher settings.
func (c Config) FetcherConfig() content.Config {
	return content.Config{
		PostsDatabaseID:    c.Notion.PostsDatabaseID,
		ProjectsDatabaseID: c.Notion.ProjectsDatabaseID,
		PublishedOnly:      c.Content.PublishedOnly,
		StatusProperty:     c.Content.StatusProperty,
		StatusType:         c.Content.StatusType,
		PublishedValue:     c.Content.PublishedValue,
	}
}

// SiteConfig returns the web application settings.
func (c Config) SiteConfig() folio.SiteConfig {
	return folio.SiteConfig{
		Name:        c.Site.Name,
		URL:         c.Site.URL,
		Description: c.Site.Description,
		Author:      c.Site.Author,
		Addr:        c.Site.Addr,
		Revalidate:  c.Site.Revalidate,
		RateLimit:   c.Site.RateLimit,
		Profile:     c.Profile,
	}
}
