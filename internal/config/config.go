package config

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	once     sync.Once
	instance *Config
)

// OpenLibraryConfig holds the endpoints and politeness settings for the
// remote catalog. Zero values are filled with the public openlibrary.org
// defaults, so a missing section still works.
type OpenLibraryConfig struct {
	SearchURL      string  `yaml:"search_url"`
	CoversURL      string  `yaml:"covers_url"`
	CatalogURL     string  `yaml:"catalog_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RatePerSecond  float64 `yaml:"rate_per_second"`
}

// SearchConfig tunes the interactive search lifecycle.
type SearchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

// FavoritesConfig selects the persistence backend for bookmarked books.
// Backend is "file" or "sqlite".
type FavoritesConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// CLIConfig settings for the interactive shell (not a service).
type CLIConfig struct {
	Debug       bool   `yaml:"debug"`
	HistoryFile string `yaml:"history_file"`
	CoverDir    string `yaml:"cover_dir"`
}

// Config is the root of the configuration tree, matching openshelf.yaml.
type Config struct {
	OpenLibrary OpenLibraryConfig `yaml:"openlibrary"`
	Search      SearchConfig      `yaml:"search"`
	Favorites   FavoritesConfig   `yaml:"favorites"`
	CLI         CLIConfig         `yaml:"cli"`
}

// Get returns the initialized configuration object (singleton).
func Get() *Config {
	once.Do(func() {
		path := os.Getenv("OPENSHELF_CONFIG")
		if path == "" {
			path = "openshelf.yaml"
		}

		instance = &Config{}
		f, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(f, instance); err != nil {
				log.Fatalf("[CONFIG ERROR] Failed to parse YAML: %v", err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("[CONFIG ERROR] Could not read %s: %v", path, err)
		}
		instance.ApplyDefaults()
	})
	return instance
}

// ApplyDefaults fills unset fields with the public openlibrary.org defaults.
func (c *Config) ApplyDefaults() {
	if c.OpenLibrary.SearchURL == "" {
		c.OpenLibrary.SearchURL = "https://openlibrary.org/search.json"
	}
	if c.OpenLibrary.CoversURL == "" {
		c.OpenLibrary.CoversURL = "https://covers.openlibrary.org"
	}
	if c.OpenLibrary.CatalogURL == "" {
		c.OpenLibrary.CatalogURL = "https://openlibrary.org"
	}
	if c.OpenLibrary.TimeoutSeconds <= 0 {
		c.OpenLibrary.TimeoutSeconds = 10
	}
	if c.OpenLibrary.RatePerSecond <= 0 {
		c.OpenLibrary.RatePerSecond = 2
	}
	if c.Search.DebounceMs <= 0 {
		c.Search.DebounceMs = 550
	}
	if c.Favorites.Backend == "" {
		c.Favorites.Backend = "file"
	}
	if c.Favorites.Path == "" {
		c.Favorites.Path = "favorites.json"
	}
	if c.CLI.HistoryFile == "" {
		c.CLI.HistoryFile = ".openshelf_history"
	}
	if c.CLI.CoverDir == "" {
		c.CLI.CoverDir = "."
	}
}

// Timeout returns the HTTP client timeout as a duration.
func (c OpenLibraryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce returns the auto-search quiet period as a duration.
func (c SearchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// CoverPath builds a covers endpoint URL, kind is "id" or "isbn".
func (c OpenLibraryConfig) CoverPath(kind, id, size string) string {
	return fmt.Sprintf("%s/b/%s/%s-%s.jpg", c.CoversURL, kind, id, size)
}
