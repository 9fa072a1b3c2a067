// Package config provides configuration loading and structs for the hairmatch server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/hairmatch/internal/insight"
	"github.com/hyperjump/hairmatch/internal/llm"
	"github.com/hyperjump/hairmatch/internal/ranking"
	"github.com/hyperjump/hairmatch/internal/session"
	"github.com/hyperjump/hairmatch/internal/similarity"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool                  `yaml:"debug"`
	Server     ServerConfig          `yaml:"server"`
	Catalog    CatalogConfig         `yaml:"catalog"`
	Session    session.Config        `yaml:"session"`
	LLM        llm.Config            `yaml:"llm"`
	Recommend  RecommendConfig       `yaml:"recommend"`
	Ranking    ranking.RankingConfig `yaml:"ranking"`
	Similarity similarity.Config     `yaml:"similarity"`
	Insight    insight.Config        `yaml:"insight"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // default: 60s
	// DiagnoseRateLimit is the number of diagnose requests allowed per client IP per minute.
	DiagnoseRateLimit int      `yaml:"diagnose_rate_limit"` // default: 30
	CORSOrigins       []string `yaml:"cors_origins"`        // default: ["*"]
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig locates the product catalog and its search index.
type CatalogConfig struct {
	// Path is an .xlsx, .yaml/.yml or .json catalog. Empty uses the built-in catalog.
	Path string `yaml:"path"`
	// SearchIndexPath persists the product search index. Empty keeps it in memory.
	SearchIndexPath string `yaml:"search_index_path"`
}

// RecommendConfig selects the scoring strategy and which external capabilities are used.
type RecommendConfig struct {
	Strategy string `yaml:"strategy"` // rules or similarity; default: rules
	TopN     int    `yaml:"top_n"`    // default: 3
	// The capabilities below require an LLM API key; each defaults to on when unset.
	Insights             *bool `yaml:"insights"`
	MatchScoring         *bool `yaml:"match_scoring"`
	DetailedExplanations *bool `yaml:"detailed_explanations"`
}

func boolOrDefault(v *bool) bool {
	if v != nil {
		return *v
	}
	return true
}

// InsightsEnabled reports whether free-text insights are requested; defaults to true when unset.
func (r *RecommendConfig) InsightsEnabled() bool { return boolOrDefault(r.Insights) }

// MatchScoringEnabled reports whether model match scoring is requested; defaults to true when unset.
func (r *RecommendConfig) MatchScoringEnabled() bool { return boolOrDefault(r.MatchScoring) }

// DetailedExplanationsEnabled reports whether model explanations are requested; defaults to true when unset.
func (r *RecommendConfig) DetailedExplanationsEnabled() bool {
	return boolOrDefault(r.DetailedExplanations)
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, configDir)
	cfg.Catalog.SearchIndexPath = expandPath(cfg.Catalog.SearchIndexPath, configDir)
	cfg.Session.Path = expandPath(cfg.Session.Path, configDir)

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
