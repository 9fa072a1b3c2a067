package config

import (
	"os"
	"strconv"
	"time"

	"github.com/hyperjump/hairmatch/internal/ranking"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey         = "HAIRMATCH_LLM_API_KEY"
	EnvLegacyAPIKey   = "LLAMA_API_KEY"
	EnvStrategy       = "HAIRMATCH_STRATEGY"
	EnvSessionBackend = "HAIRMATCH_SESSION_BACKEND"
	EnvRedisAddr      = "HAIRMATCH_REDIS_ADDR"
	EnvPort           = "HAIRMATCH_PORT"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Server.DiagnoseRateLimit == 0 {
		cfg.Server.DiagnoseRateLimit = 30
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Recommend.Strategy == "" {
		cfg.Recommend.Strategy = ranking.StrategyRules
	}
	if cfg.Recommend.TopN <= 0 {
		cfg.Recommend.TopN = 3
	}
	if cfg.Ranking.TopN <= 0 {
		cfg.Ranking.TopN = cfg.Recommend.TopN
	}
	cfg.Session.ApplyDefaults()
	cfg.LLM.ApplyDefaults()
	cfg.Ranking.ApplyDefaults()
	cfg.Similarity.ApplyDefaults()
	cfg.Insight.ApplyDefaults()
}

// ApplyEnv overrides cfg from the environment. The hairmatch API key wins over
// the legacy LLAMA_API_KEY.
func ApplyEnv(cfg *Config) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.LLM.APIKey = key
	} else if key := os.Getenv(EnvLegacyAPIKey); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}
	if v := os.Getenv(EnvStrategy); v != "" {
		cfg.Recommend.Strategy = v
	}
	if v := os.Getenv(EnvSessionBackend); v != "" {
		cfg.Session.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Session.Redis.Addr = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
}

// LLMEnabled reports whether an API key is configured.
func (c *Config) LLMEnabled() bool {
	return c.LLM.APIKey != ""
}
