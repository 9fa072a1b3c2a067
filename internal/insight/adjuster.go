package insight

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/metrics"
	"github.com/hyperjump/hairmatch/internal/models"
)

// Extractor reports which vocabulary tags apply to a free-text description.
type Extractor interface {
	Extract(ctx context.Context, text string, vocabulary []string) (map[string]bool, error)
}

// Rule grants Bonus to products matching Tag. A product matches when any of
// Tokens is among its features, target hair types, or target concerns, or,
// when MinFeatures is set, when it lists at least that many features.
type Rule struct {
	Tag         string   `yaml:"tag"`
	Tokens      []string `yaml:"tokens"`
	MinFeatures int      `yaml:"min_features"`
	Bonus       float64  `yaml:"bonus"`
}

func (r Rule) matches(p *models.Product) bool {
	if r.MinFeatures > 0 && len(p.Features) >= r.MinFeatures {
		return true
	}
	return p.HasAnyTag(r.Tokens...)
}

// DefaultRules returns the per-tag increments, largest first.
func DefaultRules() []Rule {
	return []Rule{
		{Tag: TagChemicalDamage, Tokens: []string{"repair"}, Bonus: 1.0},
		{Tag: TagHeatDamage, Tokens: []string{"strengthening", "heat_protection"}, Bonus: 0.8},
		{Tag: TagHumidityFrizz, Tokens: []string{"anti_frizz", "smoothing", "frizz"}, Bonus: 0.6},
		{Tag: TagScalpIssues, Tokens: []string{"scalp_care", "dandruff", "scalp"}, Bonus: 0.6},
		{Tag: TagNeglectIssues, Tokens: []string{"nourishing", "hydrating"}, Bonus: 0.5},
		{Tag: TagRoutineComplexity, MinFeatures: 3, Bonus: 0.3},
	}
}

// Config holds insight adjustment parameters.
type Config struct {
	CapRatio  float64       `yaml:"cap_ratio"`  // default: 0.3
	Timeout   time.Duration `yaml:"timeout"`    // default: 10s
	CacheSize int           `yaml:"cache_size"` // default: 256
	Rules     []Rule        `yaml:"rules"`
}

// DefaultConfig returns the default insight configuration.
func DefaultConfig() *Config {
	return &Config{
		CapRatio:  0.3,
		Timeout:   10 * time.Second,
		CacheSize: 256,
		Rules:     DefaultRules(),
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.CapRatio <= 0 {
		c.CapRatio = d.CapRatio
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.CacheSize == 0 {
		c.CacheSize = d.CacheSize
	}
	if len(c.Rules) == 0 {
		c.Rules = d.Rules
	}
}

// Adjustment is the outcome of applying tags to one product.
type Adjustment struct {
	Score float64
	Delta float64
	Rules []models.FiredRule
}

// RuleName is the fired-rule name recorded for an insight tag.
func RuleName(tag string) string {
	return "insight_" + tag
}

// Adjuster applies a bounded boost derived from free-text insights.
type Adjuster struct {
	extractor Extractor
	config    *Config
	cache     *Cache
	logger    *zap.Logger
}

// Option configures an Adjuster.
type Option func(*Adjuster)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adjuster) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdjuster creates an Adjuster. A nil extractor makes every extraction empty.
func NewAdjuster(extractor Extractor, cfg *Config, opts ...Option) *Adjuster {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.ApplyDefaults()
	a := &Adjuster{
		extractor: extractor,
		config:    cfg,
		cache:     NewCache(cfg.CacheSize),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Extract returns the insight tags for text. It never fails: empty text,
// a missing extractor, and any extractor error or panic yield the empty set.
// Successful results are cached per normalized text; callers get a copy.
func (a *Adjuster) Extract(ctx context.Context, text string) TagSet {
	key := normalizeText(text)
	if key == "" || a.extractor == nil {
		return TagSet{}
	}
	if tags, ok := a.cache.Get(key); ok {
		metrics.RecordInsightCache(true)
		return tags.Clone()
	}
	metrics.RecordInsightCache(false)

	tags, err := a.extract(ctx, text)
	if err != nil {
		a.logger.Warn("Insight extraction failed, continuing without insights", zap.Error(err))
		return TagSet{}
	}
	a.cache.Set(key, tags)
	return tags.Clone()
}

func (a *Adjuster) extract(ctx context.Context, text string) (tags TagSet, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			tags, err = nil, fmt.Errorf("extractor panicked: %v", r)
		}
		result := metrics.ResultSuccess
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			result = metrics.ResultTimeout
		case err != nil:
			result = metrics.ResultError
		}
		metrics.RecordExternalCall(metrics.CapabilityInsight, result, time.Since(start))
	}()

	callCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	raw, err := a.extractor.Extract(callCtx, text, Vocabulary)
	if err != nil {
		return nil, err
	}
	return NewTagSet(raw), nil
}

// Apply adds the increment of every active tag whose rule matches product,
// capped at CapRatio of base. Non-positive bases are returned unchanged.
// The result is not clamped to the score ceiling.
func (a *Adjuster) Apply(base float64, tags TagSet, product *models.Product) Adjustment {
	return a.ApplyTo(base, base, tags, product)
}

// ApplyTo adjusts score, which may already carry other bonuses, with the cap
// taken from capBase alone. A non-positive capBase leaves score unchanged.
func (a *Adjuster) ApplyTo(score, capBase float64, tags TagSet, product *models.Product) Adjustment {
	adj := Adjustment{Score: score}
	if capBase <= 0 || tags.Empty() {
		return adj
	}
	var total float64
	for _, rule := range a.config.Rules {
		if tags.Has(rule.Tag) && rule.matches(product) {
			total += rule.Bonus
			adj.Rules = append(adj.Rules, models.FiredRule{Name: RuleName(rule.Tag), Delta: rule.Bonus})
		}
	}
	adj.Delta = math.Min(total, a.config.CapRatio*capBase)
	adj.Score = score + adj.Delta
	return adj
}

// Adjust extracts tags from text and applies them to one product.
func (a *Adjuster) Adjust(ctx context.Context, base float64, text string, product *models.Product) float64 {
	return a.Apply(base, a.Extract(ctx, text), product).Score
}

// Enabled reports whether an extractor is configured.
func (a *Adjuster) Enabled() bool {
	return a != nil && a.extractor != nil
}

func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
