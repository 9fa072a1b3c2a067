// Package similarity scores products by TF-IDF cosine similarity between a
// rendered profile text and each product's text, optionally blended with an
// external match score.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/metrics"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/ranking"
	"github.com/hyperjump/hairmatch/internal/vector"
)

// Names of the rules the similarity scorer fires, in evaluation order.
const (
	RuleMatchExcellent  = "match_excellent"
	RuleMatchStrong     = "match_strong"
	RuleMatchGood       = "match_good"
	RuleModelMatch      = "model_match"
	RuleFeelRepair      = "feel_repair"
	RuleFeelLightweight = "feel_lightweight"
	RuleScalpOily       = "scalp_oily"
	RuleGoalAlignment   = "goal_alignment"
)

// goalFragments are matched as substrings of product features.
var goalFragments = map[string][]string{
	"repair":  {"repair", "strengthen", "restore"},
	"hydrate": {"moisturizing", "hydration", "nourish"},
	"smooth":  {"smooth", "anti_frizz", "sleek"},
	"volume":  {"volume", "body", "lift"},
}

// MatchScorer rates how well a product suits a profile text on a 0-10 scale.
type MatchScorer interface {
	Score(ctx context.Context, profileText string, product *models.Product) (float64, error)
}

// Config holds similarity scoring parameters.
type Config struct {
	Scale        float64       `yaml:"scale"`         // default: 15.0
	MaxBase      float64       `yaml:"max_base"`      // default: 10.0
	MatchWeight  float64       `yaml:"match_weight"`  // default: 2.0
	NeutralMatch float64       `yaml:"neutral_match"` // default: 0.5, normalized
	MatchTimeout time.Duration `yaml:"match_timeout"` // default: 10s
	Concurrency  int           `yaml:"concurrency"`   // default: 4
	MaxFeatures  int           `yaml:"max_features"`  // default: 300

	ExcellentThreshold float64 `yaml:"excellent_threshold"` // default: 0.7
	StrongThreshold    float64 `yaml:"strong_threshold"`    // default: 0.5
}

// DefaultConfig returns the default similarity configuration.
func DefaultConfig() *Config {
	return &Config{
		Scale:              15.0,
		MaxBase:            10.0,
		MatchWeight:        2.0,
		NeutralMatch:       0.5,
		MatchTimeout:       10 * time.Second,
		Concurrency:        4,
		MaxFeatures:        vector.DefaultMaxFeatures,
		ExcellentThreshold: 0.7,
		StrongThreshold:    0.5,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Scale == 0 {
		c.Scale = d.Scale
	}
	if c.MaxBase == 0 {
		c.MaxBase = d.MaxBase
	}
	if c.MatchWeight == 0 {
		c.MatchWeight = d.MatchWeight
	}
	if c.NeutralMatch == 0 {
		c.NeutralMatch = d.NeutralMatch
	}
	if c.MatchTimeout == 0 {
		c.MatchTimeout = d.MatchTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = d.MaxFeatures
	}
	if c.ExcellentThreshold == 0 {
		c.ExcellentThreshold = d.ExcellentThreshold
	}
	if c.StrongThreshold == 0 {
		c.StrongThreshold = d.StrongThreshold
	}
}

// Scorer is the text-similarity scoring strategy. The term space is fitted
// once at construction and read-only afterwards.
type Scorer struct {
	config  *Config
	space   *vector.TermSpace
	index   *vector.MemoryIndex
	matcher MatchScorer
	logger  *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMatchScorer enables blending with an external match score.
func WithMatchScorer(m MatchScorer) Option {
	return func(s *Scorer) {
		s.matcher = m
	}
}

// NewScorer fits the term space over products. A nil config uses defaults.
func NewScorer(products []models.Product, cfg *Config, opts ...Option) (*Scorer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.ApplyDefaults()
	s := &Scorer{config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	docs := make([]string, len(products))
	ids := make([]int, len(products))
	for i := range products {
		docs[i] = ProductText(&products[i])
		ids[i] = products[i].ID
	}
	s.space = vector.Fit(docs, vector.WithMaxFeatures(cfg.MaxFeatures))

	index, err := vector.NewMemoryIndex(s.space.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}
	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = s.space.Transform(doc)
	}
	if err := index.Add(context.Background(), ids, vectors); err != nil {
		return nil, fmt.Errorf("failed to index products: %w", err)
	}
	s.index = index

	s.logger.Debug("Prepared product vectors",
		zap.Int("products", len(products)),
		zap.Int("terms", s.space.Dimensions()))
	return s, nil
}

// Name implements ranking.Scorer.
func (s *Scorer) Name() string {
	return ranking.StrategySimilarity
}

// Similarities returns the cosine similarity of the profile text to each product.
func (s *Scorer) Similarities(profileText string, products []models.Product) []float64 {
	query := s.space.Transform(profileText)
	out := make([]float64, len(products))
	for i := range products {
		out[i] = vector.CosineSimilarity(query, s.space.Transform(ProductText(&products[i])))
	}
	return out
}

// BaseScore maps a similarity onto the score scale.
func (s *Scorer) BaseScore(similarity float64) float64 {
	return ranking.Clamp(similarity*s.config.Scale, 0, s.config.MaxBase)
}

// ScoreAll implements ranking.Scorer.
func (s *Scorer) ScoreAll(ctx context.Context, profile *models.UserProfile, products []models.Product) []models.ScoredProduct {
	text := ProfileText(profile)
	sims := s.similarities(text, products)

	var bonuses []float64
	if s.matcher != nil {
		bonuses = s.matchBonuses(ctx, text, products)
	}

	out := make([]models.ScoredProduct, len(products))
	for i := range products {
		base := s.BaseScore(sims[i])
		sp := models.ScoredProduct{
			Product:    products[i],
			Score:      base,
			BaseScore:  base,
			Similarity: sims[i],
		}
		sp.Rules = append(sp.Rules, s.qualityRule(sims[i], base))
		if bonuses != nil {
			sp.Score += bonuses[i]
			sp.Rules = append(sp.Rules, models.FiredRule{Name: RuleModelMatch, Delta: bonuses[i]})
		}
		sp.Rules = append(sp.Rules, alignmentRules(profile, &products[i])...)
		out[i] = sp
	}
	return out
}

// similarities uses the fitted index for catalog products and transforms any
// other product on the fly.
func (s *Scorer) similarities(text string, products []models.Product) []float64 {
	ids := s.index.IDs()
	if len(ids) != len(products) {
		return s.Similarities(text, products)
	}
	for i := range products {
		if products[i].ID != ids[i] {
			return s.Similarities(text, products)
		}
	}
	indexed, err := s.index.Scores(s.space.Transform(text))
	if err != nil {
		return s.Similarities(text, products)
	}
	return indexed
}

func (s *Scorer) qualityRule(sim, base float64) models.FiredRule {
	switch {
	case sim >= s.config.ExcellentThreshold:
		return models.FiredRule{Name: RuleMatchExcellent, Delta: base}
	case sim >= s.config.StrongThreshold:
		return models.FiredRule{Name: RuleMatchStrong, Delta: base}
	default:
		return models.FiredRule{Name: RuleMatchGood, Delta: base}
	}
}

func alignmentRules(profile *models.UserProfile, product *models.Product) []models.FiredRule {
	var rules []models.FiredRule
	switch {
	case profile.HairFeel == "very_dry" && containsFragment(product.Features, "repair"):
		rules = append(rules, models.FiredRule{Name: RuleFeelRepair})
	case profile.HairFeel == "soft_smooth" && containsFragment(product.Features, "lightweight"):
		rules = append(rules, models.FiredRule{Name: RuleFeelLightweight})
	}
	if profile.ScalpToken == "oily" && containsFragment(product.ScalpMatch, "oily") {
		rules = append(rules, models.FiredRule{Name: RuleScalpOily})
	}
	if frags, ok := goalFragments[profile.GoalToken]; ok && containsFragment(product.Features, frags...) {
		rules = append(rules, models.FiredRule{Name: RuleGoalAlignment})
	}
	return rules
}

// containsFragment reports whether any tag contains any fragment as a substring.
func containsFragment(tags models.TagSet, fragments ...string) bool {
	for _, tag := range tags {
		for _, f := range fragments {
			if strings.Contains(tag, f) {
				return true
			}
		}
	}
	return false
}

// matchBonuses calls the match scorer once per product, concurrently. Failed
// calls contribute the neutral bonus.
func (s *Scorer) matchBonuses(ctx context.Context, text string, products []models.Product) []float64 {
	bonuses := make([]float64, len(products))
	sem := make(chan struct{}, s.config.Concurrency)
	var wg sync.WaitGroup
	for i := range products {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			bonuses[i] = s.matchBonus(ctx, text, &products[i])
		}(i)
	}
	wg.Wait()
	return bonuses
}

func (s *Scorer) matchBonus(ctx context.Context, text string, product *models.Product) (bonus float64) {
	normalized := s.config.NeutralMatch
	start := time.Now()
	result := metrics.ResultSuccess

	defer func() {
		if r := recover(); r != nil {
			result = metrics.ResultError
			s.logger.Warn("Match scorer panicked", zap.String("product", product.Name), zap.Any("panic", r))
			bonus = s.config.NeutralMatch * s.config.MatchWeight
		}
		metrics.RecordExternalCall(metrics.CapabilityMatch, result, time.Since(start))
	}()

	callCtx, cancel := context.WithTimeout(ctx, s.config.MatchTimeout)
	defer cancel()

	score, err := s.matcher.Score(callCtx, text, product)
	if err == nil && (math.IsNaN(score) || math.IsInf(score, 0)) {
		err = fmt.Errorf("invalid match score %v", score)
	}
	switch {
	case err != nil:
		result = metrics.ResultError
		if errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultTimeout
		}
		s.logger.Warn("Match scoring failed, using neutral score",
			zap.String("product", product.Name), zap.Error(err))
	default:
		normalized = ranking.Clamp(score, 0, 10) / 10
		s.logger.Debug("Match score",
			zap.String("product", product.Name), zap.Float64("score", score))
	}
	return normalized * s.config.MatchWeight
}
