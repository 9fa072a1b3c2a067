// Package recommend runs the full recommendation pipeline: encode answers,
// score every product, apply insights, rank, and explain.
package recommend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/catalog"
	"github.com/hyperjump/hairmatch/internal/explain"
	"github.com/hyperjump/hairmatch/internal/insight"
	"github.com/hyperjump/hairmatch/internal/metrics"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/profile"
	"github.com/hyperjump/hairmatch/internal/ranking"
	"github.com/hyperjump/hairmatch/pkg/utils"
)

// Result is the outcome of one recommendation pass.
type Result struct {
	Profile  models.UserProfile
	Strategy string
	Insights insight.TagSet
	Ranked   []models.ScoredProduct
}

// Fallback reports whether the result is the single fallback recommendation.
func (r *Result) Fallback() bool {
	return len(r.Ranked) == 1 && r.Ranked[0].Fallback
}

// Recommendations converts the ranked products into their outward shape.
func (r *Result) Recommendations() []models.Recommendation {
	out := make([]models.Recommendation, len(r.Ranked))
	for i := range r.Ranked {
		out[i] = r.Ranked[i].ToRecommendation()
	}
	return out
}

// Engine wires the scoring pipeline. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	catalog   *catalog.Catalog
	encoder   *profile.Encoder
	scorer    ranking.Scorer
	adjuster  *insight.Adjuster
	ranker    *ranking.Ranker
	generator *explain.Generator
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScorer selects the scoring strategy. The default is the rule scorer.
func WithScorer(s ranking.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithRanker replaces the ranker. By default one is built for the scorer's strategy.
func WithRanker(r *ranking.Ranker) Option {
	return func(e *Engine) {
		e.ranker = r
	}
}

// WithAdjuster enables insight adjustment from free text.
func WithAdjuster(a *insight.Adjuster) Option {
	return func(e *Engine) {
		e.adjuster = a
	}
}

// WithGenerator replaces the explanation generator.
func WithGenerator(g *explain.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.generator = g
		}
	}
}

// WithEncoder replaces the profile encoder.
func WithEncoder(enc *profile.Encoder) Option {
	return func(e *Engine) {
		if enc != nil {
			e.encoder = enc
		}
	}
}

// NewEngine creates an Engine over cat.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:   cat,
		encoder:   profile.NewEncoder(),
		scorer:    ranking.NewRuleScorer(nil),
		generator: explain.NewGenerator(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ranker == nil {
		e.ranker = ranking.NewRankerForStrategy(nil, e.scorer.Name())
	}
	return e
}

// Strategy returns the scoring strategy name.
func (e *Engine) Strategy() string {
	return e.scorer.Name()
}

// Catalog returns the catalog the engine recommends from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Encode maps answers onto a profile.
func (e *Engine) Encode(a models.Answers) models.UserProfile {
	return e.encoder.Encode(a)
}

// Recommend encodes answers and returns at most topN ranked products. It
// never fails; degraded external signals fall back to neutral values.
func (e *Engine) Recommend(ctx context.Context, answers models.Answers, topN int) *Result {
	p := e.encoder.Encode(answers)
	return e.RecommendProfile(ctx, &p, topN)
}

// RecommendProfile ranks the catalog for an already encoded profile.
func (e *Engine) RecommendProfile(ctx context.Context, p *models.UserProfile, topN int) *Result {
	start := time.Now()
	strategy := e.scorer.Name()

	scored := e.scorer.ScoreAll(ctx, p, e.catalog.Products())

	// One extraction per request; the same tags adjust every product. The cap
	// comes from the deterministic base, not from model match bonuses.
	var tags insight.TagSet
	if e.adjuster.Enabled() && p.FreeText != "" {
		tags = e.adjuster.Extract(ctx, p.FreeText)
		for i := range scored {
			adj := e.adjuster.ApplyTo(scored[i].Score, scored[i].BaseScore, tags, &scored[i].Product)
			scored[i].Score = adj.Score
			scored[i].Rules = append(scored[i].Rules, adj.Rules...)
		}
	}

	ranked := e.ranker.Rank(scored, e.catalog.First(), topN)
	for i := range ranked {
		if ranked[i].Reasoning == "" {
			ranked[i].Reasoning = e.generator.Explain(p, &ranked[i])
		}
	}
	e.generator.DetailAll(ctx, p, ranked)

	res := &Result{Profile: *p, Strategy: strategy, Insights: tags, Ranked: ranked}
	metrics.RecordRecommendation(strategy, res.Fallback(), time.Since(start))
	e.logger.Info("Recommendation complete",
		zap.String("strategy", strategy),
		zap.Int("results", len(ranked)),
		zap.Bool("fallback", res.Fallback()),
		zap.Strings("insights", tags.Active()),
		zap.String("free_text", utils.Truncate(p.FreeText, 80)),
		zap.Duration("took", time.Since(start)))
	return res
}

// GetRecommendations ranks cat for profile with the rule scorer and default
// configuration. No external capability is called.
func GetRecommendations(ctx context.Context, p models.UserProfile, cat *catalog.Catalog, topN int) []models.ScoredProduct {
	return NewEngine(cat).RecommendProfile(ctx, &p, topN).Ranked
}
