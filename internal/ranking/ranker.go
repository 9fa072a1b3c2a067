package ranking

import (
	"sort"

	"github.com/hyperjump/hairmatch/internal/models"
)

// Ranker clamps, orders, tiers, and cuts scored products. It never returns an
// empty list.
type Ranker struct {
	config *RankingConfig
	tiers  TierThresholds
}

// NewRanker creates a Ranker for the given tier thresholds. A nil config uses defaults.
func NewRanker(config *RankingConfig, tiers TierThresholds) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	if tiers.High <= tiers.Medium || tiers.Medium <= 0 {
		tiers = DefaultRuleTiers()
	}
	return &Ranker{config: config, tiers: tiers}
}

// NewRankerForStrategy creates a Ranker using the configured tiers of strategy.
func NewRankerForStrategy(config *RankingConfig, strategy string) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	return NewRanker(config, config.Tiers.For(strategy))
}

// Tier maps a clamped score onto a confidence tier.
func (r *Ranker) Tier(score float64) models.Confidence {
	switch {
	case score >= r.tiers.High:
		return models.ConfidenceHigh
	case score >= r.tiers.Medium:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// Rank returns at most topN products ordered by score descending. Equal scores
// keep their input order. When nothing is scored or the best score is below the
// minimum acceptable score, a single fallback recommendation for fallback is
// returned instead. topN <= 0 uses the configured default.
func (r *Ranker) Rank(scored []models.ScoredProduct, fallback models.Product, topN int) []models.ScoredProduct {
	if topN <= 0 {
		topN = r.config.TopN
	}

	ranked := make([]models.ScoredProduct, len(scored))
	copy(ranked, scored)
	for i := range ranked {
		ranked[i].Score = Clamp(ranked[i].Score, 0, r.config.Rules.MaxScore)
	}

	// Sort by score descending
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) == 0 || ranked[0].Score < r.config.MinAcceptableScore {
		return []models.ScoredProduct{r.Fallback(fallback)}
	}

	ranked = TopN(ranked, topN)
	for i := range ranked {
		ranked[i].Confidence = r.Tier(ranked[i].Score)
	}
	return ranked
}

// Fallback builds the fixed fallback recommendation for product.
func (r *Ranker) Fallback(product models.Product) models.ScoredProduct {
	return models.ScoredProduct{
		Product:    product,
		Score:      r.config.FallbackScore,
		BaseScore:  r.config.FallbackScore,
		Reasoning:  r.config.FallbackReasoning,
		Confidence: models.ConfidenceMedium,
		Fallback:   true,
	}
}

// GetConfig returns the ranking configuration.
func (r *Ranker) GetConfig() *RankingConfig {
	return r.config
}

// Tiers returns the tier thresholds in use.
func (r *Ranker) Tiers() TierThresholds {
	return r.tiers
}

// TopN returns the first n results.
func TopN(results []models.ScoredProduct, n int) []models.ScoredProduct {
	if n >= len(results) {
		return results
	}
	return results[:n]
}

