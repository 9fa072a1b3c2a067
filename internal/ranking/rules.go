package ranking

import (
	"context"
	"math"

	"github.com/hyperjump/hairmatch/internal/models"
)

// goalFeatures maps each goal to the single product feature it rewards.
var goalFeatures = map[models.Goal]string{
	models.GoalRepair:  "repair",
	models.GoalSmooth:  "smoothing",
	models.GoalVolume:  "volumizing",
	models.GoalHydrate: "hydrating",
}

// RuleScorer scores products with a fixed table of independent additive rules.
// It is pure and safe for concurrent use.
type RuleScorer struct {
	config *RuleConfig
}

// NewRuleScorer creates a RuleScorer. A nil config uses defaults.
func NewRuleScorer(config *RuleConfig) *RuleScorer {
	if config == nil {
		config = DefaultRuleConfig()
	}
	config.ApplyDefaults()
	return &RuleScorer{config: config}
}

// Name implements Scorer.
func (s *RuleScorer) Name() string {
	return StrategyRules
}

// ScoreAll implements Scorer.
func (s *RuleScorer) ScoreAll(_ context.Context, profile *models.UserProfile, products []models.Product) []models.ScoredProduct {
	out := make([]models.ScoredProduct, len(products))
	for i := range products {
		res := s.Score(profile, &products[i])
		out[i] = models.ScoredProduct{
			Product:   products[i],
			Score:     res.Score,
			BaseScore: res.Score,
			Rules:     res.Rules,
		}
	}
	return out
}

// Score evaluates every rule against one product. All bonuses accumulate before
// the single clamp to [0, MaxScore].
func (s *RuleScorer) Score(profile *models.UserProfile, product *models.Product) RuleResult {
	cfg := s.config
	res := RuleResult{Score: cfg.BaseScore}

	// Condition overlap. No bonus when the user listed no conditions.
	if total := len(profile.HairConditions); total > 0 {
		matched := 0
		for _, c := range profile.HairConditions {
			if product.TargetHairTypes.Has(c) {
				matched++
			}
		}
		if matched > 0 {
			res.fire(RuleConditionOverlap, cfg.ConditionOverlapWeight*float64(matched)/float64(total))
		}
		if matched == total {
			res.fire(RulePerfectMatch, cfg.PerfectMatchBonus)
		}
	}

	damaged := product.TargetHairTypes.Has("damaged")
	switch {
	case profile.DamageLevel >= cfg.HighDamageThreshold && damaged:
		res.fire(RuleHighDamage, cfg.HighDamageBonus)
	case profile.DamageLevel <= cfg.LowDamageThreshold && !damaged:
		res.fire(RuleLowDamage, cfg.LowDamageBonus)
	}

	switch {
	case profile.Texture == models.TextureFine && product.TargetHairTypes.Has("fine"):
		res.fire(RuleTexture, cfg.TextureBonus)
	case profile.Texture == models.TextureCoarse && product.TargetHairTypes.Has("coarse"):
		res.fire(RuleTexture, cfg.TextureBonus)
	}

	concerns := product.TargetConcerns
	if profile.Concerns.Damage && concerns.HasAny("damage", "breakage") {
		res.fire(RuleConcernDamage, cfg.ConcernBonus)
	}
	if profile.Concerns.Frizz && concerns.Has("frizz") {
		res.fire(RuleConcernFrizz, cfg.ConcernBonus)
	}
	if profile.Concerns.Volume && concerns.HasAny("volume", "flat") {
		res.fire(RuleConcernVolume, cfg.ConcernBonus)
	}
	if profile.Concerns.Dandruff && concerns.HasAny("dandruff", "scalp") {
		res.fire(RuleConcernDandruff, cfg.ConcernBonus)
	}

	if feature, ok := goalFeatures[profile.Goal]; ok && product.Features.Has(feature) {
		res.fire(RuleGoal, cfg.GoalBonus)
	}

	if profile.CareLevel > cfg.CareLevelThreshold && product.Features.Has("strengthening") {
		res.fire(RuleCareLevel, cfg.CareLevelBonus)
	}

	res.Score = Clamp(res.Score, 0, cfg.MaxScore)
	return res
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
