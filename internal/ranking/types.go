// Package ranking provides rule-based product scoring and the final ranker that
// orders, tiers, and cuts scored products.
package ranking

import (
	"context"

	"github.com/hyperjump/hairmatch/internal/models"
)

// Names of the rules the RuleScorer can fire, in evaluation order.
const (
	RuleConditionOverlap = "condition_overlap"
	RulePerfectMatch     = "perfect_match"
	RuleHighDamage       = "high_damage"
	RuleLowDamage        = "low_damage"
	RuleTexture          = "texture"
	RuleConcernDamage    = "concern_damage"
	RuleConcernFrizz     = "concern_frizz"
	RuleConcernVolume    = "concern_volume"
	RuleConcernDandruff  = "concern_dandruff"
	RuleGoal             = "goal"
	RuleCareLevel        = "care_level"
)

// Strategy names a scorer implementation.
const (
	StrategyRules      = "rules"
	StrategySimilarity = "similarity"
)

// Scorer produces pre-ranking scores for every product. Implementations never
// fail; external signals that are unavailable degrade to neutral values.
type Scorer interface {
	// ScoreAll scores products in order. The result has one entry per product.
	ScoreAll(ctx context.Context, profile *models.UserProfile, products []models.Product) []models.ScoredProduct
	// Name returns the strategy name for logging and metrics.
	Name() string
}

// RuleResult is the outcome of scoring one product with the rule table.
type RuleResult struct {
	// Score is the clamped total.
	Score float64
	// Rules lists every rule that added to the score, in evaluation order.
	Rules []models.FiredRule
}

func (r *RuleResult) fire(name string, delta float64) {
	r.Score += delta
	r.Rules = append(r.Rules, models.FiredRule{Name: name, Delta: delta})
}
