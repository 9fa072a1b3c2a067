package ranking

// RuleConfig holds the weights of the additive rule table.
type RuleConfig struct {
	BaseScore float64 `yaml:"base_score"` // default: 5.0
	MaxScore  float64 `yaml:"max_score"`  // default: 10.0

	// Condition overlap
	ConditionOverlapWeight float64 `yaml:"condition_overlap_weight"` // default: 2.0
	PerfectMatchBonus      float64 `yaml:"perfect_match_bonus"`      // default: 1.0

	// Damage threshold rules
	HighDamageThreshold int     `yaml:"high_damage_threshold"` // default: 7
	HighDamageBonus     float64 `yaml:"high_damage_bonus"`     // default: 1.5
	LowDamageThreshold  int     `yaml:"low_damage_threshold"`  // default: 3
	LowDamageBonus      float64 `yaml:"low_damage_bonus"`      // default: 0.5

	TextureBonus float64 `yaml:"texture_bonus"` // default: 1.0
	ConcernBonus float64 `yaml:"concern_bonus"` // default: 1.0, per matched concern
	GoalBonus    float64 `yaml:"goal_bonus"`    // default: 1.0

	CareLevelThreshold float64 `yaml:"care_level_threshold"` // default: 0.5
	CareLevelBonus     float64 `yaml:"care_level_bonus"`     // default: 0.5
}

// DefaultRuleConfig returns the default rule weights.
func DefaultRuleConfig() *RuleConfig {
	return &RuleConfig{
		BaseScore: 5.0,
		MaxScore:  10.0,

		ConditionOverlapWeight: 2.0,
		PerfectMatchBonus:      1.0,

		HighDamageThreshold: 7,
		HighDamageBonus:     1.5,
		LowDamageThreshold:  3,
		LowDamageBonus:      0.5,

		TextureBonus: 1.0,
		ConcernBonus: 1.0,
		GoalBonus:    1.0,

		CareLevelThreshold: 0.5,
		CareLevelBonus:     0.5,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RuleConfig) ApplyDefaults() {
	defaults := DefaultRuleConfig()

	if c.BaseScore == 0 {
		c.BaseScore = defaults.BaseScore
	}
	if c.MaxScore == 0 {
		c.MaxScore = defaults.MaxScore
	}
	if c.ConditionOverlapWeight == 0 {
		c.ConditionOverlapWeight = defaults.ConditionOverlapWeight
	}
	if c.PerfectMatchBonus == 0 {
		c.PerfectMatchBonus = defaults.PerfectMatchBonus
	}
	if c.HighDamageThreshold == 0 {
		c.HighDamageThreshold = defaults.HighDamageThreshold
	}
	if c.HighDamageBonus == 0 {
		c.HighDamageBonus = defaults.HighDamageBonus
	}
	if c.LowDamageThreshold == 0 {
		c.LowDamageThreshold = defaults.LowDamageThreshold
	}
	if c.LowDamageBonus == 0 {
		c.LowDamageBonus = defaults.LowDamageBonus
	}
	if c.TextureBonus == 0 {
		c.TextureBonus = defaults.TextureBonus
	}
	if c.ConcernBonus == 0 {
		c.ConcernBonus = defaults.ConcernBonus
	}
	if c.GoalBonus == 0 {
		c.GoalBonus = defaults.GoalBonus
	}
	if c.CareLevelThreshold == 0 {
		c.CareLevelThreshold = defaults.CareLevelThreshold
	}
	if c.CareLevelBonus == 0 {
		c.CareLevelBonus = defaults.CareLevelBonus
	}
}

// TierThresholds maps a final score onto a confidence tier. High must exceed Medium.
type TierThresholds struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

// DefaultRuleTiers are the thresholds for rule-based scores.
func DefaultRuleTiers() TierThresholds {
	return TierThresholds{High: 8.0, Medium: 6.0}
}

// DefaultSimilarityTiers are the thresholds for text-similarity scores.
func DefaultSimilarityTiers() TierThresholds {
	return TierThresholds{High: 7.0, Medium: 4.0}
}

// StrategyTiers holds one set of thresholds per scoring strategy.
type StrategyTiers struct {
	Rules      TierThresholds `yaml:"rules"`
	Similarity TierThresholds `yaml:"similarity"`
}

// For returns the thresholds for the named strategy.
func (s StrategyTiers) For(strategy string) TierThresholds {
	if strategy == StrategySimilarity {
		return s.Similarity
	}
	return s.Rules
}

// RankingConfig holds all configuration for scoring and ranking.
type RankingConfig struct {
	TopN               int     `yaml:"top_n"`                // default: 3
	MinAcceptableScore float64 `yaml:"min_acceptable_score"` // default: 3.0
	FallbackScore      float64 `yaml:"fallback_score"`       // default: 5.0
	FallbackReasoning  string  `yaml:"fallback_reasoning"`

	Rules RuleConfig    `yaml:"rules"`
	Tiers StrategyTiers `yaml:"tiers"`
}

// DefaultFallbackReasoning is attached to the fallback recommendation.
const DefaultFallbackReasoning = "A dependable everyday choice while we learn more about your hair"

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		TopN:               3,
		MinAcceptableScore: 3.0,
		FallbackScore:      5.0,
		FallbackReasoning:  DefaultFallbackReasoning,
		Rules:              *DefaultRuleConfig(),
		Tiers: StrategyTiers{
			Rules:      DefaultRuleTiers(),
			Similarity: DefaultSimilarityTiers(),
		},
	}
}

// ApplyDefaults fills in zero values with defaults. Tier thresholds that are
// unset or not monotonic are replaced as a pair.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()

	if c.TopN <= 0 {
		c.TopN = defaults.TopN
	}
	if c.MinAcceptableScore == 0 {
		c.MinAcceptableScore = defaults.MinAcceptableScore
	}
	if c.FallbackScore == 0 {
		c.FallbackScore = defaults.FallbackScore
	}
	if c.FallbackReasoning == "" {
		c.FallbackReasoning = defaults.FallbackReasoning
	}
	c.Rules.ApplyDefaults()
	if c.Tiers.Rules.High <= c.Tiers.Rules.Medium || c.Tiers.Rules.Medium <= 0 {
		c.Tiers.Rules = defaults.Tiers.Rules
	}
	if c.Tiers.Similarity.High <= c.Tiers.Similarity.Medium || c.Tiers.Similarity.Medium <= 0 {
		c.Tiers.Similarity = defaults.Tiers.Similarity
	}
}
