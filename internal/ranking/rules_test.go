package ranking

import (
	"context"
	"math"
	"testing"

	"github.com/hyperjump/hairmatch/internal/models"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func repairProduct() models.Product {
	return models.Product{
		ID:              1,
		Name:            "Ultimate Repair",
		Features:        models.TagSet{"repair", "strengthening"},
		TargetHairTypes: models.TagSet{"damaged", "coarse", "dry"},
		TargetConcerns:  models.TagSet{"damage", "breakage"},
	}
}

func firedNames(res RuleResult) []string {
	names := make([]string, len(res.Rules))
	for i, r := range res.Rules {
		names[i] = r.Name
	}
	return names
}

func TestNewRuleScorer(t *testing.T) {
	s := NewRuleScorer(nil)
	if s.config.BaseScore != 5.0 {
		t.Errorf("expected default base 5.0, got %v", s.config.BaseScore)
	}
	s = NewRuleScorer(&RuleConfig{BaseScore: 4.0})
	if s.config.BaseScore != 4.0 || s.config.HighDamageBonus != 1.5 {
		t.Errorf("custom base should be kept and others defaulted: %+v", s.config)
	}
	if s.Name() != StrategyRules {
		t.Errorf("name: got %q", s.Name())
	}
}

func TestRuleScorer_HighDamageRepairScenario(t *testing.T) {
	profile := &models.UserProfile{
		DamageLevel: 9,
		Texture:     models.TextureCoarse,
		Goal:        models.GoalRepair,
		Scalp:       models.ScalpNormal,
		Concerns:    models.Concerns{Damage: true},
	}
	product := repairProduct()
	res := NewRuleScorer(nil).Score(profile, &product)

	// 5.0 + 1.5 damage + 1.0 texture + 1.0 concern + 1.0 goal
	if !approx(res.Score, 9.5) {
		t.Errorf("score: got %v, want 9.5 (rules %v)", res.Score, firedNames(res))
	}
	want := []string{RuleHighDamage, RuleTexture, RuleConcernDamage, RuleGoal}
	got := firedNames(res)
	if len(got) != len(want) {
		t.Fatalf("fired: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fired[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRuleScorer_Rules(t *testing.T) {
	base := func() *models.UserProfile {
		return &models.UserProfile{DamageLevel: 5, Texture: models.TextureMedium, Goal: models.GoalSmooth, Scalp: models.ScalpNormal}
	}
	tests := []struct {
		name    string
		profile func() *models.UserProfile
		product models.Product
		want    float64
	}{
		{
			name:    "defaults against an untagged product score the base",
			profile: base,
			product: models.Product{Name: "Plain"},
			want:    5.0,
		},
		{
			name: "no conditions gives no overlap or perfect bonus",
			profile: func() *models.UserProfile {
				p := base()
				p.HairConditions = nil
				return p
			},
			product: models.Product{TargetHairTypes: models.TagSet{"dry"}},
			want:    5.0,
		},
		{
			name: "partial overlap is proportional",
			profile: func() *models.UserProfile {
				p := base()
				p.HairConditions = models.TagSet{"dry", "oily"}
				return p
			},
			product: models.Product{TargetHairTypes: models.TagSet{"dry"}},
			want:    6.0,
		},
		{
			name: "full overlap adds the perfect match bonus",
			profile: func() *models.UserProfile {
				p := base()
				p.HairConditions = models.TagSet{"dry", "damaged"}
				return p
			},
			product: models.Product{TargetHairTypes: models.TagSet{"dry", "damaged", "colored"}},
			want:    8.0,
		},
		{
			name: "low damage rewards products not targeting damage",
			profile: func() *models.UserProfile {
				p := base()
				p.DamageLevel = 2
				return p
			},
			product: models.Product{TargetHairTypes: models.TagSet{"healthy"}},
			want:    5.5,
		},
		{
			name: "low damage against a damage product adds nothing",
			profile: func() *models.UserProfile {
				p := base()
				p.DamageLevel = 3
				return p
			},
			product: models.Product{TargetHairTypes: models.TagSet{"damaged"}},
			want:    5.0,
		},
		{
			name:    "medium texture never earns the texture bonus",
			profile: base,
			product: models.Product{TargetHairTypes: models.TagSet{"fine", "coarse"}},
			want:    5.0,
		},
		{
			name: "fine texture",
			profile: func() *models.UserProfile {
				p := base()
				p.Texture = models.TextureFine
				return p
			},
			product: models.Product{TargetHairTypes: models.TagSet{"fine"}},
			want:    6.0,
		},
		{
			name: "each matched concern adds independently",
			profile: func() *models.UserProfile {
				p := base()
				p.Concerns = models.Concerns{Frizz: true, Volume: true, Dandruff: true}
				return p
			},
			product: models.Product{TargetConcerns: models.TagSet{"frizz", "flat", "scalp"}},
			want:    8.0,
		},
		{
			name: "care level above threshold rewards strengthening",
			profile: func() *models.UserProfile {
				p := base()
				p.CareLevel = 0.6
				return p
			},
			product: models.Product{Features: models.TagSet{"strengthening"}},
			want:    5.5,
		},
		{
			name: "care level at threshold does not fire",
			profile: func() *models.UserProfile {
				p := base()
				p.CareLevel = 0.5
				return p
			},
			product: models.Product{Features: models.TagSet{"strengthening"}},
			want:    5.0,
		},
		{
			name:    "goal alignment for smooth",
			profile: base,
			product: models.Product{Features: models.TagSet{"smoothing"}},
			want:    6.0,
		},
	}
	s := NewRuleScorer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(tt.profile(), &tt.product)
			if !approx(res.Score, tt.want) {
				t.Errorf("score: got %v, want %v (rules %v)", res.Score, tt.want, firedNames(res))
			}
		})
	}
}

func TestRuleScorer_ClampsToMax(t *testing.T) {
	profile := &models.UserProfile{
		DamageLevel:    10,
		Texture:        models.TextureCoarse,
		Goal:           models.GoalRepair,
		Concerns:       models.Concerns{Damage: true, Frizz: true, Volume: true, Dandruff: true},
		CareLevel:      1.0,
		HairConditions: models.TagSet{"damaged"},
	}
	product := models.Product{
		Features:        models.TagSet{"repair", "strengthening"},
		TargetHairTypes: models.TagSet{"damaged", "coarse"},
		TargetConcerns:  models.TagSet{"damage", "frizz", "volume", "dandruff"},
	}
	res := NewRuleScorer(nil).Score(profile, &product)
	if res.Score != 10.0 {
		t.Errorf("score should clamp to 10, got %v", res.Score)
	}
	sum := 5.0
	for _, r := range res.Rules {
		sum += r.Delta
	}
	if sum <= 10.0 {
		t.Errorf("expected raw total above the cap, got %v", sum)
	}
}

func TestRuleScorer_MonotonicInTags(t *testing.T) {
	profile := &models.UserProfile{
		DamageLevel:    8,
		Texture:        models.TextureFine,
		Goal:           models.GoalVolume,
		Concerns:       models.Concerns{Volume: true},
		CareLevel:      0.7,
		HairConditions: models.TagSet{"fine", "oily"},
	}
	s := NewRuleScorer(nil)
	product := models.Product{}
	prev := s.Score(profile, &product).Score

	additions := []func(p *models.Product){
		func(p *models.Product) { p.TargetHairTypes = append(p.TargetHairTypes, "fine") },
		func(p *models.Product) { p.TargetHairTypes = append(p.TargetHairTypes, "oily") },
		func(p *models.Product) { p.TargetHairTypes = append(p.TargetHairTypes, "damaged") },
		func(p *models.Product) { p.TargetConcerns = append(p.TargetConcerns, "volume") },
		func(p *models.Product) { p.Features = append(p.Features, "volumizing") },
		func(p *models.Product) { p.Features = append(p.Features, "strengthening") },
	}
	for i, add := range additions {
		add(&product)
		score := s.Score(profile, &product).Score
		if score < prev {
			t.Errorf("adding tag %d decreased score from %v to %v", i, prev, score)
		}
		prev = score
	}
}

func TestRuleScorer_ScoreAll(t *testing.T) {
	products := []models.Product{repairProduct(), {ID: 2, Name: "Plain"}}
	profile := &models.UserProfile{DamageLevel: 9, Texture: models.TextureMedium, Goal: models.GoalSmooth}
	scored := NewRuleScorer(nil).ScoreAll(context.Background(), profile, products)
	if len(scored) != 2 {
		t.Fatalf("expected 2 results, got %d", len(scored))
	}
	if scored[0].Product.ID != 1 || scored[1].Product.ID != 2 {
		t.Error("ScoreAll must preserve input order")
	}
	if !approx(scored[0].Score, 6.5) || !approx(scored[1].Score, 5.0) {
		t.Errorf("scores: got %v, %v", scored[0].Score, scored[1].Score)
	}
	if scored[0].BaseScore != scored[0].Score {
		t.Error("base score should equal the rule score")
	}
}
