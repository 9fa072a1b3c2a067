package recommend

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/hyperjump/hairmatch/internal/catalog"
	"github.com/hyperjump/hairmatch/internal/explain"
	"github.com/hyperjump/hairmatch/internal/insight"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/ranking"
	"github.com/hyperjump/hairmatch/internal/similarity"
)

type stubExtractor struct {
	tags  map[string]bool
	err   error
	calls atomic.Int32
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ []string) (map[string]bool, error) {
	s.calls.Add(1)
	return s.tags, s.err
}

type stubExplainer struct {
	calls atomic.Int32
}

func (s *stubExplainer) Explain(_ context.Context, _ *models.UserProfile, product *models.Product) (models.Detail, error) {
	s.calls.Add(1)
	return models.Detail{Explanation: "Great for " + product.Name, Routine: "Wash twice weekly."}, nil
}

func damage(v float64) *float64 { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func ids(ranked []models.ScoredProduct) []int {
	out := make([]int, len(ranked))
	for i, sp := range ranked {
		out[i] = sp.Product.ID
	}
	return out
}

func TestEngine_HighDamageRepair(t *testing.T) {
	e := NewEngine(catalog.Default())
	res := e.Recommend(context.Background(), models.Answers{
		DamageLevel: damage(9),
		HairTexture: "coarse",
		TopConcerns: []string{"damage"},
		HairGoal:    "repair",
	}, 3)

	if res.Strategy != ranking.StrategyRules {
		t.Errorf("strategy: got %q", res.Strategy)
	}
	want := []int{1, 3, 7}
	got := ids(res.Ranked)
	if len(got) != len(want) {
		t.Fatalf("ranked: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i], want[i])
		}
	}
	top := res.Ranked[0]
	if !approx(top.Score, 9.5) || top.Confidence != models.ConfidenceHigh {
		t.Errorf("top: got %v/%v", top.Score, top.Confidence)
	}
	if top.Reasoning == "" || top.Reasoning == explain.GenericReasoning {
		t.Errorf("expected rule-based reasoning, got %q", top.Reasoning)
	}
	if top.Detail != explain.FallbackDetail(&res.Profile, &top.Product) {
		t.Errorf("expected templated detail without an explainer, got %+v", top.Detail)
	}
	if res.Fallback() {
		t.Error("result should not be a fallback")
	}
}

func TestEngine_EmptyAnswers(t *testing.T) {
	res := NewEngine(catalog.Default()).Recommend(context.Background(), models.Answers{}, 3)
	if len(res.Ranked) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(res.Ranked))
	}
	if res.Ranked[0].Product.ID != 3 || !approx(res.Ranked[0].Score, 6.0) {
		t.Errorf("top: got product %d at %v", res.Ranked[0].Product.ID, res.Ranked[0].Score)
	}
	for i := 1; i < len(res.Ranked); i++ {
		if res.Ranked[i-1].Score < res.Ranked[i].Score {
			t.Errorf("not descending at %d", i)
		}
	}
	recs := res.Recommendations()
	if len(recs) != 3 || recs[0].ProductName != "Oil Nutritive" || recs[0].Score != 6.0 {
		t.Errorf("recommendations: %+v", recs)
	}
}

func TestEngine_InsightsRaiseScoresWithinCap(t *testing.T) {
	ex := &stubExtractor{tags: map[string]bool{
		insight.TagChemicalDamage: true,
		insight.TagHeatDamage:     true,
	}}
	e := NewEngine(catalog.Default(), WithAdjuster(insight.NewAdjuster(ex, nil)))
	res := e.Recommend(context.Background(), models.Answers{
		RoutineText: "I bleach my hair and flat iron it every day",
	}, 3)

	if ex.calls.Load() != 1 {
		t.Errorf("expected a single extraction per request, got %d", ex.calls.Load())
	}
	if !res.Insights.Has(insight.TagChemicalDamage) || !res.Insights.Has(insight.TagHeatDamage) {
		t.Errorf("insights: got %v", res.Insights.Active())
	}
	want := []int{1, 7, 3}
	for i, id := range want {
		if res.Ranked[i].Product.ID != id {
			t.Errorf("position %d: got %d, want %d", i, res.Ranked[i].Product.ID, id)
		}
	}
	// 5.0 base plus 1.8 of bonuses, capped at 30% of the base.
	top := res.Ranked[0]
	if !approx(top.Score, 6.5) {
		t.Errorf("top score: got %v, want 6.5", top.Score)
	}
	if top.Score-top.BaseScore > 0.3*top.BaseScore+1e-9 {
		t.Errorf("adjustment exceeds cap: base %v, final %v", top.BaseScore, top.Score)
	}
	found := false
	for _, r := range top.Rules {
		if r.Name == insight.RuleName(insight.TagChemicalDamage) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected insight rule on top product, got %+v", top.Rules)
	}
}

func TestEngine_FailingExtractorMatchesNoExtractor(t *testing.T) {
	answers := models.Answers{
		DamageLevel: damage(8),
		HairGoal:    "hydrate",
		RoutineText: "I color my hair monthly",
	}
	plain := NewEngine(catalog.Default()).Recommend(context.Background(), answers, 3)

	ex := &stubExtractor{err: errors.New("upstream unavailable")}
	failing := NewEngine(catalog.Default(), WithAdjuster(insight.NewAdjuster(ex, nil))).
		Recommend(context.Background(), answers, 3)

	if len(plain.Ranked) != len(failing.Ranked) {
		t.Fatalf("lengths differ: %d vs %d", len(plain.Ranked), len(failing.Ranked))
	}
	for i := range plain.Ranked {
		a, b := plain.Ranked[i], failing.Ranked[i]
		if a.Product.ID != b.Product.ID || a.Score != b.Score || a.Confidence != b.Confidence {
			t.Errorf("position %d differs: %d/%v vs %d/%v", i, a.Product.ID, a.Score, b.Product.ID, b.Score)
		}
	}
}

func TestEngine_ExplainsOnlyRankedProducts(t *testing.T) {
	ex := &stubExplainer{}
	e := NewEngine(catalog.Default(), WithGenerator(explain.NewGenerator(explain.WithExplainer(ex))))
	res := e.Recommend(context.Background(), models.Answers{HairGoal: "volume"}, 2)

	if len(res.Ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Ranked))
	}
	if got := ex.calls.Load(); got != 2 {
		t.Errorf("explainer calls: got %d, want 2", got)
	}
	for _, sp := range res.Ranked {
		if sp.Detail.Explanation != "Great for "+sp.Product.Name {
			t.Errorf("detail for %s: %q", sp.Product.Name, sp.Detail.Explanation)
		}
	}
}

func newSimilarityEngine(t *testing.T) *Engine {
	t.Helper()
	cat := catalog.Default()
	s, err := similarity.NewScorer(cat.Products(), nil)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return NewEngine(cat, WithScorer(s))
}

func TestEngine_SimilarityEmptyAnswersFallsBack(t *testing.T) {
	e := newSimilarityEngine(t)
	if e.Strategy() != ranking.StrategySimilarity {
		t.Fatalf("strategy: got %q", e.Strategy())
	}
	res := e.Recommend(context.Background(), models.Answers{}, 3)
	if !res.Fallback() {
		t.Fatalf("expected fallback, got %v", ids(res.Ranked))
	}
	if res.Ranked[0].Product.ID != 1 || res.Ranked[0].Score != 5.0 {
		t.Errorf("fallback: got %+v", res.Ranked[0])
	}
	if res.Ranked[0].Detail.Explanation == "" {
		t.Error("fallback should still carry a detail")
	}
}

func TestEngine_SimilarityAnswers(t *testing.T) {
	e := newSimilarityEngine(t)
	res := e.Recommend(context.Background(), models.Answers{
		HairFeel:       "very_dry",
		ScalpCondition: "dry_flaky",
		HairBehavior:   "breaks_easily",
		Treatments:     []string{"heat_styling", "coloring"},
		HairGoal:       "repair",
	}, 3)

	if len(res.Ranked) == 0 || len(res.Ranked) > 3 {
		t.Fatalf("expected between 1 and 3 results, got %d", len(res.Ranked))
	}
	for _, sp := range res.Ranked {
		if sp.Reasoning == "" || sp.Detail.Routine == "" {
			t.Errorf("%s: missing reasoning or routine", sp.Product.Name)
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := NewEngine(catalog.Default())
	answers := models.Answers{DamageLevel: damage(6), HairTexture: "fine", TopConcerns: []string{"volume", "frizz"}}
	first := e.Recommend(context.Background(), answers, 3)
	for i := 0; i < 5; i++ {
		again := e.Recommend(context.Background(), answers, 3)
		for j := range first.Ranked {
			if first.Ranked[j].Product.ID != again.Ranked[j].Product.ID || first.Ranked[j].Score != again.Ranked[j].Score {
				t.Fatalf("run %d differs at %d", i, j)
			}
		}
	}
}

func TestGetRecommendations(t *testing.T) {
	p := models.UserProfile{
		DamageLevel: 9,
		Texture:     models.TextureCoarse,
		Goal:        models.GoalRepair,
		Scalp:       models.ScalpNormal,
		Concerns:    models.Concerns{Damage: true},
	}
	ranked := GetRecommendations(context.Background(), p, catalog.Default(), 1)
	if len(ranked) != 1 || ranked[0].Product.ID != 1 {
		t.Errorf("got %v", ids(ranked))
	}
}

type fixedMatcher struct{ score float64 }

func (m fixedMatcher) Score(context.Context, string, *models.Product) (float64, error) {
	return m.score, nil
}

func TestEngine_SimilarityInsightCapUsesBaseScore(t *testing.T) {
	cat := catalog.Default()
	s, err := similarity.NewScorer(cat.Products(), nil, similarity.WithMatchScorer(fixedMatcher{score: 10}))
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	ex := &stubExtractor{tags: map[string]bool{
		insight.TagChemicalDamage:    true,
		insight.TagHeatDamage:        true,
		insight.TagRoutineComplexity: true,
	}}
	e := NewEngine(cat, WithScorer(s), WithAdjuster(insight.NewAdjuster(ex, nil)))
	res := e.Recommend(context.Background(), models.Answers{
		HairFeel:     "very_dry",
		HairBehavior: "breaks_easily",
		Treatments:   []string{"heat_styling", "coloring"},
		HairGoal:     "repair",
		RoutineText:  "I bleach my hair and flat iron it every day",
	}, 7)

	if res.Fallback() {
		t.Fatalf("expected similarity results, got fallback")
	}
	for _, sp := range res.Ranked {
		var match float64
		for _, r := range sp.Rules {
			if r.Name == similarity.RuleModelMatch {
				match = r.Delta
			}
		}
		if match <= 0 {
			t.Errorf("%s: expected a match bonus, got %+v", sp.Product.Name, sp.Rules)
		}
		if sp.Score-sp.BaseScore-match > 0.3*sp.BaseScore+1e-9 {
			t.Errorf("%s: insight increase exceeds cap: base %v, match %v, final %v",
				sp.Product.Name, sp.BaseScore, match, sp.Score)
		}
	}
}
