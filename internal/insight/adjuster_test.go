package insight

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/models"
)

type stubExtractor struct {
	tags  map[string]bool
	err   error
	delay time.Duration
	panic bool
	calls atomic.Int32
}

func (s *stubExtractor) Extract(ctx context.Context, _ string, vocabulary []string) (map[string]bool, error) {
	s.calls.Add(1)
	if s.panic {
		panic("extractor exploded")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if len(vocabulary) != len(Vocabulary) {
		return nil, errors.New("vocabulary not passed")
	}
	return s.tags, s.err
}

func repairStrengthProduct() *models.Product {
	return &models.Product{
		Name:            "Ultimate Repair",
		Features:        models.TagSet{"repair", "strengthening"},
		TargetHairTypes: models.TagSet{"damaged"},
	}
}

func TestAdjuster_ChemicalAndHeatScenario(t *testing.T) {
	ex := &stubExtractor{tags: map[string]bool{TagChemicalDamage: true, TagHeatDamage: true}}
	a := NewAdjuster(ex, nil, WithLogger(zap.NewNop()))
	text := "I bleach my hair every month and blow dry daily"
	product := repairStrengthProduct()

	tests := []struct {
		base float64
		want float64
	}{
		{9.5, 9.5 + 1.8},     // 1.0 + 0.8 under the 2.85 cap
		{5.0, 5.0 + 1.5},     // capped at 30% of 5.0
		{10.0, 10.0 + 1.8},   // not re-clamped here
		{2.0, 2.0 + 0.3*2.0}, // capped
	}
	for _, tt := range tests {
		got := a.Adjust(context.Background(), tt.base, text, product)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Adjust(%v) = %v, want %v", tt.base, got, tt.want)
		}
		if got-tt.base > 0.3*tt.base+1e-9 {
			t.Errorf("increase %v exceeds cap for base %v", got-tt.base, tt.base)
		}
	}
	if ex.calls.Load() != 1 {
		t.Errorf("expected a single cached extraction, got %d calls", ex.calls.Load())
	}
}

func TestAdjuster_CapHoldsForAllTags(t *testing.T) {
	all := make(map[string]bool)
	for _, tag := range Vocabulary {
		all[tag] = true
	}
	a := NewAdjuster(nil, nil)
	product := &models.Product{
		Features:       models.TagSet{"repair", "strengthening", "anti_frizz", "scalp_care", "nourishing"},
		TargetConcerns: models.TagSet{"frizz", "scalp"},
	}
	for _, base := range []float64{0.5, 1, 3, 5, 7.5, 10} {
		adj := a.Apply(base, NewTagSet(all), product)
		if adj.Delta > 0.3*base+1e-9 {
			t.Errorf("base %v: delta %v exceeds cap", base, adj.Delta)
		}
		if len(adj.Rules) != len(Vocabulary) {
			t.Errorf("expected every tag to fire, got %d", len(adj.Rules))
		}
	}
}

func TestAdjuster_Rules(t *testing.T) {
	a := NewAdjuster(nil, nil)
	tests := []struct {
		name    string
		tag     string
		product models.Product
		delta   float64
	}{
		{"chemical needs repair", TagChemicalDamage, models.Product{Features: models.TagSet{"repair"}}, 1.0},
		{"chemical without repair", TagChemicalDamage, models.Product{Features: models.TagSet{"hydrating"}}, 0},
		{"heat protection", TagHeatDamage, models.Product{Features: models.TagSet{"heat_protection"}}, 0.8},
		{"humidity via concern", TagHumidityFrizz, models.Product{TargetConcerns: models.TagSet{"frizz"}}, 0.6},
		{"scalp via concern", TagScalpIssues, models.Product{TargetConcerns: models.TagSet{"scalp"}}, 0.6},
		{"neglect", TagNeglectIssues, models.Product{Features: models.TagSet{"nourishing"}}, 0.5},
		{"complexity needs three features", TagRoutineComplexity, models.Product{Features: models.TagSet{"a", "b", "c"}}, 0.3},
		{"complexity with two features", TagRoutineComplexity, models.Product{Features: models.TagSet{"a", "b"}}, 0},
		{"ingredients are not consulted", TagChemicalDamage, models.Product{Ingredients: models.TagSet{"repair"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := a.Apply(10, TagSet{tt.tag: true}, &tt.product)
			if math.Abs(adj.Delta-tt.delta) > 1e-9 {
				t.Errorf("delta: got %v, want %v", adj.Delta, tt.delta)
			}
		})
	}
}

func TestAdjuster_FailuresEqualEmptySet(t *testing.T) {
	product := repairStrengthProduct()
	empty := NewAdjuster(nil, nil).Apply(7, TagSet{}, product).Score

	tests := []struct {
		name string
		ex   *stubExtractor
		cfg  *Config
	}{
		{"error", &stubExtractor{err: errors.New("malformed response")}, nil},
		{"panic", &stubExtractor{panic: true}, nil},
		{"timeout", &stubExtractor{delay: time.Second, tags: map[string]bool{TagChemicalDamage: true}}, &Config{Timeout: 10 * time.Millisecond}},
		{"unknown keys only", &stubExtractor{tags: map[string]bool{"loves_hats": true}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdjuster(tt.ex, tt.cfg)
			got := a.Adjust(context.Background(), 7, "some routine text", product)
			if got != empty {
				t.Errorf("got %v, want %v", got, empty)
			}
		})
	}
}

func TestAdjuster_FailuresAreNotCached(t *testing.T) {
	ex := &stubExtractor{err: errors.New("temporarily down")}
	a := NewAdjuster(ex, nil)
	a.Extract(context.Background(), "dry hair")
	a.Extract(context.Background(), "dry hair")
	if ex.calls.Load() != 2 {
		t.Errorf("failed extractions should be retried, got %d calls", ex.calls.Load())
	}
}

func TestAdjuster_EmptyTextSkipsExtractor(t *testing.T) {
	ex := &stubExtractor{tags: map[string]bool{TagChemicalDamage: true}}
	a := NewAdjuster(ex, nil)
	for _, text := range []string{"", "   ", "\n\t"} {
		if tags := a.Extract(context.Background(), text); !tags.Empty() {
			t.Errorf("expected empty set for %q", text)
		}
	}
	if ex.calls.Load() != 0 {
		t.Errorf("extractor should not be called, got %d calls", ex.calls.Load())
	}
	if !a.Enabled() || NewAdjuster(nil, nil).Enabled() {
		t.Error("Enabled should reflect the extractor")
	}
}

func TestAdjuster_CacheKeyNormalized(t *testing.T) {
	ex := &stubExtractor{tags: map[string]bool{TagHeatDamage: true}}
	a := NewAdjuster(ex, nil)
	a.Extract(context.Background(), "Blow dry  daily")
	a.Extract(context.Background(), "  blow DRY daily ")
	if ex.calls.Load() != 1 {
		t.Errorf("expected one call, got %d", ex.calls.Load())
	}
}

func TestAdjuster_NonPositiveBase(t *testing.T) {
	a := NewAdjuster(nil, nil)
	adj := a.Apply(0, TagSet{TagChemicalDamage: true}, repairStrengthProduct())
	if adj.Score != 0 || adj.Delta != 0 {
		t.Errorf("zero base should be unchanged, got %+v", adj)
	}
}

func TestAdjuster_ApplyToCapsOnBase(t *testing.T) {
	a := NewAdjuster(nil, nil)
	tags := TagSet{TagChemicalDamage: true, TagHeatDamage: true}
	product := repairStrengthProduct()

	tests := []struct {
		name      string
		score     float64
		capBase   float64
		wantDelta float64
	}{
		{"bonus does not widen cap", 7, 2, 0.6},
		{"uncapped", 11, 10, 1.8},
		{"zero cap base", 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := a.ApplyTo(tt.score, tt.capBase, tags, product)
			if math.Abs(adj.Delta-tt.wantDelta) > 1e-9 {
				t.Errorf("delta: got %v, want %v", adj.Delta, tt.wantDelta)
			}
			if math.Abs(adj.Score-(tt.score+tt.wantDelta)) > 1e-9 {
				t.Errorf("score: got %v, want %v", adj.Score, tt.score+tt.wantDelta)
			}
		})
	}
}

func TestAdjuster_ExtractReturnsCopy(t *testing.T) {
	ex := &stubExtractor{tags: map[string]bool{TagHeatDamage: true}}
	a := NewAdjuster(ex, nil)
	first := a.Extract(context.Background(), "blow dry daily")
	first[TagChemicalDamage] = true
	delete(first, TagHeatDamage)

	second := a.Extract(context.Background(), "blow dry daily")
	if ex.calls.Load() != 1 {
		t.Fatalf("expected cached lookup, got %d calls", ex.calls.Load())
	}
	if !second.Has(TagHeatDamage) || second.Has(TagChemicalDamage) {
		t.Errorf("cached tags were mutated through a returned set: %v", second.Active())
	}
}
