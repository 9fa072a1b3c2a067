package vector

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Very Dry, brittle hair!", []string{"very", "dry", "brittle", "hair"}},
		{"anti_frizz a b 2x", []string{"anti_frizz", "2x"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNGrams(t *testing.T) {
	got := NGrams([]string{"dry", "brittle", "hair"}, 2)
	want := []string{"dry", "brittle", "hair", "dry brittle", "brittle hair"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if uni := NGrams([]string{"dry"}, 0); !reflect.DeepEqual(uni, []string{"dry"}) {
		t.Errorf("maxN below 1 should give unigrams, got %v", uni)
	}
}

func TestFit_VocabularyCap(t *testing.T) {
	docs := []string{"repair repair repair hydrate", "repair smooth", "volume"}
	s := Fit(docs, WithMaxFeatures(2), WithMaxNGram(1))
	if s.Dimensions() != 2 {
		t.Fatalf("expected 2 terms, got %d", s.Dimensions())
	}
	// repair has the highest count; the remaining three tie at 1 and
	// hydrate sorts first.
	want := []string{"hydrate", "repair"}
	if !reflect.DeepEqual(s.Terms(), want) {
		t.Errorf("terms: got %v, want %v", s.Terms(), want)
	}
}

func TestTransform_Normalized(t *testing.T) {
	s := Fit([]string{"dry damaged hair repair", "oily scalp balance", "fine hair volume"})
	v := s.Transform("dry hair needs repair")
	if n := L2Norm(v); math.Abs(n-1) > 1e-9 {
		t.Errorf("expected unit norm, got %v", n)
	}
	zero := s.Transform("zzz qqq")
	if L2Norm(zero) != 0 {
		t.Error("unknown terms should give the zero vector")
	}
}

func TestSimilarity(t *testing.T) {
	docs := []string{"dry damaged hair repair", "oily scalp balance", "fine hair volume"}
	s := Fit(docs)
	if got := s.Similarity(docs[0], docs[0]); math.Abs(got-1) > 1e-9 {
		t.Errorf("self similarity should be 1, got %v", got)
	}
	near := s.Similarity("damaged hair needs repair", docs[0])
	far := s.Similarity("damaged hair needs repair", docs[1])
	if near <= far {
		t.Errorf("expected repair text closer to the repair doc: near=%v far=%v", near, far)
	}
	if far != 0 {
		t.Errorf("disjoint texts should have zero similarity, got %v", far)
	}
}

func TestFit_IDFWeighsRareTerms(t *testing.T) {
	s := Fit([]string{"hair repair", "hair volume", "hair smooth"}, WithMaxNGram(1))
	v := s.Transform("hair repair")
	var hair, repair float64
	for i, term := range s.Terms() {
		switch term {
		case "hair":
			hair = v[i]
		case "repair":
			repair = v[i]
		}
	}
	if repair <= hair {
		t.Errorf("rare term should outweigh common term: repair=%v hair=%v", repair, hair)
	}
}
