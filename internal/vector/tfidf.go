package vector

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/hyperjump/hairmatch/pkg/utils"
)

const (
	// DefaultMaxFeatures caps the vocabulary size.
	DefaultMaxFeatures = 300
	// DefaultMaxNGram is the longest word n-gram added to the vocabulary.
	DefaultMaxNGram = 2
)

// TermSpace is a TF-IDF vector space fitted once on a fixed corpus. It is
// immutable after Fit and safe for concurrent use.
type TermSpace struct {
	maxFeatures int
	maxNGram    int
	terms       []string
	index       map[string]int
	idf         []float64
}

// Option configures a TermSpace.
type Option func(*TermSpace)

// WithMaxFeatures sets the vocabulary cap. Non-positive values keep the default.
func WithMaxFeatures(n int) Option {
	return func(s *TermSpace) {
		if n > 0 {
			s.maxFeatures = n
		}
	}
}

// WithMaxNGram sets the longest n-gram. Values below 1 keep the default.
func WithMaxNGram(n int) Option {
	return func(s *TermSpace) {
		if n >= 1 {
			s.maxNGram = n
		}
	}
}

// Fit builds the vocabulary and inverse document frequencies from docs.
// Terms are ranked by total corpus count, ties broken alphabetically, and the
// top maxFeatures are kept. IDF is smoothed: ln((1+n)/(1+df)) + 1.
func Fit(docs []string, opts ...Option) *TermSpace {
	s := &TermSpace{maxFeatures: DefaultMaxFeatures, maxNGram: DefaultMaxNGram}
	for _, opt := range opts {
		opt(s)
	}

	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range s.analyze(doc) {
			counts[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > s.maxFeatures {
		terms = terms[:s.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	s.terms = terms
	s.index = make(map[string]int, len(terms))
	s.idf = make([]float64, len(terms))
	for i, term := range terms {
		s.index[term] = i
		s.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return s
}

// Dimensions returns the vocabulary size.
func (s *TermSpace) Dimensions() int {
	return len(s.terms)
}

// Terms returns the vocabulary in index order.
func (s *TermSpace) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Transform maps text into the fitted space as an L2-normalized dense vector.
// Out-of-vocabulary terms are ignored; text with no known terms yields the zero vector.
func (s *TermSpace) Transform(text string) []float64 {
	vec := make([]float64, len(s.terms))
	for _, term := range s.analyze(text) {
		if i, ok := s.index[term]; ok {
			vec[i]++
		}
	}
	for i := range vec {
		vec[i] *= s.idf[i]
	}
	utils.NormalizeL2(vec)
	return vec
}

// Similarity returns the cosine similarity of two texts in the fitted space.
func (s *TermSpace) Similarity(a, b string) float64 {
	return CosineSimilarity(s.Transform(a), s.Transform(b))
}

func (s *TermSpace) analyze(text string) []string {
	return NGrams(Tokenize(text), s.maxNGram)
}

// Tokenize lowercases text and splits it into runs of letters, digits, and
// underscores. Runs shorter than two characters are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// NGrams returns all word n-grams of tokens from length 1 to maxN, joined by a
// single space. Unigrams come first.
func NGrams(tokens []string, maxN int) []string {
	if maxN < 1 {
		maxN = 1
	}
	out := make([]string, 0, len(tokens)*maxN)
	out = append(out, tokens...)
	for n := 2; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
