package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/hairmatch/internal/explain"
	"github.com/hyperjump/hairmatch/internal/insight"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/similarity"
)

var (
	_ insight.Extractor         = (*InsightExtractor)(nil)
	_ similarity.MatchScorer    = (*MatchScorer)(nil)
	_ explain.DetailedExplainer = (*Explainer)(nil)
)

// InsightExtractor asks the model which insight tags apply to a text.
type InsightExtractor struct {
	completer Completer
}

// NewInsightExtractor creates an InsightExtractor.
func NewInsightExtractor(c Completer) *InsightExtractor {
	return &InsightExtractor{completer: c}
}

// Extract implements insight.Extractor.
func (e *InsightExtractor) Extract(ctx context.Context, text string, vocabulary []string) (map[string]bool, error) {
	out, err := e.completer.Complete(ctx, CompletionRequest{
		Prompt:      insightPrompt(text, vocabulary),
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		return nil, err
	}
	return parseTags(out)
}

// parseTags reads the first JSON object in s. Boolean and "true"/"false"
// string values are accepted; anything else is ignored.
func parseTags(s string) (map[string]bool, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in response %q", s)
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse insight tags: %w", err)
	}
	tags := make(map[string]bool, len(raw))
	for k, v := range raw {
		key := models.NormalizeToken(k)
		switch val := v.(type) {
		case bool:
			tags[key] = val
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
				tags[key] = b
			}
		}
	}
	return tags, nil
}

// MatchScorer asks the model for a 0-10 match rating.
type MatchScorer struct {
	completer Completer
}

// NewMatchScorer creates a MatchScorer.
func NewMatchScorer(c Completer) *MatchScorer {
	return &MatchScorer{completer: c}
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Score implements similarity.MatchScorer.
func (m *MatchScorer) Score(ctx context.Context, profileText string, product *models.Product) (float64, error) {
	out, err := m.completer.Complete(ctx, CompletionRequest{
		Prompt:      matchPrompt(profileText, product),
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		return 0, err
	}
	return parseScore(out)
}

func parseScore(s string) (float64, error) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, fmt.Errorf("no score in response %q", s)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse score: %w", err)
	}
	if v < 0 {
		v = 0
	}
	if v > 10 {
		v = 10
	}
	return v, nil
}

// Explainer asks the model for a match explanation and a care routine.
type Explainer struct {
	completer Completer
}

// NewExplainer creates an Explainer.
func NewExplainer(c Completer) *Explainer {
	return &Explainer{completer: c}
}

// Explain implements explain.DetailedExplainer.
func (e *Explainer) Explain(ctx context.Context, profile *models.UserProfile, product *models.Product) (models.Detail, error) {
	out, err := e.completer.Complete(ctx, CompletionRequest{
		Prompt:      explanationPrompt(profile, product),
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		return models.Detail{}, err
	}
	return parseDetail(out), nil
}

// parseDetail splits an "EXPLANATION: ... ROUTINE: ..." answer. When the
// markers are missing the whole text is the explanation and the routine is empty.
func parseDetail(s string) models.Detail {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "EXPLANATION:") || !strings.Contains(s, "ROUTINE:") {
		return models.Detail{Explanation: s}
	}
	parts := strings.SplitN(s, "ROUTINE:", 2)
	return models.Detail{
		Explanation: strings.TrimSpace(strings.Replace(parts[0], "EXPLANATION:", "", 1)),
		Routine:     strings.TrimSpace(parts[1]),
	}
}
