// Package cli provides terminal output for hairmatch commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/questionnaire"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per item.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat validates a --format flag value. Empty means text.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact or json)", s)
	}
}

// WriteRecommendations writes a diagnosis result to w in the given format.
// Unknown formats are written as text.
func WriteRecommendations(w io.Writer, resp *models.DiagnosisResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, resp)
	case OutputCompact:
		for i, rec := range resp.Recommendations {
			fmt.Fprintf(w, "%d. %s (%.1f, %s) %s\n", i+1, rec.ProductName, rec.Score, rec.Confidence, TruncateWords(rec.Reasoning, 12))
		}
		return nil
	default:
		writeRecommendationsText(w, resp)
		return nil
	}
}

func writeRecommendationsText(w io.Writer, resp *models.DiagnosisResponse) {
	fmt.Fprintf(w, "\n%d recommendations (%s strategy)\n\n", len(resp.Recommendations), resp.Strategy)
	for i, rec := range resp.Recommendations {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "#%d %s by %s | Score: %.1f | Confidence: %s\n", i+1, rec.ProductName, rec.Brand, rec.Score, rec.Confidence)
		if rec.Category != "" {
			fmt.Fprintf(w, "Category: %s\n", rec.Category)
		}
		fmt.Fprintf(w, "\n%s\n", rec.Reasoning)
		if rec.DetailedExplanation != "" {
			fmt.Fprintf(w, "\n%s\n", rec.DetailedExplanation)
		}
		if rec.HairRoutine != "" {
			fmt.Fprintf(w, "\nRoutine: %s\n", rec.HairRoutine)
		}
		fmt.Fprintln(w)
	}
}

// WriteProducts writes catalog products to w in the given format.
func WriteProducts(w io.Writer, products []models.Product, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, map[string]interface{}{"products": products, "count": len(products)})
	case OutputCompact:
		for _, p := range products {
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Category)
		}
		return nil
	default:
		fmt.Fprintf(w, "\n%d products\n\n", len(products))
		for _, p := range products {
			fmt.Fprintf(w, "[%d] %s %s", p.ID, p.Brand, p.Name)
			if p.Category != "" {
				fmt.Fprintf(w, " (%s)", p.Category)
			}
			fmt.Fprintln(w)
			if len(p.Features) > 0 {
				fmt.Fprintf(w, "    features: %s\n", p.Features.String())
			}
			if len(p.TargetConcerns) > 0 {
				fmt.Fprintf(w, "    concerns: %s\n", p.TargetConcerns.String())
			}
		}
		return nil
	}
}

// WriteQuestionnaire writes the quiz to w in the given format.
func WriteQuestionnaire(w io.Writer, q questionnaire.Questionnaire, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, q)
	}
	for _, question := range q.Questions {
		fmt.Fprintf(w, "%d. %s [%s, key %s]\n", question.ID, question.Title, question.Type, question.Key)
		if format == OutputCompact {
			continue
		}
		if question.Type == questionnaire.TypeSlider {
			fmt.Fprintf(w, "    %d to %d\n", question.Min, question.Max)
		}
		for _, opt := range question.Options {
			fmt.Fprintf(w, "    - %s: %s\n", opt.Value, opt.Label)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
