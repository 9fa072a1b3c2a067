package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyperjump/hairmatch/pkg/utils"
)

// Confidence is the ordinal tier attached to a ranked product: Low < Medium < High.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "High"
	case ConfidenceMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// MarshalJSON encodes the tier as its label.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a tier label.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("confidence must be a string: %w", err)
	}
	switch s {
	case "High":
		*c = ConfidenceHigh
	case "Medium":
		*c = ConfidenceMedium
	case "Low":
		*c = ConfidenceLow
	default:
		return fmt.Errorf("unknown confidence %q", s)
	}
	return nil
}

// FiredRule records a scoring rule or adjustment that contributed to a score.
type FiredRule struct {
	Name  string  `json:"name"`
	Delta float64 `json:"delta"`
}

// Detail is the long-form explanation and care routine for one recommendation.
type Detail struct {
	Explanation string `json:"explanation"`
	Routine     string `json:"routine"`
}

// ScoredProduct is a product with its score and justification, before and after ranking.
type ScoredProduct struct {
	Product    Product
	Score      float64
	BaseScore  float64
	Similarity float64
	Rules      []FiredRule
	Reasoning  string
	Confidence Confidence
	Detail     Detail
	Fallback   bool
}

// Recommendation is the outward shape of one ranked product.
type Recommendation struct {
	ProductID           int        `json:"product_id"`
	ProductName         string     `json:"product_name"`
	Brand               string     `json:"brand"`
	Category            string     `json:"category,omitempty"`
	Score               float64    `json:"score"`
	Reasoning           string     `json:"reasoning"`
	Confidence          Confidence `json:"confidence"`
	DetailedExplanation string     `json:"detailed_explanation"`
	HairRoutine         string     `json:"hair_routine"`
}

// ToRecommendation converts a ranked product, rounding the score to one decimal.
func (s *ScoredProduct) ToRecommendation() Recommendation {
	return Recommendation{
		ProductID:           s.Product.ID,
		ProductName:         s.Product.Name,
		Brand:               s.Product.Brand,
		Category:            s.Product.Category,
		Score:               utils.Round(s.Score, 1),
		Reasoning:           s.Reasoning,
		Confidence:          s.Confidence,
		DetailedExplanation: s.Detail.Explanation,
		HairRoutine:         s.Detail.Routine,
	}
}

// DiagnosisResponse is returned for one questionnaire submission.
type DiagnosisResponse struct {
	SessionID       string           `json:"session_id"`
	Strategy        string           `json:"strategy"`
	Recommendations []Recommendation `json:"recommendations"`
	Timestamp       time.Time        `json:"timestamp"`
}

// DiagnosisRequest is one questionnaire submission over HTTP. Answers is kept
// loosely typed and parsed leniently by ParseAnswers.
type DiagnosisRequest struct {
	SessionID string         `json:"session_id,omitempty" validate:"omitempty,max=128,printascii"`
	Answers   map[string]any `json:"answers" validate:"required"`
	TopN      int            `json:"top_n,omitempty" validate:"omitempty,min=1,max=20"`
}
