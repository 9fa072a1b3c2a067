package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/hairmatch/internal/catalog"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/questionnaire"
)

func sampleResponse() *models.DiagnosisResponse {
	return &models.DiagnosisResponse{
		SessionID: "s-1",
		Strategy:  "rules",
		Recommendations: []models.Recommendation{
			{
				ProductID:           1,
				ProductName:         "Ultimate Repair",
				Brand:               "Gliss",
				Category:            "treatment",
				Score:               9.5,
				Reasoning:           "Targets damaged, coarse hair and supports your repair goal",
				Confidence:          models.ConfidenceHigh,
				DetailedExplanation: "Rebuilds the hair fiber.",
				HairRoutine:         "Apply after washing.",
			},
			{
				ProductID:   3,
				ProductName: "Oil Nutritive",
				Brand:       "Gliss",
				Score:       6.0,
				Reasoning:   "Smooths frizz",
				Confidence:  models.ConfidenceMedium,
			},
		},
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteRecommendations_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteRecommendations(json): %v", err)
	}
	var decoded models.DiagnosisResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.SessionID != "s-1" || len(decoded.Recommendations) != 2 {
		t.Errorf("decoded: %+v", decoded)
	}
	if decoded.Recommendations[0].Confidence != models.ConfidenceHigh {
		t.Errorf("confidence round trip: got %v", decoded.Recommendations[0].Confidence)
	}
}

func TestWriteRecommendations_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteRecommendations(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{
		"2 recommendations (rules strategy)",
		"#1 Ultimate Repair by Gliss | Score: 9.5 | Confidence: High",
		"Category: treatment",
		"Rebuilds the hair fiber.",
		"Routine: Apply after washing.",
		"#2 Oil Nutritive",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteRecommendations_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per recommendation, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "1. Ultimate Repair (9.5, High)") {
		t.Errorf("first line: %q", lines[0])
	}
}

func TestWriteRecommendations_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResponse(), OutputFormat("unknown")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "recommendations (rules strategy)") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteProducts(t *testing.T) {
	products := catalog.Default().Products()

	var buf bytes.Buffer
	if err := WriteProducts(&buf, products, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"7 products", "[1] Gliss Ultimate Repair (treatment)", "concerns: volume flat"} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("text output missing %q:\n%s", sub, buf.String())
		}
	}

	buf.Reset()
	if err := WriteProducts(&buf, products, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 7 {
		t.Errorf("compact: expected 7 lines, got %d", n)
	}

	buf.Reset()
	if err := WriteProducts(&buf, products, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded.Count != 7 {
		t.Errorf("json: count %d, err %v", decoded.Count, err)
	}
}

func TestWriteQuestionnaire(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQuestionnaire(&buf, questionnaire.Rules(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "key damage_level") || !strings.Contains(out, "1 to 10") {
		t.Errorf("text output missing slider details:\n%s", out)
	}

	buf.Reset()
	if err := WriteQuestionnaire(&buf, questionnaire.Similarity(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 5 {
		t.Errorf("compact: expected 5 lines, got %d", n)
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWords int
		want     string
	}{
		{"empty", "", 3, ""},
		{"few words", "one two", 3, "one two"},
		{"exact", "one two three", 3, "one two three"},
		{"more", "one two three four", 3, "one two three..."},
		{"single long", "word", 1, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWords(tt.s, tt.maxWords)
			if got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
			}
		})
	}
}
