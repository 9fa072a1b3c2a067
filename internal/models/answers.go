package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Answers is the typed form of one questionnaire submission. Every field is optional;
// absent or wrong-typed inputs are left at their zero value and defaulted by the encoder.
type Answers struct {
	HairConditions []string `json:"hair_conditions,omitempty"`
	DamageLevel    *float64 `json:"damage_level,omitempty"`
	HairTexture    string   `json:"hair_texture,omitempty"`
	TopConcerns    []string `json:"top_concerns,omitempty"`
	Treatments     []string `json:"treatments,omitempty"`
	HairGoal       string   `json:"hair_goal,omitempty"`
	ScalpCondition string   `json:"scalp_condition,omitempty"`
	HairFeel       string   `json:"hair_feel,omitempty"`
	HairBehavior   string   `json:"hair_behavior,omitempty"`
	Weather        string   `json:"weather,omitempty"`
	RoutineText    string   `json:"routine_text,omitempty"`
}

// Accepted keys per field. The first key is canonical; the rest cover the
// five-question and ten-question quiz front ends.
var (
	keysHairConditions = []string{"hair_conditions", "hair_condition", "conditions"}
	keysDamageLevel    = []string{"damage_level", "damage"}
	keysHairTexture    = []string{"hair_texture", "texture", "hair_thickness", "hair_volume"}
	keysTopConcerns    = []string{"top_concerns", "concerns", "hair_concerns"}
	keysTreatments     = []string{"treatments", "styling", "lifestyle", "q4_lifestyle"}
	keysHairGoal       = []string{"hair_goal", "goal", "q5_hair_goal"}
	keysScalpCondition = []string{"scalp_condition", "scalp", "q2_scalp_condition"}
	keysHairFeel       = []string{"hair_feel", "q1_hair_feel"}
	keysHairBehavior   = []string{"hair_behavior", "q3_hair_behavior"}
	keysWeather        = []string{"weather", "climate"}
	keysRoutineText    = []string{"routine_text", "free_text", "routine", "hair_routine"}
)

// ParseAnswers builds Answers from a loosely typed object. It never fails: values of
// an unexpected type are treated as absent.
func ParseAnswers(raw map[string]any) Answers {
	var a Answers
	if raw == nil {
		return a
	}
	a.HairConditions = stringList(lookup(raw, keysHairConditions))
	a.DamageLevel = numberValue(lookup(raw, keysDamageLevel))
	a.HairTexture = stringValue(lookup(raw, keysHairTexture))
	a.TopConcerns = stringList(lookup(raw, keysTopConcerns))
	a.Treatments = stringList(lookup(raw, keysTreatments))
	a.HairGoal = stringValue(lookup(raw, keysHairGoal))
	a.ScalpCondition = stringValue(lookup(raw, keysScalpCondition))
	a.HairFeel = stringValue(lookup(raw, keysHairFeel))
	a.HairBehavior = stringValue(lookup(raw, keysHairBehavior))
	a.Weather = stringValue(lookup(raw, keysWeather))
	a.RoutineText = stringValue(lookup(raw, keysRoutineText))
	return a
}

// ParseAnswersJSON decodes a JSON object into Answers. The only error is a payload
// that is not a JSON object; field-level problems are absorbed by ParseAnswers.
func ParseAnswersJSON(data []byte) (Answers, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Answers{}, fmt.Errorf("answers must be a JSON object: %w", err)
	}
	return ParseAnswers(raw), nil
}

// lookup returns the first present value among keys, matching keys case-insensitively.
func lookup(raw map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	for rk, v := range raw {
		if v == nil {
			continue
		}
		norm := NormalizeToken(rk)
		for _, k := range keys {
			if norm == k {
				return v
			}
		}
	}
	return nil
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// stringList accepts a list (non-string members are skipped) or a single string.
func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
	case []string:
		out := make([]string, 0, len(val))
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

func numberValue(v any) *float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}
