package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TagSet is an ordered, de-duplicated list of normalized tag tokens.
// Membership is exact-token and case-insensitive.
type TagSet []string

// NormalizeToken lowercases s and folds whitespace and hyphens into underscores,
// so "Heat styling" and "heat-styling" both become "heat_styling".
func NormalizeToken(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(s)), func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t' || r == '\n'
	})
	return strings.Join(parts, "_")
}

// NewTagSet normalizes each value as a whole token and drops empties and duplicates.
func NewTagSet(values ...string) TagSet {
	out := make(TagSet, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		tok := NormalizeToken(v)
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// ParseTagSet splits s on whitespace, commas and semicolons and normalizes each token.
func ParseTagSet(s string) TagSet {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '\t' || r == '\n' || r == '|'
	})
	return NewTagSet(fields...)
}

// Has reports whether tok (normalized) is a member.
func (t TagSet) Has(tok string) bool {
	tok = NormalizeToken(tok)
	for _, v := range t {
		if v == tok {
			return true
		}
	}
	return false
}

// HasAny reports whether any of toks is a member.
func (t TagSet) HasAny(toks ...string) bool {
	for _, tok := range toks {
		if t.Has(tok) {
			return true
		}
	}
	return false
}

// Normalize returns a normalized copy.
func (t TagSet) Normalize() TagSet {
	return NewTagSet(t...)
}

// String joins the tokens with single spaces.
func (t TagSet) String() string {
	return strings.Join(t, " ")
}

// UnmarshalJSON accepts either a list of strings or a single delimited string.
func (t *TagSet) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = NewTagSet(list...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tag set must be a string or list of strings: %w", err)
	}
	*t = ParseTagSet(s)
	return nil
}

// UnmarshalYAML accepts either a sequence of strings or a single delimited string.
func (t *TagSet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("decode tag list: %w", err)
		}
		*t = NewTagSet(list...)
	case yaml.ScalarNode:
		*t = ParseTagSet(value.Value)
	default:
		return fmt.Errorf("tag set must be a string or list, got yaml kind %d", value.Kind)
	}
	return nil
}
