// Package insight extracts coarse hair-care signals from free text and turns
// them into a capped score adjustment.
package insight

import "sort"

// Insight tags recognized in free text.
const (
	TagChemicalDamage    = "high_chemical_damage"
	TagHeatDamage        = "high_heat_damage"
	TagHumidityFrizz     = "humidity_frizz"
	TagScalpIssues       = "scalp_issues"
	TagRoutineComplexity = "routine_complexity"
	TagNeglectIssues     = "neglect_issues"
)

// Vocabulary is the fixed set of tags an extractor may report.
var Vocabulary = []string{
	TagChemicalDamage,
	TagHeatDamage,
	TagHumidityFrizz,
	TagScalpIssues,
	TagRoutineComplexity,
	TagNeglectIssues,
}

var known = func() map[string]bool {
	m := make(map[string]bool, len(Vocabulary))
	for _, tag := range Vocabulary {
		m[tag] = true
	}
	return m
}()

// TagSet maps vocabulary tags to presence. The zero value is the empty set.
type TagSet map[string]bool

// NewTagSet keeps only vocabulary tags from raw.
func NewTagSet(raw map[string]bool) TagSet {
	out := make(TagSet, len(raw))
	for tag, v := range raw {
		if known[tag] {
			out[tag] = v
		}
	}
	return out
}

// Clone returns an independent copy.
func (t TagSet) Clone() TagSet {
	out := make(TagSet, len(t))
	for tag, v := range t {
		out[tag] = v
	}
	return out
}

// Has reports whether tag is present and true.
func (t TagSet) Has(tag string) bool {
	return t[tag]
}

// Active returns the true tags in sorted order.
func (t TagSet) Active() []string {
	var out []string
	for tag, v := range t {
		if v {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// Empty reports whether no tag is active.
func (t TagSet) Empty() bool {
	for _, v := range t {
		if v {
			return false
		}
	}
	return true
}
