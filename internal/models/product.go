// Package models defines core data structures for products, questionnaire answers,
// user profiles, and recommendations.
package models

// Product is a catalog entry. Products are immutable once a catalog is loaded.
type Product struct {
	ID              int    `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Brand           string `json:"brand" yaml:"brand"`
	Category        string `json:"category,omitempty" yaml:"category,omitempty"`
	Features        TagSet `json:"features" yaml:"features"`
	TargetHairTypes TagSet `json:"target_hair_types" yaml:"target_hair_types"`
	TargetConcerns  TagSet `json:"target_concerns" yaml:"target_concerns"`
	Ingredients     TagSet `json:"ingredients" yaml:"ingredients"`
	TextureMatch    TagSet `json:"texture_match,omitempty" yaml:"texture_match,omitempty"`
	ScalpMatch      TagSet `json:"scalp_match,omitempty" yaml:"scalp_match,omitempty"`
	LifestyleMatch  TagSet `json:"lifestyle_match,omitempty" yaml:"lifestyle_match,omitempty"`
	GoalMatch       TagSet `json:"goal_match,omitempty" yaml:"goal_match,omitempty"`
}

// Normalize returns a copy with every tag field normalized.
func (p Product) Normalize() Product {
	p.Features = p.Features.Normalize()
	p.TargetHairTypes = p.TargetHairTypes.Normalize()
	p.TargetConcerns = p.TargetConcerns.Normalize()
	p.Ingredients = p.Ingredients.Normalize()
	p.TextureMatch = p.TextureMatch.Normalize()
	p.ScalpMatch = p.ScalpMatch.Normalize()
	p.LifestyleMatch = p.LifestyleMatch.Normalize()
	p.GoalMatch = p.GoalMatch.Normalize()
	return p
}

// HasTag reports whether tok appears in the product's features, target hair types,
// or target concerns. Ingredients and match fields are not consulted.
func (p *Product) HasTag(tok string) bool {
	return p.Features.Has(tok) || p.TargetHairTypes.Has(tok) || p.TargetConcerns.Has(tok)
}

// HasAnyTag reports whether any of toks satisfies HasTag.
func (p *Product) HasAnyTag(toks ...string) bool {
	for _, tok := range toks {
		if p.HasTag(tok) {
			return true
		}
	}
	return false
}
