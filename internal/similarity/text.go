package similarity

import (
	"strings"

	"github.com/hyperjump/hairmatch/internal/models"
)

var hairFeelTerms = map[string]string{
	"soft_smooth":    "soft smooth silky manageable healthy shiny glossy flexible supple",
	"slightly_rough": "rough textured coarse frizzy dull dehydrated porous uneven cuticle",
	"very_dry":       "extremely_dry brittle fragile damaged broken split_ends cracked_cuticle straw_like",
	"dry":            "dry parched thirsty low_moisture rough textured lackluster",
}

var scalpTerms = map[string]string{
	"normal":    "normal_scalp balanced healthy clean comfortable ph_balanced unproblematic",
	"oily":      "oily_scalp greasy sebaceous_overactive shiny_surface excess_sebum clogged_pores",
	"dry_flaky": "dry_scalp flaky scaling dandruff itchy irritated tight_sensation dehydrated_scalp",
	"sensitive": "sensitive_scalp reactive inflamed easily_irritated delicate prone_to_redness",
}

var behaviorTerms = map[string]string{
	"holds_style":  "style_retention manageable pliable responsive shape_holding cooperative",
	"loses_shape":  "limp flat lacking_volume fine_thin hair_weighted_down low_density",
	"frizzy_humid": "humidity_reactive frizz_prone hygroscopic expands_moisture unruly flyaways",
	"tangled":      "easily_tangled knotting matting snarls difficult_comb through high_friction",
}

var lifestyleTerms = map[string]string{
	"heat_styling": "heat_tools thermal_exposure blow_drying flat_iron curling_wand hot_brushes",
	"coloring":     "color_treated chemical_processing dye bleach highlights toning color_maintenance",
	"swimming":     "chlorine_exposure salt_water pool_swimming sun_exposure environmental_stress",
	"minimal":      "low_manipulation natural_styling air_drying gentle_care minimal_processing",
}

var goalTerms = map[string]string{
	"repair":   "damage_repair structural_rebuilding strength_restoration split_end_treatment breakage_prevention",
	"hydrate":  "moisture_retention hydration humectant conditioning quenching moisturization",
	"smooth":   "sleek_smooth frizz_control shine_enhancement glossiness manageability",
	"volume":   "volume_boost body_enhancement lift root_volumizing thickness fullness",
	"maintain": "maintenance protection preventative_care health_preservation optimal_condition",
}

// textBuilder collects weighted parts. Empty parts are skipped and repeats are
// joined with single spaces.
type textBuilder struct {
	parts []string
}

func (b *textBuilder) add(s string, times int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	for i := 0; i < times; i++ {
		b.parts = append(b.parts, s)
	}
}

func (b *textBuilder) String() string {
	return strings.ToLower(strings.Join(b.parts, " "))
}

// ProductText renders the weighted document a product contributes to the term space.
func ProductText(p *models.Product) string {
	var b textBuilder
	b.add(p.Name, 1)
	b.add(p.Brand, 1)
	b.add(p.Features.String(), 3)
	b.add(p.TargetHairTypes.String(), 2)
	b.add(p.Ingredients.String(), 1)
	b.add(p.TextureMatch.String(), 3)
	b.add(p.ScalpMatch.String(), 1)
	b.add(p.LifestyleMatch.String(), 2)
	b.add(p.GoalMatch.String(), 2)
	return b.String()
}

// ProfileText renders the weighted query text for a profile. Unknown lifestyle
// selections are passed through as-is; other unknown selections contribute nothing.
func ProfileText(p *models.UserProfile) string {
	var b textBuilder
	b.add(hairFeelTerms[p.HairFeel], 3)
	b.add(scalpTerms[p.ScalpToken], 2)
	b.add(behaviorTerms[p.HairBehavior], 3)
	for _, l := range p.Lifestyle {
		terms, ok := lifestyleTerms[l]
		if !ok {
			terms = l
		}
		b.add(terms, 2)
	}
	b.add(goalTerms[p.GoalToken], 4)
	return b.String()
}
