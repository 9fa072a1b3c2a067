// Package profile encodes questionnaire answers into a UserProfile.
package profile

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/models"
)

const (
	DefaultDamageLevel = 5
	MinDamageLevel     = 1
	MaxDamageLevel     = 10
)

var textureAliases = map[string]models.Texture{
	"fine":       models.TextureFine,
	"thin":       models.TextureFine,
	"medium":     models.TextureMedium,
	"normal":     models.TextureMedium,
	"wavy":       models.TextureMedium,
	"coarse":     models.TextureCoarse,
	"thick":      models.TextureCoarse,
	"very_thick": models.TextureCoarse,
	"curly":      models.TextureCoarse,
	"coily":      models.TextureCoarse,
}

var goalAliases = map[string]models.Goal{
	"repair":        models.GoalRepair,
	"strength":      models.GoalRepair,
	"strengthen":    models.GoalRepair,
	"damage_repair": models.GoalRepair,
	"smooth":        models.GoalSmooth,
	"shine":         models.GoalSmooth,
	"maintain":      models.GoalSmooth,
	"frizz_free":    models.GoalSmooth,
	"volume":        models.GoalVolume,
	"body":          models.GoalVolume,
	"bounce":        models.GoalVolume,
	"hydrate":       models.GoalHydrate,
	"hydration":     models.GoalHydrate,
	"moisture":      models.GoalHydrate,
}

var scalpAliases = map[string]models.Scalp{
	"normal":    models.ScalpNormal,
	"healthy":   models.ScalpNormal,
	"balanced":  models.ScalpNormal,
	"oily":      models.ScalpOily,
	"greasy":    models.ScalpOily,
	"dry":       models.ScalpDry,
	"dry_flaky": models.ScalpDry,
	"flaky":     models.ScalpDry,
	"dandruff":  models.ScalpDry,
	"sensitive": models.ScalpSensitive,
	"itchy":     models.ScalpSensitive,
}

// flakyScalp selections also raise the dandruff concern.
var flakyScalp = map[string]bool{"dry_flaky": true, "flaky": true, "dandruff": true}

const (
	concernDamage = iota
	concernFrizz
	concernVolume
	concernDandruff
)

var concernAliases = map[string]int{
	"damage":       concernDamage,
	"breakage":     concernDamage,
	"split_ends":   concernDamage,
	"frizz":        concernFrizz,
	"humidity":     concernFrizz,
	"volume":       concernVolume,
	"flat":         concernVolume,
	"limp":         concernVolume,
	"dandruff":     concernDandruff,
	"scalp_issues": concernDandruff,
	"flaky":        concernDandruff,
	"itchy":        concernDandruff,
}

// Treatment categories and their care-level weights. Heat styling plus coloring
// exceeds 0.5; chemical treatment alone does not.
const (
	treatmentHeat     = "heat"
	treatmentColor    = "color"
	treatmentChemical = "chemical"
)

var careWeights = map[string]float64{
	treatmentHeat:     0.3,
	treatmentColor:    0.3,
	treatmentChemical: 0.4,
}

var treatmentAliases = map[string]string{
	"heat_styling":        treatmentHeat,
	"heat":                treatmentHeat,
	"heat_tools":          treatmentHeat,
	"blow_drying":         treatmentHeat,
	"flat_iron":           treatmentHeat,
	"coloring":            treatmentColor,
	"colouring":           treatmentColor,
	"color":               treatmentColor,
	"dye":                 treatmentColor,
	"bleach":              treatmentColor,
	"bleaching":           treatmentColor,
	"highlights":          treatmentColor,
	"chemical":            treatmentChemical,
	"chemical_treatment":  treatmentChemical,
	"chemical_treatments": treatmentChemical,
	"perm":                treatmentChemical,
	"relaxer":             treatmentChemical,
	"keratin_treatment":   treatmentChemical,
}

// Encoder converts Answers into a UserProfile. It never fails and is safe for
// concurrent use.
type Encoder struct {
	logger *zap.Logger
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets a logger for reporting unrecognized selections at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// NewEncoder returns an Encoder.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode applies defaults and maps each answer onto its encoded feature.
// Identical answers always yield identical profiles.
func (e *Encoder) Encode(a models.Answers) models.UserProfile {
	p := models.UserProfile{
		DamageLevel:    encodeDamage(a.DamageLevel),
		Texture:        models.TextureMedium,
		Goal:           models.GoalSmooth,
		Scalp:          models.ScalpNormal,
		HairConditions: models.NewTagSet(a.HairConditions...),
		HairFeel:       models.NormalizeToken(a.HairFeel),
		HairBehavior:   models.NormalizeToken(a.HairBehavior),
		ScalpToken:     models.NormalizeToken(a.ScalpCondition),
		GoalToken:      models.NormalizeToken(a.HairGoal),
		Lifestyle:      models.NewTagSet(a.Treatments...),
		Weather:        models.NormalizeToken(a.Weather),
		FreeText:       strings.TrimSpace(a.RoutineText),
	}

	if tok := models.NormalizeToken(a.HairTexture); tok != "" {
		if t, ok := textureAliases[tok]; ok {
			p.Texture = t
		} else {
			e.unrecognized("hair_texture", tok)
		}
	}
	if p.GoalToken != "" {
		if g, ok := goalAliases[p.GoalToken]; ok {
			p.Goal = g
		} else {
			e.unrecognized("hair_goal", p.GoalToken)
		}
	}
	if p.ScalpToken != "" {
		if s, ok := scalpAliases[p.ScalpToken]; ok {
			p.Scalp = s
		} else {
			e.unrecognized("scalp_condition", p.ScalpToken)
		}
		if flakyScalp[p.ScalpToken] {
			p.Concerns.Dandruff = true
		}
	}

	for _, tok := range models.NewTagSet(a.TopConcerns...) {
		c, ok := concernAliases[tok]
		if !ok {
			e.unrecognized("top_concerns", tok)
			continue
		}
		switch c {
		case concernDamage:
			p.Concerns.Damage = true
		case concernFrizz:
			p.Concerns.Frizz = true
		case concernVolume:
			p.Concerns.Volume = true
		case concernDandruff:
			p.Concerns.Dandruff = true
		}
	}

	p.CareLevel = careLevel(p.Lifestyle)
	return p
}

func (e *Encoder) unrecognized(field, value string) {
	e.logger.Debug("unrecognized answer, using default",
		zap.String("field", field), zap.String("value", value))
}

func encodeDamage(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return DefaultDamageLevel
	}
	d := int(math.Round(*v))
	if d < MinDamageLevel {
		return MinDamageLevel
	}
	if d > MaxDamageLevel {
		return MaxDamageLevel
	}
	return d
}

// careLevel sums the weight of each distinct treatment category, clamped to [0,1].
func careLevel(treatments models.TagSet) float64 {
	seen := make(map[string]bool, len(careWeights))
	total := 0.0
	for _, tok := range treatments {
		category, ok := treatmentAliases[tok]
		if !ok || seen[category] {
			continue
		}
		seen[category] = true
		total += careWeights[category]
	}
	return math.Min(1, math.Max(0, total))
}
