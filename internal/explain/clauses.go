package explain

import (
	"fmt"
	"strings"

	"github.com/hyperjump/hairmatch/internal/insight"
	"github.com/hyperjump/hairmatch/internal/models"
	"github.com/hyperjump/hairmatch/internal/ranking"
	"github.com/hyperjump/hairmatch/internal/similarity"
)

// ClauseFunc renders the justification clause for one fired rule. An empty
// result contributes no clause.
type ClauseFunc func(profile *models.UserProfile, product *models.Product) string

func fixed(s string) ClauseFunc {
	return func(*models.UserProfile, *models.Product) string { return s }
}

// DefaultClauses returns the clause templates keyed by rule name.
func DefaultClauses() map[string]ClauseFunc {
	return map[string]ClauseFunc{
		ranking.RuleConditionOverlap: conditionClause,
		ranking.RulePerfectMatch:     fixed("Covers every hair condition you listed"),
		ranking.RuleHighDamage:       fixed("Intensive repair for highly damaged hair"),
		ranking.RuleLowDamage:        fixed("Gentle everyday care for healthy hair"),
		ranking.RuleTexture: func(p *models.UserProfile, _ *models.Product) string {
			return fmt.Sprintf("Suited to your %s hair texture", p.Texture)
		},
		ranking.RuleConcernDamage:   fixed("Helps prevent damage and breakage"),
		ranking.RuleConcernFrizz:    fixed("Keeps frizz under control"),
		ranking.RuleConcernVolume:   fixed("Lifts flat hair for more volume"),
		ranking.RuleConcernDandruff: fixed("Soothes scalp and dandruff concerns"),
		ranking.RuleGoal: func(p *models.UserProfile, _ *models.Product) string {
			return fmt.Sprintf("Built for your %s goal", p.Goal)
		},
		ranking.RuleCareLevel: fixed("Strengthens hair exposed to heat and chemical treatments"),

		similarity.RuleMatchExcellent:  fixed("Excellent match for your hair profile"),
		similarity.RuleMatchStrong:     fixed("Strong fit for your needs"),
		similarity.RuleMatchGood:       fixed("Good option for your hair type"),
		similarity.RuleFeelRepair:      fixed("Intensive repair for dry, brittle hair"),
		similarity.RuleFeelLightweight: fixed("Maintains healthy hair without weighing down"),
		similarity.RuleScalpOily:       fixed("Balances oily scalp while nourishing lengths"),
		similarity.RuleGoalAlignment: func(p *models.UserProfile, _ *models.Product) string {
			return fmt.Sprintf("Targets your %s goals effectively", goalWord(p))
		},

		insight.RuleName(insight.TagChemicalDamage):    fixed("Repairs damage from chemical treatments"),
		insight.RuleName(insight.TagHeatDamage):        fixed("Protects hair from heat styling damage"),
		insight.RuleName(insight.TagHumidityFrizz):     fixed("Tames frizz in humid weather"),
		insight.RuleName(insight.TagScalpIssues):       fixed("Cares for the scalp issues you described"),
		insight.RuleName(insight.TagNeglectIssues):     fixed("Replenishes hair that needs extra nourishment"),
		insight.RuleName(insight.TagRoutineComplexity): fixed("Fits into a multi-step care routine"),
	}
}

func conditionClause(p *models.UserProfile, product *models.Product) string {
	var matched []string
	for _, c := range p.HairConditions {
		if product.TargetHairTypes.Has(c) {
			matched = append(matched, strings.ReplaceAll(c, "_", " "))
		}
	}
	if len(matched) == 0 {
		return ""
	}
	return fmt.Sprintf("Formulated for %s hair", joinWords(matched))
}

func joinWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
	}
}

func goalWord(p *models.UserProfile) string {
	if p.GoalToken != "" {
		return strings.ReplaceAll(p.GoalToken, "_", " ")
	}
	return p.Goal.String()
}

func feelWord(p *models.UserProfile) string {
	switch {
	case p.HairFeel != "":
		return p.HairFeel
	case len(p.HairConditions) > 0:
		return p.HairConditions[0]
	default:
		return p.Texture.String()
	}
}

func scalpWord(p *models.UserProfile) string {
	if p.ScalpToken != "" {
		return p.ScalpToken
	}
	return p.Scalp.String()
}
