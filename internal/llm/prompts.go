package llm

import (
	"fmt"
	"strings"

	"github.com/hyperjump/hairmatch/internal/models"
)

func productDescription(p *models.Product) string {
	return fmt.Sprintf(`Product: %s by %s
Features: %s
Target Profile: %s
Texture Match: %s
Scalp Match: %s
Lifestyle Match: %s
Goal Match: %s`,
		p.Name, p.Brand, p.Features, p.TargetHairTypes, p.TextureMatch,
		p.ScalpMatch, p.LifestyleMatch, p.GoalMatch)
}

func matchPrompt(profileText string, p *models.Product) string {
	return fmt.Sprintf(`Analyze how well this hair product matches the user's hair profile.

USER PROFILE: %s

PRODUCT:
%s

On a scale of 0 to 10, where 0 is no match and 10 is perfect match,
how well does this product suit the user's hair needs?

Return ONLY a single number between 0 and 10, no other text.`,
		profileText, productDescription(p))
}

func insightPrompt(text string, vocabulary []string) string {
	return fmt.Sprintf(`You analyze free-text descriptions of hair care habits.

TEXT: %q

For each of these signals decide whether the text clearly indicates it:
%s

Return ONLY a JSON object mapping every signal name to true or false, no other text.`,
		text, "- "+strings.Join(vocabulary, "\n- "))
}

func orUnknown(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

func explanationPrompt(profile *models.UserProfile, p *models.Product) string {
	lifestyle := "none"
	if len(profile.Lifestyle) > 0 {
		lifestyle = strings.Join(profile.Lifestyle, ", ")
	}
	return fmt.Sprintf(`As a hair care expert, analyze this product match and provide detailed recommendations.

USER CONTEXT:
- Hair Feel: %s
- Hair Texture: %s
- Damage Level: %d/10
- Scalp Condition: %s
- Hair Behavior: %s
- Lifestyle Factors: %s
- Main Goal: %s

PRODUCT DETAILS:
Product: %s by %s
Key Features: %s
Target Hair Types: %s
Key Ingredients: %s
Best for Scalp Types: %s
Lifestyle Compatibility: %s
Primary Goals: %s

Please provide TWO sections:

SECTION 1 - MATCH EXPLANATION:
Explain why this product is a good match for the user's specific hair concerns,
covering key ingredients, features, scalp condition and lifestyle.

SECTION 2 - HAIR CARE ROUTINE:
Create a weekly hair care routine using this product line (shampoo, conditioner, hair mask)
with frequency of use, application techniques and additional tips.

Format your response exactly as:
EXPLANATION: [your detailed match explanation here]
ROUTINE: [your complete hair care routine here]`,
		orUnknown(profile.HairFeel), profile.Texture, profile.DamageLevel,
		orUnknown(profile.ScalpToken), orUnknown(profile.HairBehavior), lifestyle,
		orUnknown(profile.GoalToken),
		p.Name, p.Brand, p.Features, p.TargetHairTypes, p.Ingredients,
		p.ScalpMatch, p.LifestyleMatch, p.GoalMatch)
}
