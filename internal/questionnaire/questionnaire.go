// Package questionnaire defines the quizzes served to the frontend. Each
// question's Key is the answers field its selection is submitted under.
package questionnaire

import "github.com/hyperjump/hairmatch/internal/ranking"

// Question input types.
const (
	TypeSingleChoice   = "single_choice"
	TypeMultipleChoice = "multiple_choice"
	TypeSlider         = "slider"
	TypeRank           = "rank"
	TypeFreeText       = "free_text"
)

// Option is one selectable answer.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is one quiz step.
type Question struct {
	ID      int      `json:"id"`
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Options []Option `json:"options,omitempty"`
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
	// MaxSelections limits multiple-choice and rank questions. Zero means no limit.
	MaxSelections int `json:"max_selections,omitempty"`
}

// Questionnaire is an ordered quiz for one scoring strategy.
type Questionnaire struct {
	Strategy  string     `json:"strategy"`
	Questions []Question `json:"questions"`
}

// Keys returns the answer key of every question in order.
func (q Questionnaire) Keys() []string {
	keys := make([]string, len(q.Questions))
	for i, question := range q.Questions {
		keys[i] = question.Key
	}
	return keys
}

// ForStrategy returns the quiz whose answers the named strategy scores best.
// Unknown strategies get the rules quiz.
func ForStrategy(strategy string) Questionnaire {
	if strategy == ranking.StrategySimilarity {
		return Similarity()
	}
	return Rules()
}

// Rules is the ten-question quiz for the rule scorer.
func Rules() Questionnaire {
	return Questionnaire{
		Strategy: ranking.StrategyRules,
		Questions: []Question{
			{
				ID: 1, Key: "hair_conditions", Title: "What best describes your hair condition?", Type: TypeMultipleChoice,
				Options: []Option{
					{"dry", "Dry"}, {"damaged", "Damaged"}, {"colored", "Color-treated"},
					{"split_ends", "Split ends"}, {"oily", "Oily"}, {"fine", "Fine or thin"},
					{"healthy", "Healthy"},
				},
			},
			{ID: 2, Key: "damage_level", Title: "How damaged is your hair?", Type: TypeSlider, Min: 1, Max: 10},
			{
				ID: 3, Key: "hair_texture", Title: "What is your natural hair texture?", Type: TypeSingleChoice,
				Options: []Option{{"fine", "Fine"}, {"medium", "Medium"}, {"coarse", "Coarse"}, {"curly", "Curly"}},
			},
			{
				ID: 4, Key: "top_concerns", Title: "What are your top 2 hair concerns?", Type: TypeRank, MaxSelections: 2,
				Options: []Option{
					{"damage", "Damage and breakage"}, {"frizz", "Frizz"},
					{"volume", "Lack of volume"}, {"dandruff", "Dandruff or flakes"},
				},
			},
			{
				ID: 5, Key: "treatments", Title: "How often do you style or treat your hair?", Type: TypeMultipleChoice,
				Options: []Option{
					{"heat_styling", "Heat styling"}, {"coloring", "Coloring or bleaching"},
					{"chemical_treatment", "Chemical treatments"}, {"none", "None of the above"},
				},
			},
			{
				ID: 6, Key: "hair_goal", Title: "What is your main hair goal?", Type: TypeSingleChoice,
				Options: []Option{
					{"repair", "Repair damage"}, {"smooth", "Smoothness and shine"},
					{"volume", "Volume and body"}, {"hydrate", "Deep hydration"},
				},
			},
			{
				ID: 7, Key: "scalp_condition", Title: "What is your scalp condition?", Type: TypeSingleChoice,
				Options: []Option{
					{"normal", "Normal"}, {"oily", "Oily"},
					{"dry_flaky", "Dry or flaky"}, {"sensitive", "Sensitive or itchy"},
				},
			},
			{
				ID: 8, Key: "weather", Title: "How does weather affect your hair?", Type: TypeSingleChoice,
				Options: []Option{
					{"humid", "Frizzes in humidity"}, {"dry", "Dries out in cold or dry air"},
					{"sun", "Fades or dries in the sun"}, {"none", "No noticeable effect"},
				},
			},
			{
				ID: 9, Key: "hair_volume", Title: "What is your hair volume preference?", Type: TypeSingleChoice,
				Options: []Option{{"thin", "Sleek and flat"}, {"medium", "Natural"}, {"thick", "Full and voluminous"}},
			},
			{ID: 10, Key: "routine_text", Title: "Describe your current hair routine.", Type: TypeFreeText},
		},
	}
}

// Similarity is the five-question quiz for the text-similarity scorer.
func Similarity() Questionnaire {
	return Questionnaire{
		Strategy: ranking.StrategySimilarity,
		Questions: []Question{
			{
				ID: 1, Key: "hair_feel", Title: "How does your hair usually feel?", Type: TypeSingleChoice,
				Options: []Option{
					{"soft_smooth", "Soft, smooth, and easy to manage"},
					{"slightly_rough", "Slightly rough, frizzy, or dull"},
					{"very_dry", "Very dry, brittle, or tangled"},
				},
			},
			{
				ID: 2, Key: "scalp_condition", Title: "What's your scalp condition?", Type: TypeSingleChoice,
				Options: []Option{
					{"normal", "Normal, balanced"}, {"oily", "Oily, gets greasy quickly"},
					{"dry_flaky", "Dry or flaky"}, {"sensitive", "Sensitive or itchy"},
				},
			},
			{
				ID: 3, Key: "hair_behavior", Title: "How does your hair behave after styling?", Type: TypeSingleChoice,
				Options: []Option{
					{"holds_style", "Holds style well"}, {"loses_shape", "Loses volume/shape quickly"},
					{"frizzy_humid", "Gets frizzy in humidity"}, {"tangled", "Tangles easily"},
				},
			},
			{
				ID: 4, Key: "treatments", Title: "Your hair lifestyle", Type: TypeMultipleChoice,
				Options: []Option{
					{"heat_styling", "Heat styling (blow-dry, iron)"}, {"coloring", "Color or chemical treatments"},
					{"swimming", "Swimming (pool/ocean)"}, {"minimal", "Minimal styling"},
				},
			},
			{
				ID: 5, Key: "hair_goal", Title: "What's your main hair goal?", Type: TypeSingleChoice,
				Options: []Option{
					{"repair", "Repair damage"}, {"hydrate", "Deep hydration"},
					{"smooth", "Smoothness & shine"}, {"volume", "Volume & body"},
					{"maintain", "Maintain health"},
				},
			},
		},
	}
}
