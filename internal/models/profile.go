package models

// Texture is the encoded hair thickness.
type Texture int

const (
	TextureFine Texture = iota + 1
	TextureMedium
	TextureCoarse
)

func (t Texture) String() string {
	switch t {
	case TextureFine:
		return "fine"
	case TextureMedium:
		return "medium"
	case TextureCoarse:
		return "coarse"
	default:
		return "unknown"
	}
}

// Goal is the encoded primary hair goal.
type Goal int

const (
	GoalRepair Goal = iota + 1
	GoalSmooth
	GoalVolume
	GoalHydrate
)

func (g Goal) String() string {
	switch g {
	case GoalRepair:
		return "repair"
	case GoalSmooth:
		return "smooth"
	case GoalVolume:
		return "volume"
	case GoalHydrate:
		return "hydrate"
	default:
		return "unknown"
	}
}

// Scalp is the encoded scalp condition.
type Scalp int

const (
	ScalpNormal Scalp = iota + 1
	ScalpOily
	ScalpDry
	ScalpSensitive
)

func (s Scalp) String() string {
	switch s {
	case ScalpNormal:
		return "normal"
	case ScalpOily:
		return "oily"
	case ScalpDry:
		return "dry"
	case ScalpSensitive:
		return "sensitive"
	default:
		return "unknown"
	}
}

// Concerns holds the boolean concern flags.
type Concerns struct {
	Damage   bool `json:"damage"`
	Frizz    bool `json:"frizz"`
	Volume   bool `json:"volume"`
	Dandruff bool `json:"dandruff"`
}

// UserProfile is the encoded, fully defaulted form of Answers.
type UserProfile struct {
	DamageLevel    int      `json:"damage_level"`
	Texture        Texture  `json:"hair_texture"`
	Goal           Goal     `json:"hair_goal"`
	Scalp          Scalp    `json:"scalp_condition"`
	Concerns       Concerns `json:"concerns"`
	CareLevel      float64  `json:"care_level"`
	HairConditions TagSet   `json:"hair_conditions"`

	// Normalized raw selections, rendered into text by the similarity scorer.
	HairFeel     string `json:"hair_feel,omitempty"`
	HairBehavior string `json:"hair_behavior,omitempty"`
	ScalpToken   string `json:"scalp_token,omitempty"`
	GoalToken    string `json:"goal_token,omitempty"`
	Lifestyle    TagSet `json:"lifestyle,omitempty"`
	Weather      string `json:"weather,omitempty"`

	FreeText string `json:"free_text,omitempty"`
}
