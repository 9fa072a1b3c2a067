package catalog

import "github.com/hyperjump/hairmatch/internal/models"

// defaultProducts is the built-in catalog. It is used when no catalog path is
// configured and whenever a configured source fails to load.
var defaultProducts = []models.Product{
	{
		ID:              1,
		Name:            "Ultimate Repair",
		Brand:           "Gliss",
		Category:        "treatment",
		Features:        models.ParseTagSet("resistance reconstruction repair strengthening"),
		TargetHairTypes: models.ParseTagSet("damaged colored dry bleached brittle weak breakage split_ends coarse"),
		TargetConcerns:  models.ParseTagSet("damage breakage"),
		Ingredients:     models.ParseTagSet("black_pearl liquid_keratin"),
		TextureMatch:    models.ParseTagSet("dry rough brittle"),
		ScalpMatch:      models.ParseTagSet("normal dry"),
		LifestyleMatch:  models.ParseTagSet("heat_styling coloring chemical_treatment"),
		GoalMatch:       models.ParseTagSet("repair strengthen restore"),
	},
	{
		ID:              2,
		Name:            "Total Repair",
		Brand:           "Gliss",
		Category:        "conditioner",
		Features:        models.ParseTagSet("moisturizing suppleness shine hydration hydrating"),
		TargetHairTypes: models.ParseTagSet("dry damaged colored bleached dull"),
		TargetConcerns:  models.ParseTagSet("damage dullness"),
		Ingredients:     models.ParseTagSet("hydrolyzed_keratin floral_nectar"),
		TextureMatch:    models.ParseTagSet("dry rough dull"),
		ScalpMatch:      models.ParseTagSet("normal dry"),
		LifestyleMatch:  models.ParseTagSet("coloring chemical_treatment"),
		GoalMatch:       models.ParseTagSet("hydrate smooth shine"),
	},
	{
		ID:              3,
		Name:            "Oil Nutritive",
		Brand:           "Gliss",
		Category:        "oil",
		Features:        models.ParseTagSet("nourishing smoothness shine anti_split_ends smoothing anti_frizz"),
		TargetHairTypes: models.ParseTagSet("straw damaged brittle dull split_ends breakage dry coarse"),
		TargetConcerns:  models.ParseTagSet("frizz breakage"),
		Ingredients:     models.ParseTagSet("omega_9 marula_oil"),
		TextureMatch:    models.ParseTagSet("very_dry rough brittle tangled"),
		ScalpMatch:      models.ParseTagSet("dry normal"),
		LifestyleMatch:  models.ParseTagSet("heat_styling"),
		GoalMatch:       models.ParseTagSet("nourish smooth shine protect"),
	},
	{
		ID:              4,
		Name:            "Aqua Revive",
		Brand:           "Gliss",
		Category:        "shampoo",
		Features:        models.ParseTagSet("lightweight hydration healthy no_weighing hydrating"),
		TargetHairTypes: models.ParseTagSet("normal slightly_dry healthy fine"),
		TargetConcerns:  models.ParseTagSet("dullness"),
		Ingredients:     models.ParseTagSet("hyaluron_complex marine_algae"),
		TextureMatch:    models.ParseTagSet("soft smooth slightly_dry"),
		ScalpMatch:      models.ParseTagSet("normal oily"),
		LifestyleMatch:  models.ParseTagSet("minimal_styling frequent_washing"),
		GoalMatch:       models.ParseTagSet("maintain hydrate lightweight"),
	},
	{
		ID:              5,
		Name:            "Supreme Length",
		Brand:           "Gliss",
		Category:        "shampoo",
		Features:        models.ParseTagSet("instant_fluidity root_control length_care scalp_care"),
		TargetHairTypes: models.ParseTagSet("oily_roots dry_ends combination oily mixed"),
		TargetConcerns:  models.ParseTagSet("scalp oily_roots"),
		Ingredients:     models.ParseTagSet("biotin_complex peony_flower"),
		TextureMatch:    models.ParseTagSet("soft combination"),
		ScalpMatch:      models.ParseTagSet("oily combination"),
		LifestyleMatch:  models.ParseTagSet("frequent_washing"),
		GoalMatch:       models.ParseTagSet("balance control length_care"),
	},
	{
		ID:              6,
		Name:            "Full Hair Wonder",
		Brand:           "Gliss",
		Category:        "shampoo",
		Features:        models.ParseTagSet("volumizing thickening lightweight strengthening"),
		TargetHairTypes: models.ParseTagSet("fine thin flat healthy normal"),
		TargetConcerns:  models.ParseTagSet("volume flat"),
		Ingredients:     models.ParseTagSet("caffeine_complex hyaluron"),
		TextureMatch:    models.ParseTagSet("soft fine limp"),
		ScalpMatch:      models.ParseTagSet("normal oily"),
		LifestyleMatch:  models.ParseTagSet("minimal_styling frequent_washing"),
		GoalMatch:       models.ParseTagSet("volume lift body"),
	},
	{
		ID:              7,
		Name:            "Split Hair Miracle",
		Brand:           "Gliss",
		Category:        "mask",
		Features:        models.ParseTagSet("repair sealing anti_split_ends strengthening"),
		TargetHairTypes: models.ParseTagSet("damaged split_ends brittle dry colored"),
		TargetConcerns:  models.ParseTagSet("damage breakage split_ends"),
		Ingredients:     models.ParseTagSet("bond_sealing_complex almond_oil"),
		TextureMatch:    models.ParseTagSet("dry brittle rough"),
		ScalpMatch:      models.ParseTagSet("normal"),
		LifestyleMatch:  models.ParseTagSet("heat_styling coloring"),
		GoalMatch:       models.ParseTagSet("repair protect length_care"),
	},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultProducts)
	if err != nil {
		panic("catalog: invalid built-in catalog: " + err.Error())
	}
	return c
}
