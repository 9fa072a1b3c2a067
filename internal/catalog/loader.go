package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/hairmatch/internal/models"
)

// productRecord is the on-disk shape of a product. TargetProfile is an accepted
// alias for TargetHairTypes.
type productRecord struct {
	ID              int           `json:"id" yaml:"id"`
	Name            string        `json:"name" yaml:"name"`
	Brand           string        `json:"brand" yaml:"brand"`
	Category        string        `json:"category" yaml:"category"`
	Features        models.TagSet `json:"features" yaml:"features"`
	TargetHairTypes models.TagSet `json:"target_hair_types" yaml:"target_hair_types"`
	TargetProfile   models.TagSet `json:"target_profile" yaml:"target_profile"`
	TargetConcerns  models.TagSet `json:"target_concerns" yaml:"target_concerns"`
	Ingredients     models.TagSet `json:"ingredients" yaml:"ingredients"`
	TextureMatch    models.TagSet `json:"texture_match" yaml:"texture_match"`
	ScalpMatch      models.TagSet `json:"scalp_match" yaml:"scalp_match"`
	LifestyleMatch  models.TagSet `json:"lifestyle_match" yaml:"lifestyle_match"`
	GoalMatch       models.TagSet `json:"goal_match" yaml:"goal_match"`
}

func (r productRecord) toProduct() models.Product {
	hairTypes := r.TargetHairTypes
	if len(r.TargetProfile) > 0 {
		hairTypes = append(append(models.TagSet{}, hairTypes...), r.TargetProfile...)
	}
	return models.Product{
		ID:              r.ID,
		Name:            strings.TrimSpace(r.Name),
		Brand:           strings.TrimSpace(r.Brand),
		Category:        strings.TrimSpace(r.Category),
		Features:        r.Features,
		TargetHairTypes: hairTypes,
		TargetConcerns:  r.TargetConcerns,
		Ingredients:     r.Ingredients,
		TextureMatch:    r.TextureMatch,
		ScalpMatch:      r.ScalpMatch,
		LifestyleMatch:  r.LifestyleMatch,
		GoalMatch:       r.GoalMatch,
	}
}

// catalogFile is the wrapped form: {"products": [...]}.
type catalogFile struct {
	Products []productRecord `json:"products" yaml:"products"`
}

// Load returns the catalog at path. It never fails: an empty path yields the
// built-in catalog, and any load or validation error is logged and also yields
// the built-in catalog.
func Load(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	c, err := LoadFile(path)
	if err != nil {
		logger.Warn("catalog load failed, using built-in catalog",
			zap.String("path", path), zap.Error(err))
		return Default()
	}
	logger.Info("catalog loaded", zap.String("path", path), zap.Int("products", c.Len()))
	return c
}

// LoadFile reads a catalog from a .xlsx, .yaml/.yml, or .json file.
func LoadFile(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var records []productRecord
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		records, err = parseSpreadsheet(content)
	case ".yaml", ".yml":
		records, err = parseYAML(content)
	case ".json":
		records, err = parseJSON(content)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]models.Product, len(records))
	for i, r := range records {
		products[i] = r.toProduct()
	}
	return New(products)
}

func parseYAML(content []byte) ([]productRecord, error) {
	var wrapped catalogFile
	if err := yaml.Unmarshal(content, &wrapped); err == nil && len(wrapped.Products) > 0 {
		return wrapped.Products, nil
	}
	var list []productRecord
	if err := yaml.Unmarshal(content, &list); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return list, nil
}

func parseJSON(content []byte) ([]productRecord, error) {
	trimmed := strings.TrimSpace(string(content))
	if strings.HasPrefix(trimmed, "[") {
		var list []productRecord
		if err := json.Unmarshal(content, &list); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return list, nil
	}
	var wrapped catalogFile
	if err := json.Unmarshal(content, &wrapped); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return wrapped.Products, nil
}
