package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/hairmatch/internal/models"
)

// parseSpreadsheet reads products from the first sheet of a workbook. The first
// row is a header naming the columns; tag columns hold delimited tokens.
// A missing or blank id column numbers products by row.
func parseSpreadsheet(content []byte) ([]productRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyCatalog
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyCatalog
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		columns[models.NormalizeToken(h)] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("sheet %q has no name column", sheets[0])
	}

	records := make([]productRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell("name") == "" {
			continue
		}
		id := n + 1
		if raw := cell("id"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid id %q: %w", n+2, raw, err)
			}
			id = parsed
		}
		records = append(records, productRecord{
			ID:              id,
			Name:            cell("name"),
			Brand:           cell("brand"),
			Category:        cell("category"),
			Features:        models.ParseTagSet(cell("features")),
			TargetHairTypes: models.ParseTagSet(cell("target_hair_types")),
			TargetProfile:   models.ParseTagSet(cell("target_profile")),
			TargetConcerns:  models.ParseTagSet(cell("target_concerns")),
			Ingredients:     models.ParseTagSet(cell("ingredients")),
			TextureMatch:    models.ParseTagSet(cell("texture_match")),
			ScalpMatch:      models.ParseTagSet(cell("scalp_match")),
			LifestyleMatch:  models.ParseTagSet(cell("lifestyle_match")),
			GoalMatch:       models.ParseTagSet(cell("goal_match")),
		})
	}
	return records, nil
}
