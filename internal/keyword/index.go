// Package keyword provides full-text search over the product catalog.
package keyword

import (
	"context"

	"github.com/hyperjump/hairmatch/internal/models"
)

// SearchOptions optional parameters for product search. Nil means use defaults.
type SearchOptions struct {
	// NameBoost multiplies the score contribution from matches in the product name.
	// Values > 1 make name matches rank above tag matches. Use 1.0 for no boost.
	NameBoost float64
	// FuzzyEnabled enables fuzzy matching for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum Levenshtein edit distance for fuzzy matching (1 or 2).
	// Default is 1 when FuzzyEnabled is true.
	Fuzziness int
}

// Index defines product search operations.
type Index interface {
	Index(ctx context.Context, products []models.Product) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]Result, error)
	Delete(ctx context.Context, id int) error
	DocCount() (uint64, error)
	Close() error
}

// Result is a single search hit.
type Result struct {
	ID    int
	Score float64
}
