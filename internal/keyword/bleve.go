package keyword

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/hairmatch/internal/models"
)

// productDoc is the indexed form of a product. Tag underscores become spaces so
// "split_ends" is found by "split ends" and by "ends".
type productDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
}

func newProductDoc(p *models.Product) productDoc {
	groups := []models.TagSet{
		p.Features, p.TargetHairTypes, p.TargetConcerns, p.Ingredients,
		p.TextureMatch, p.ScalpMatch, p.LifestyleMatch, p.GoalMatch,
	}
	var tags []string
	for _, g := range groups {
		for _, tag := range g {
			tags = append(tags, strings.ReplaceAll(tag, "_", " "))
		}
	}
	return productDoc{
		ID:       strconv.Itoa(p.ID),
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Tags:     strings.Join(tags, " "),
	}
}

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

func newMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming.
	textFieldMapping.Analyzer = standard.Name
	for _, field := range []string{"name", "brand", "category", "tags"} {
		docMapping.AddFieldMappingsAt(field, textFieldMapping)
	}
	docMapping.AddFieldMappingsAt("id", bleve.NewKeywordFieldMapping())
	im.AddDocumentMapping("product", docMapping)
	im.DefaultType = "product"
	im.DefaultMapping = docMapping
	return im
}

// NewMemIndex creates an in-memory index.
func NewMemIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewBleveIndex creates or opens a Bleve index at path. An empty path creates
// an in-memory index. An existing index is opened and reused; re-indexing a
// product replaces its document.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if path == "" {
		return NewMemIndex()
	}
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index adds or replaces products in one batch.
func (b *BleveIndex) Index(ctx context.Context, products []models.Product) error {
	batch := b.index.NewBatch()
	for i := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := newProductDoc(&products[i])
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to index product %d: %w", products[i].ID, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to commit index batch: %w", err)
	}
	return nil
}

// Search returns up to limit products matching query. With a name boost > 1,
// name and tag matches are scored separately and summed; otherwise a single
// match over all fields is used.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	nameBoost := 1.0
	fuzzy := false
	fuzziness := 1
	if opts != nil {
		if opts.NameBoost > 0 {
			nameBoost = opts.NameBoost
		}
		fuzzy = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	if nameBoost <= 1.0 {
		hits, err := b.run(ctx, b.buildQuery(query, fuzzy, fuzziness, ""), limit)
		if err != nil {
			return nil, err
		}
		return toResults(hits, limit), nil
	}

	reqSize := limit * 2
	if reqSize < 50 {
		reqSize = 50
	}
	nameHits, err := b.run(ctx, b.buildQuery(query, fuzzy, fuzziness, "name"), reqSize)
	if err != nil {
		return nil, err
	}
	tagHits, err := b.run(ctx, b.buildQuery(query, fuzzy, fuzziness, "tags"), reqSize)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(nameHits)+len(tagHits))
	for id, s := range nameHits {
		scores[id] += s * nameBoost
	}
	for id, s := range tagHits {
		scores[id] += s
	}
	return toResults(scores, limit), nil
}

func (b *BleveIndex) run(ctx context.Context, q blevequery.Query, size int) (map[string]float64, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = size
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	hits := make(map[string]float64, len(results.Hits))
	for _, hit := range results.Hits {
		hits[hit.ID] = hit.Score
	}
	return hits, nil
}

// toResults orders hits by score descending, breaking ties by product id.
func toResults(scores map[string]float64, limit int) []Result {
	out := make([]Result, 0, len(scores))
	for id, score := range scores {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		out = append(out, Result{ID: n, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// tokenizeQuery splits query into lowercase terms. Underscores separate terms
// the same way they do in indexed tags.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(strings.ReplaceAll(query, "_", " ")))
}

// buildQuery creates a match query, or a disjunction of fuzzy queries per term
// when fuzzy is set. If field is empty, all fields are searched.
func (b *BleveIndex) buildQuery(queryStr string, fuzzy bool, fuzziness int, field string) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	if !fuzzy || len(terms) == 0 {
		mq := bleve.NewMatchQuery(strings.Join(terms, " "))
		if field != "" {
			mq.SetField(field)
		}
		return mq
	}

	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		if field != "" {
			fq.SetField(field)
		}
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Delete removes a product from the index.
func (b *BleveIndex) Delete(_ context.Context, id int) error {
	return b.index.Delete(strconv.Itoa(id))
}

// DocCount returns the number of indexed products.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
