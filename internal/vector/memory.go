package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Result is a single similarity hit keyed by product ID.
type Result struct {
	ID    int
	Score float64 // Cosine similarity, 0-1 for normalized vectors
}

// MemoryIndex is an in-memory vector index using brute-force inner product search.
// Insertion order is preserved.
type MemoryIndex struct {
	dimensions int
	ids        []int
	vectors    [][]float64
	mu         sync.RWMutex
}

// NewMemoryIndex creates an in-memory vector index with the given dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions < 0 {
		return nil, fmt.Errorf("dimensions must not be negative")
	}
	return &MemoryIndex{
		dimensions: dimensions,
		ids:        make([]int, 0),
		vectors:    make([][]float64, 0),
	}, nil
}

// Add appends vectors with the given IDs.
func (m *MemoryIndex) Add(ctx context.Context, ids []int, vectors [][]float64) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		if len(vectors[i]) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), m.dimensions)
		}
		vec := make([]float64, m.dimensions)
		copy(vec, vectors[i])
		m.ids = append(m.ids, id)
		m.vectors = append(m.vectors, vec)
	}
	return nil
}

// Scores returns the similarity of query to every stored vector, in insertion order.
func (m *MemoryIndex) Scores(query []float64) ([]float64, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]float64, len(m.vectors))
	for i, vec := range m.vectors {
		out[i] = CosineSimilarity(query, vec)
	}
	return out, nil
}

// Search returns the top-k vectors by similarity. Ties keep insertion order.
func (m *MemoryIndex) Search(ctx context.Context, query []float64, k int) ([]*Result, error) {
	scores, err := m.Scores(query)
	if err != nil {
		return nil, err
	}
	if k <= 0 || len(scores) == 0 {
		return nil, nil
	}
	m.mu.RLock()
	results := make([]*Result, len(scores))
	for i, s := range scores {
		results[i] = &Result{ID: m.ids[i], Score: s}
	}
	m.mu.RUnlock()
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// IDs returns the stored IDs in insertion order.
func (m *MemoryIndex) IDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.ids))
	copy(out, m.ids)
	return out
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}
