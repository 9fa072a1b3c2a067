package vector

import (
	"context"
	"testing"
)

func TestMemoryIndex_AddSearch(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	vecs := [][]float64{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	ids := []int{10, 20, 30}
	if err := idx.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 {
		t.Errorf("Size=%d", idx.Size())
	}

	results, err := idx.Search(ctx, []float64{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != 10 {
		t.Errorf("top result should be 10, got %d", results[0].ID)
	}
}

func TestMemoryIndex_ScoresKeepOrder(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(context.Background(), []int{1, 2}, [][]float64{{0, 1}, {1, 0}})
	scores, err := idx.Scores([]float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if scores[0] != 0 || scores[1] != 1 {
		t.Errorf("got %v", scores)
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	if err := idx.Add(context.Background(), []int{1}, [][]float64{{1, 0, 0}}); err == nil {
		t.Error("expected dimension error on add")
	}
	if err := idx.Add(context.Background(), []int{1, 2}, [][]float64{{1, 0}}); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := idx.Scores([]float64{1}); err == nil {
		t.Error("expected dimension error on query")
	}
	if _, err := NewMemoryIndex(-1); err == nil {
		t.Error("expected error for negative dimensions")
	}
}
