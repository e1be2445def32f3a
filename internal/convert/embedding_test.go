package convert

import (
	"errors"
	"testing"

	"github.com/brandonlukas/lumap/internal/data/anndata"
)

func TestSelectEmbedding_PadsThirdColumn(t *testing.T) {
	ds := &fakeDataset{embeddings: map[string]*anndata.Matrix{
		"X_umap": matrix(2, 2, 1, 2, 3, 4),
	}}

	coords, chosen, err := SelectEmbedding(ds, "")
	if err != nil {
		t.Fatalf("SelectEmbedding error: %v", err)
	}
	if chosen != "X_umap" {
		t.Fatalf("unexpected key: %s", chosen)
	}
	want := []float32{1, 2, 0, 3, 4, 0}
	for i, v := range want {
		if coords[i] != v {
			t.Fatalf("coord %d: got %v want %v", i, coords[i], v)
		}
	}
}

func TestSelectEmbedding_TruncatesExtraColumns(t *testing.T) {
	ds := &fakeDataset{embeddings: map[string]*anndata.Matrix{
		"X_pca": matrix(2, 5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	}}

	coords, _, err := SelectEmbedding(ds, "X_pca")
	if err != nil {
		t.Fatalf("SelectEmbedding error: %v", err)
	}
	want := []float32{1, 2, 3, 6, 7, 8}
	for i, v := range want {
		if coords[i] != v {
			t.Fatalf("coord %d: got %v want %v", i, coords[i], v)
		}
	}
}

func TestSelectEmbedding_PriorityOrder(t *testing.T) {
	ds := &fakeDataset{embeddings: map[string]*anndata.Matrix{
		"X_tsne": matrix(1, 2, 1, 1),
		"X_pca":  matrix(1, 2, 2, 2),
	}}

	_, chosen, err := SelectEmbedding(ds, "")
	if err != nil {
		t.Fatalf("SelectEmbedding error: %v", err)
	}
	if chosen != "X_tsne" {
		t.Fatalf("expected X_tsne before X_pca, got %s", chosen)
	}
}

func TestSelectEmbedding_FallsBackToX(t *testing.T) {
	ds := &fakeDataset{x: matrix(1, 3, 1, 2, 3)}

	coords, chosen, err := SelectEmbedding(ds, "")
	if err != nil {
		t.Fatalf("SelectEmbedding error: %v", err)
	}
	if chosen != "X" {
		t.Fatalf("expected X fallback, got %s", chosen)
	}
	if coords[0] != 1 || coords[1] != 2 || coords[2] != 3 {
		t.Fatalf("unexpected coords: %v", coords)
	}
}

func TestSelectEmbedding_ExplicitKeyMissing(t *testing.T) {
	ds := &fakeDataset{embeddings: map[string]*anndata.Matrix{
		"X_umap": matrix(1, 2, 0, 0),
	}}

	_, _, err := SelectEmbedding(ds, "X_custom")
	if !errors.Is(err, ErrEmbeddingNotFound) {
		t.Fatalf("expected ErrEmbeddingNotFound, got %v", err)
	}
}

func TestSelectEmbedding_NothingAvailable(t *testing.T) {
	ds := &fakeDataset{}

	_, _, err := SelectEmbedding(ds, "")
	if !errors.Is(err, ErrNoEmbeddingAvailable) {
		t.Fatalf("expected ErrNoEmbeddingAvailable, got %v", err)
	}
}

func TestSelectEmbedding_TooFewColumns(t *testing.T) {
	ds := &fakeDataset{embeddings: map[string]*anndata.Matrix{
		"X_umap": matrix(3, 1, 1, 2, 3),
	}}

	_, _, err := SelectEmbedding(ds, "X_umap")
	if !errors.Is(err, ErrInvalidEmbeddingShape) {
		t.Fatalf("expected ErrInvalidEmbeddingShape, got %v", err)
	}
}
