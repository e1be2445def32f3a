package convert

import (
	"fmt"
	"strings"

	"github.com/brandonlukas/lumap/internal/data/anndata"
)

// embeddingPriority is the probe order used when no embedding key is given.
// Consulted top to bottom; the primary matrix X is the last resort.
var embeddingPriority = []string{"X_umap", "X_tsne", "X_pca"}

// SelectEmbedding picks an embedding from the dataset and returns an N×3
// float32 coordinate buffer (row-major) plus the chosen source key.
//
// 2-column embeddings get a zero-filled third column; columns beyond the
// third are dropped.
func SelectEmbedding(ds Dataset, key string) ([]float32, string, error) {
	var (
		m      *anndata.Matrix
		chosen string
		err    error
	)

	if key != "" {
		if !ds.HasEmbedding(key) {
			return nil, "", fmt.Errorf("embedding %q not found in obsm: %w", key, ErrEmbeddingNotFound)
		}
		if m, err = ds.Embedding(key); err != nil {
			return nil, "", err
		}
		chosen = key
	} else {
		for _, cand := range embeddingPriority {
			if !ds.HasEmbedding(cand) {
				continue
			}
			if m, err = ds.Embedding(cand); err != nil {
				return nil, "", err
			}
			chosen = cand
			break
		}
		if m == nil {
			if !ds.HasX() {
				return nil, "", fmt.Errorf("no embedding found (tried %s and X): %w",
					strings.Join(embeddingPriority, "/"), ErrNoEmbeddingAvailable)
			}
			if m, err = ds.X(); err != nil {
				return nil, "", err
			}
			chosen = "X"
		}
	}

	if m.Cols < 2 {
		return nil, "", fmt.Errorf("embedding %q must have at least 2 columns (got shape [%d %d]): %w",
			chosen, m.Rows, m.Cols, ErrInvalidEmbeddingShape)
	}

	cols := m.Cols
	if cols > 3 {
		cols = 3
	}
	coords := make([]float32, m.Rows*3)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < cols; c++ {
			coords[r*3+c] = float32(m.Values[r*m.Cols+c])
		}
	}

	return coords, chosen, nil
}
