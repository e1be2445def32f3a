package convert

import "github.com/brandonlukas/lumap/internal/data/anndata"

// Dataset is the read-only view of an input dataset consumed by the pipeline.
// *anndata.Store satisfies it; tests use in-memory fakes.
type Dataset interface {
	// HasEmbedding reports whether an obsm embedding exists under key.
	HasEmbedding(key string) bool
	// Embedding reads the obsm embedding for key.
	Embedding(key string) (*anndata.Matrix, error)
	// HasX reports whether the dataset has a primary matrix.
	HasX() bool
	// X reads the primary matrix.
	X() (*anndata.Matrix, error)
	// HasColumn reports whether an obs column exists under name.
	HasColumn(name string) bool
	// Column reads one obs column.
	Column(name string) (*anndata.Column, error)
}
