// Package convert turns a single-cell dataset into a point-cloud bundle:
// an N×3 coordinate buffer, per-attribute category codes and colors, and a
// metadata record, all with fixed byte layouts.
package convert

// Options controls one conversion run.
type Options struct {
	// EmbeddingKey picks the obsm embedding; empty means probe the
	// priority list and fall back to X.
	EmbeddingKey string
	// ColorColumn is the primary (default) attribute column.
	ColorColumn string
	// ExtraColumns are additional attribute columns, in order.
	ExtraColumns []string
	// OutDir receives the bundle files.
	OutDir string
}

// Result reports what a conversion run produced.
type Result struct {
	Bundle       *Bundle
	EmbeddingKey string
}

// Run executes the full pipeline: select an embedding, encode and color the
// requested attributes, and write the bundle. All validation happens in
// memory before the first file is written.
func Run(ds Dataset, opts Options) (*Result, error) {
	coords, chosen, err := SelectEmbedding(ds, opts.EmbeddingKey)
	if err != nil {
		return nil, err
	}

	var requested []string
	if opts.ColorColumn != "" {
		requested = append(requested, opts.ColorColumn)
	}
	requested = append(requested, opts.ExtraColumns...)

	bundle, err := Assemble(ds, coords, requested)
	if err != nil {
		return nil, err
	}

	if err := WriteBundle(opts.OutDir, bundle); err != nil {
		return nil, err
	}

	return &Result{Bundle: bundle, EmbeddingKey: chosen}, nil
}
