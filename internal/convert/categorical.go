package convert

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// maxCategories is the hard category bound; codes are stored as single bytes.
const maxCategories = 255

// EncodeCategorical extracts an ordered category list and per-point byte
// codes from one obs column.
//
// Categorical-typed columns keep their stored category order. Plain numeric
// columns derive categories from the distinct observed values in ascending
// order, so the code assignment (and therefore the palette assignment) is
// deterministic.
func EncodeCategorical(ds Dataset, column string) ([]string, []uint8, error) {
	if !ds.HasColumn(column) {
		return nil, nil, fmt.Errorf("column %q not found in obs: %w", column, ErrColumnNotFound)
	}

	col, err := ds.Column(column)
	if err != nil {
		return nil, nil, err
	}

	if col.Categorical {
		return encodeStored(column, col.Categories, col.Codes)
	}
	return deriveFromValues(column, col.Values)
}

func encodeStored(column string, names []string, codes []int32) ([]string, []uint8, error) {
	if len(names) > maxCategories {
		return nil, nil, fmt.Errorf("column %q has %d categories; limit to %d: %w",
			column, len(names), maxCategories, ErrTooManyCategories)
	}

	out := make([]uint8, len(codes))
	for i, c := range codes {
		if c < 0 {
			return nil, nil, fmt.Errorf("column %q has missing values; fill or drop NA first: %w",
				column, ErrMissingCategoricalValues)
		}
		if int(c) >= len(names) {
			return nil, nil, fmt.Errorf("column %q has code %d out of range (%d categories)", column, c, len(names))
		}
		out[i] = uint8(c)
	}

	return names, out, nil
}

func deriveFromValues(column string, values []float64) ([]string, []uint8, error) {
	distinct := make([]float64, 0)
	seen := make(map[float64]struct{})
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, nil, fmt.Errorf("column %q has missing values; fill or drop NA first: %w",
				column, ErrMissingCategoricalValues)
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Float64s(distinct)

	if len(distinct) > maxCategories {
		return nil, nil, fmt.Errorf("column %q has %d categories; limit to %d: %w",
			column, len(distinct), maxCategories, ErrTooManyCategories)
	}

	names := make([]string, len(distinct))
	index := make(map[float64]uint8, len(distinct))
	for i, v := range distinct {
		names[i] = strconv.FormatFloat(v, 'g', -1, 64)
		index[v] = uint8(i)
	}

	codes := make([]uint8, len(values))
	for i, v := range values {
		codes[i] = index[v]
	}

	return names, codes, nil
}
