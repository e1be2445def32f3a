package convert

import "fmt"

// attributeFallbacks is probed in order when no attribute columns are
// requested; the first column present becomes the sole default attribute.
var attributeFallbacks = []string{"celltype", "cell_type", "leiden"}

// Bundle is the in-memory artifact set produced by one conversion run.
type Bundle struct {
	// Coords holds N×3 positions, row-major.
	Coords []float32
	// NumPoints is N.
	NumPoints int
	// DefaultColors is the 3·N byte buffer written to colors.bin.
	DefaultColors []byte
	// Attributes are the resolved attributes in request order.
	Attributes []Attribute
	// Metadata is nil when no attribute resolved; no attributes.json is
	// written in that case.
	Metadata *Metadata
}

// Attribute holds one resolved categorical attribute.
type Attribute struct {
	Name   string
	Names  []string
	Codes  []uint8
	Colors []byte
}

// Metadata is the attributes.json record.
type Metadata struct {
	DefaultAttribute string                   `json:"default_attribute"`
	Attributes       map[string]AttributeMeta `json:"attributes"`
}

// AttributeMeta describes one attribute in the metadata record.
type AttributeMeta struct {
	Names []string `json:"names"`
}

// Assemble runs encoding and color mapping for the requested attribute
// columns and collects the bundle artifacts. The first requested column is
// the default attribute; with no requests, the fallback list is probed.
func Assemble(ds Dataset, coords []float32, requested []string) (*Bundle, error) {
	if len(coords)%3 != 0 {
		return nil, fmt.Errorf("coordinate buffer length %d is not a multiple of 3", len(coords))
	}
	n := len(coords) / 3

	if len(requested) == 0 {
		for _, fallback := range attributeFallbacks {
			if ds.HasColumn(fallback) {
				requested = []string{fallback}
				break
			}
		}
	}

	b := &Bundle{
		Coords:    coords,
		NumPoints: n,
	}

	for _, column := range requested {
		names, codes, err := EncodeCategorical(ds, column)
		if err != nil {
			return nil, err
		}
		if len(codes) != n {
			return nil, fmt.Errorf("column %q has %d values for %d points", column, len(codes), n)
		}

		b.Attributes = append(b.Attributes, Attribute{
			Name:   column,
			Names:  names,
			Codes:  codes,
			Colors: CodesToColors(codes),
		})
	}

	if len(b.Attributes) == 0 {
		b.DefaultColors = WhiteColors(n)
		return b, nil
	}

	b.DefaultColors = make([]byte, len(b.Attributes[0].Colors))
	copy(b.DefaultColors, b.Attributes[0].Colors)

	b.Metadata = &Metadata{
		DefaultAttribute: b.Attributes[0].Name,
		Attributes:       make(map[string]AttributeMeta, len(b.Attributes)),
	}
	for _, attr := range b.Attributes {
		b.Metadata.Attributes[attr.Name] = AttributeMeta{Names: attr.Names}
	}

	return b, nil
}
