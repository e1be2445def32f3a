package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brandonlukas/lumap/internal/convert"
)

// Summary describes a bundle directory to the viewer. The point count is
// inferred from coords.bin and every other file is cross-checked against it.
type Summary struct {
	NumPoints        int                         `json:"num_points"`
	Colored          bool                        `json:"colored"`
	DefaultAttribute string                      `json:"default_attribute,omitempty"`
	Attributes       map[string]AttributeSummary `json:"attributes,omitempty"`
}

// AttributeSummary lists the ordered category names of one attribute.
type AttributeSummary struct {
	Names []string `json:"names"`
}

// InspectBundle reads a bundle directory's metadata and validates the layout
// invariants: coords.bin is 12 bytes per point, every color buffer is 3 bytes
// per point, and every code buffer is 1 byte per point.
func InspectBundle(dir string) (*Summary, error) {
	coordsSize, err := fileSize(dir, convert.CoordsFile)
	if err != nil {
		return nil, fmt.Errorf("bundle has no coordinate buffer: %w", err)
	}
	if coordsSize%12 != 0 {
		return nil, fmt.Errorf("coords.bin size %d is not a multiple of 12", coordsSize)
	}
	n := int(coordsSize / 12)

	if err := checkSize(dir, convert.ColorsFile, int64(3*n)); err != nil {
		return nil, err
	}

	summary := &Summary{NumPoints: n}

	metaData, err := os.ReadFile(filepath.Join(dir, convert.AttributesFile))
	if os.IsNotExist(err) {
		// Uncolored bundle: white points, no attributes.
		return summary, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attributes.json: %w", err)
	}

	var meta convert.Metadata
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse attributes.json: %w", err)
	}

	summary.Colored = true
	summary.DefaultAttribute = meta.DefaultAttribute
	summary.Attributes = make(map[string]AttributeSummary, len(meta.Attributes))
	for name, attr := range meta.Attributes {
		if err := checkSize(dir, convert.AttributeCodesFile(name), int64(n)); err != nil {
			return nil, err
		}
		if err := checkSize(dir, convert.AttributeColorsFile(name), int64(3*n)); err != nil {
			return nil, err
		}
		summary.Attributes[name] = AttributeSummary{Names: attr.Names}
	}

	return summary, nil
}

func fileSize(dir, name string) (int64, error) {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func checkSize(dir, name string, want int64) error {
	size, err := fileSize(dir, name)
	if err != nil {
		return fmt.Errorf("bundle is missing %s: %w", name, err)
	}
	if size != want {
		return fmt.Errorf("%s has %d bytes, expected %d", name, size, want)
	}
	return nil
}
