package convert

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Bundle file names. Consumers infer N from coords.bin size / 12 and
// cross-check every other file against it.
const (
	CoordsFile     = "coords.bin"
	ColorsFile     = "colors.bin"
	AttributesFile = "attributes.json"
)

// AttributeCodesFile returns the codes file name for an attribute.
func AttributeCodesFile(name string) string {
	return "attribute_" + name + ".bin"
}

// AttributeColorsFile returns the colors file name for an attribute.
func AttributeColorsFile(name string) string {
	return "colors_" + name + ".bin"
}

// WriteBundle persists every bundle artifact into dir. Each file is written
// whole; a failure surfaces immediately and files already written for this
// run are left in place.
func WriteBundle(dir string, b *Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWriteFailed, dir, err)
	}

	if err := writeFile(dir, CoordsFile, coordBytes(b.Coords)); err != nil {
		return err
	}

	for _, attr := range b.Attributes {
		if err := writeFile(dir, AttributeCodesFile(attr.Name), attr.Codes); err != nil {
			return err
		}
		if err := writeFile(dir, AttributeColorsFile(attr.Name), attr.Colors); err != nil {
			return err
		}
	}

	if err := writeFile(dir, ColorsFile, b.DefaultColors); err != nil {
		return err
	}

	if b.Metadata != nil {
		data, err := json.MarshalIndent(b.Metadata, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal attribute metadata: %w", err)
		}
		if err := writeFile(dir, AttributesFile, data); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(dir, name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, name, err)
	}
	return nil
}

// coordBytes serializes coordinates as little-endian float32, no header.
func coordBytes(coords []float32) []byte {
	out := make([]byte, 4*len(coords))
	for i, v := range coords {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
