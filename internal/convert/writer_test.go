package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteBundle_WriteFailed(t *testing.T) {
	// Out dir path collides with an existing file, so MkdirAll must fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "bundle")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	b := &Bundle{Coords: make([]float32, 3), NumPoints: 1, DefaultColors: WhiteColors(1)}
	if err := WriteBundle(blocker, b); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
}

func TestWriteBundle_FileNames(t *testing.T) {
	if got := AttributeCodesFile("celltype"); got != "attribute_celltype.bin" {
		t.Fatalf("unexpected codes file name: %s", got)
	}
	if got := AttributeColorsFile("celltype"); got != "colors_celltype.bin" {
		t.Fatalf("unexpected colors file name: %s", got)
	}
}

func TestCoordBytes_LittleEndian(t *testing.T) {
	got := coordBytes([]float32{1.0})
	// 1.0f == 0x3f800000 little-endian.
	want := []byte{0x00, 0x00, 0x80, 0x3f}
	if string(got) != string(want) {
		t.Fatalf("unexpected bytes: %v", got)
	}
}
