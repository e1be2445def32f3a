package convert

import (
	"errors"
	"testing"

	"github.com/brandonlukas/lumap/internal/data/anndata"
	"github.com/brandonlukas/lumap/pkg/colormap"
)

func TestCodesToColors_Deterministic(t *testing.T) {
	codes := []uint8{0, 7, 8, 13}
	colors := CodesToColors(codes)
	if len(colors) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(colors))
	}
	for i, code := range codes {
		want := colormap.Categories.AtIndex(int(code))
		if colors[i*3] != want.R || colors[i*3+1] != want.G || colors[i*3+2] != want.B {
			t.Fatalf("code %d: got %v want {%d %d %d}", code, colors[i*3:i*3+3], want.R, want.G, want.B)
		}
	}
}

func TestAssemble_DefaultIsCopy(t *testing.T) {
	ds := &fakeDataset{columns: map[string]*anndata.Column{
		"type": categorical([]string{"A", "B"}, 0, 1),
	}}

	b, err := Assemble(ds, make([]float32, 6), []string{"type"})
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	b.DefaultColors[0] = 7
	if b.Attributes[0].Colors[0] == 7 {
		t.Fatal("default colors must be a copy, not a shared slice")
	}
}

func TestAssemble_FallbackColumn(t *testing.T) {
	ds := &fakeDataset{columns: map[string]*anndata.Column{
		"leiden": categorical([]string{"0", "1"}, 1, 0),
	}}

	b, err := Assemble(ds, make([]float32, 6), nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(b.Attributes) != 1 || b.Attributes[0].Name != "leiden" {
		t.Fatalf("expected leiden fallback, got %+v", b.Attributes)
	}
	if b.Metadata == nil || b.Metadata.DefaultAttribute != "leiden" {
		t.Fatalf("unexpected metadata: %+v", b.Metadata)
	}
}

func TestAssemble_FallbackOrder(t *testing.T) {
	ds := &fakeDataset{columns: map[string]*anndata.Column{
		"leiden":   categorical([]string{"0"}, 0, 0),
		"celltype": categorical([]string{"A"}, 0, 0),
	}}

	b, err := Assemble(ds, make([]float32, 6), nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if b.Attributes[0].Name != "celltype" {
		t.Fatalf("celltype should win the fallback probe, got %s", b.Attributes[0].Name)
	}
}

func TestAssemble_NoAttributes(t *testing.T) {
	ds := &fakeDataset{}

	b, err := Assemble(ds, make([]float32, 9), nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if b.Metadata != nil {
		t.Fatal("metadata should be nil without attributes")
	}
	if len(b.DefaultColors) != 9 {
		t.Fatalf("expected 9 white bytes, got %d", len(b.DefaultColors))
	}
	for _, v := range b.DefaultColors {
		if v != 255 {
			t.Fatalf("expected white buffer, got %v", b.DefaultColors)
		}
	}
}

func TestAssemble_LengthMismatch(t *testing.T) {
	ds := &fakeDataset{columns: map[string]*anndata.Column{
		"type": categorical([]string{"A"}, 0, 0, 0),
	}}

	if _, err := Assemble(ds, make([]float32, 6), []string{"type"}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestAssemble_PropagatesEncodingError(t *testing.T) {
	ds := &fakeDataset{}

	_, err := Assemble(ds, make([]float32, 3), []string{"ghost"})
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}
