package colormap

import (
	"image/color"
	"testing"
)

func TestCategoriesAtIndexWraps(t *testing.T) {
	t.Parallel()

	first := Categories.AtIndex(0)
	if first != (color.RGBA{R: 239, G: 83, B: 80, A: 255}) {
		t.Fatalf("unexpected Categories.AtIndex(0): %#v", first)
	}

	if got, want := Categories.AtIndex(8), Categories.AtIndex(0); got != want {
		t.Fatalf("index 8 should wrap to index 0: got %#v want %#v", got, want)
	}
	if got, want := Categories.AtIndex(13), Categories.AtIndex(5); got != want {
		t.Fatalf("index 13 should wrap to index 5: got %#v want %#v", got, want)
	}
}

func TestCategoriesHex(t *testing.T) {
	t.Parallel()

	if got := Categories.Hex(0); got != "#ef5350" {
		t.Fatalf("unexpected hex for index 0: %s", got)
	}
	if got := Categories.Hex(6); got != "#00bcd4" {
		t.Fatalf("unexpected hex for index 6: %s", got)
	}
}

func TestCategoriesLen(t *testing.T) {
	t.Parallel()

	if Categories.Len() != 8 {
		t.Fatalf("expected 8 palette entries, got %d", Categories.Len())
	}
}
