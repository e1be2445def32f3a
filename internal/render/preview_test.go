package render

import (
	"bytes"
	"image/png"
	"testing"
)

func TestRenderPreview_SinglePoint(t *testing.T) {
	r := NewPreviewRenderer(Config{Size: 64, PointRadius: 4})

	data, err := r.RenderPreview([]float32{0, 0, 0}, []byte{239, 83, 80})
	if err != nil {
		t.Fatalf("RenderPreview error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("unexpected image size: %v", img.Bounds())
	}

	// The lone point sits in the canvas center and should be the palette red.
	cr, _, _, _ := img.At(32, 32).RGBA()
	if cr>>8 < 200 {
		t.Fatalf("expected red center pixel, got R=%d", cr>>8)
	}
}

func TestRenderPreview_EmptyBundle(t *testing.T) {
	r := NewPreviewRenderer(Config{Size: 16})

	data, err := r.RenderPreview(nil, nil)
	if err != nil {
		t.Fatalf("RenderPreview error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
}

func TestRenderPreview_BufferMismatch(t *testing.T) {
	r := NewPreviewRenderer(Config{Size: 16})

	if _, err := r.RenderPreview([]float32{0, 0, 0}, []byte{1, 2}); err == nil {
		t.Fatal("expected color buffer mismatch error")
	}
	if _, err := r.RenderPreview([]float32{0, 0}, nil); err == nil {
		t.Fatal("expected coordinate buffer error")
	}
}
