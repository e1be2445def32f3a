// Package render produces static PNG previews of point-cloud bundles using fogleman/gg.
package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/fogleman/gg"
)

// Config contains preview renderer configuration.
type Config struct {
	Size        int
	PointRadius float64
}

// PreviewRenderer renders a scatter preview of bundle coordinates.
type PreviewRenderer struct {
	config Config
}

// NewPreviewRenderer creates a new preview renderer.
func NewPreviewRenderer(cfg Config) *PreviewRenderer {
	if cfg.Size <= 0 {
		cfg.Size = 1024
	}
	if cfg.PointRadius <= 0 {
		cfg.PointRadius = 2.0
	}
	return &PreviewRenderer{config: cfg}
}

// RenderPreview draws the XY projection of the coordinate buffer, one dot
// per point colored by the RGB buffer, and returns an encoded PNG.
func (r *PreviewRenderer) RenderPreview(coords []float32, colors []byte) ([]byte, error) {
	if len(coords)%3 != 0 {
		return nil, fmt.Errorf("coordinate buffer length %d is not a multiple of 3", len(coords))
	}
	n := len(coords) / 3
	if len(colors) != 3*n {
		return nil, fmt.Errorf("color buffer has %d bytes for %d points", len(colors), n)
	}

	size := float64(r.config.Size)
	dc := gg.NewContext(r.config.Size, r.config.Size)

	// Dark background so uncolored (white) bundles stay visible.
	dc.SetRGB255(17, 17, 17)
	dc.Clear()

	if n == 0 {
		return encodePNG(dc)
	}

	minX, maxX := coords[0], coords[0]
	minY, maxY := coords[1], coords[1]
	for i := 1; i < n; i++ {
		x, y := coords[i*3], coords[i*3+1]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	spanX := float64(maxX - minX)
	spanY := float64(maxY - minY)
	span := spanX
	if spanY > span {
		span = spanY
	}
	if span == 0 {
		span = 1
	}

	// Uniform scale with a 5% margin; Y flipped into image space.
	margin := 0.05 * size
	scale := (size - 2*margin) / span
	offX := margin + (size-2*margin-spanX*scale)/2
	offY := margin + (size-2*margin-spanY*scale)/2

	for i := 0; i < n; i++ {
		px := offX + (float64(coords[i*3])-float64(minX))*scale
		py := size - (offY + (float64(coords[i*3+1])-float64(minY))*scale)

		dc.SetRGB255(int(colors[i*3]), int(colors[i*3+1]), int(colors[i*3+2]))
		dc.DrawCircle(px, py, r.config.PointRadius)
		dc.Fill()
	}

	return encodePNG(dc)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := encoder.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
