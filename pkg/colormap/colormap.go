// Package colormap provides the fixed categorical palette used for point coloring.
package colormap

import (
	"fmt"
	"image/color"
)

// Palette is an ordered, immutable table of category colors.
type Palette struct {
	colors []color.RGBA
}

// AtIndex returns the color for a category code (wraps around).
func (p Palette) AtIndex(i int) color.RGBA {
	return p.colors[i%len(p.colors)]
}

// Hex returns the color for a category code as a "#rrggbb" string.
func (p Palette) Hex(i int) string {
	c := p.AtIndex(i)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Len returns the number of distinct palette entries.
func (p Palette) Len() int {
	return len(p.colors)
}

// Categories is the bundle palette: 8 bright colors cycled per attribute code.
// The byte layout of every colors_*.bin file depends on these exact values,
// so they are never user-configurable.
var Categories = Palette{
	colors: []color.RGBA{
		{239, 83, 80, 255},   // red
		{255, 167, 38, 255},  // orange
		{255, 238, 88, 255},  // yellow
		{102, 187, 106, 255}, // green
		{66, 165, 245, 255},  // blue
		{171, 71, 188, 255},  // purple
		{0, 188, 212, 255},   // cyan
		{255, 202, 40, 255},  // gold
	},
}
