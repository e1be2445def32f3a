package convert

import "github.com/brandonlukas/lumap/pkg/colormap"

// CodesToColors maps category codes to an RGB byte buffer, 3 bytes per
// point, cycling the fixed palette.
func CodesToColors(codes []uint8) []byte {
	out := make([]byte, 3*len(codes))
	for i, code := range codes {
		c := colormap.Categories.AtIndex(int(code))
		out[i*3] = c.R
		out[i*3+1] = c.G
		out[i*3+2] = c.B
	}
	return out
}

// WhiteColors returns a uniform white RGB buffer for n points.
func WhiteColors(n int) []byte {
	out := make([]byte, 3*n)
	for i := range out {
		out[i] = 255
	}
	return out
}
