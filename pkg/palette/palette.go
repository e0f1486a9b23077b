// Package palette holds the fixed color set assigned to users and
// polls at creation time. A color is picked once and never recomputed.
package palette

import "math/rand"

var colors = []string{
	"#e54d42",
	"#f37b1d",
	"#fbbd08",
	"#8dc63f",
	"#39b54a",
	"#1cbbb4",
	"#0081ff",
	"#6739b6",
	"#9c26b0",
	"#e03997",
	"#a5673f",
	"#8799a3",
}

// Random returns one color from the palette.
func Random() string {
	return colors[rand.Intn(len(colors))]
}

// Contains reports whether c belongs to the palette.
func Contains(c string) bool {
	for _, v := range colors {
		if v == c {
			return true
		}
	}
	return false
}

// All returns a copy of the palette, for form metadata.
func All() []string {
	out := make([]string, len(colors))
	copy(out, colors)
	return out
}
