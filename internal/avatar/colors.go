// Package avatar produces what the client shows for a user's picture: a
// presigned image URL when the profile has an uploaded avatar, and otherwise
// a deterministic two-stop gradient with the user's initial.
package avatar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Color is a "#RRGGBB" hex string.
type Color string

// Gradient is an ordered pair of colors, drawn From top-left To bottom-right.
type Gradient struct {
	From Color
	To   Color
}

// palette is fixed; changing it changes every user's colors.
var palette = [...]Gradient{
	{From: "#FF6B6B", To: "#FFD93D"},
	{From: "#4D96FF", To: "#6BCB77"},
	{From: "#845EC2", To: "#FF6F91"},
	{From: "#00C9A7", To: "#4B4453"},
	{From: "#F9A826", To: "#D65DB1"},
	{From: "#2C73D2", To: "#00D2FC"},
}

// PaletteSize is the number of base gradients.
const PaletteSize = len(palette)

// ColorsFor maps a username to its gradient. The mapping is case-insensitive
// and stable across processes. An empty username gets the first gradient.
func ColorsFor(username string) Gradient {
	var hash int64
	for _, r := range strings.ToLower(username) {
		hash += int64(r)
	}

	index := abs(hash) % uint64(PaletteSize)
	variant := abs(hash/int64(PaletteSize)) % 2

	g := palette[index]
	if variant == 1 {
		g.From, g.To = g.To, g.From
	}
	return g
}

// abs returns |v| without overflowing on math.MinInt64.
func abs(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}

// Initial is the single-character label drawn on top of the gradient.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
