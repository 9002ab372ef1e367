// Package palette turns raw HTML and CSS text into a small set of branding
// colors: a frequency-ranked primary palette, a button palette, and one
// recommended contrasting accent.
package palette

import (
	"regexp"
	"sort"
	"strings"
)

// Color is a hex color token. The canonical form is '#' followed by six
// lowercase hex digits; every Color returned by this package is canonical.
type Color string

const (
	// White and Black are excluded from ranking as presentation noise.
	White Color = "#ffffff"
	Black Color = "#000000"

	// DefaultTopColors is the primary palette size when the caller passes
	// a non-positive n to Rank.
	DefaultTopColors = 5
)

// hexToken matches '#' plus three or six hex digits on a word boundary, so
// '#abcd' and '#12345' are rejected rather than partially matched.
var hexToken = regexp.MustCompile(`#(?:[0-9a-fA-F]{3}){1,2}\b`)

// Canonicalize lowercases a hex token and expands the three-digit shorthand
// by doubling each digit, e.g. "#ABC" -> "#aabbcc". Tokens that are already
// six digits are returned lowercased; anything else is returned as-is.
func Canonicalize(s string) Color {
	s = strings.ToLower(s)
	if len(s) == 4 && s[0] == '#' {
		b := []byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]}
		return Color(b)
	}
	return Color(s)
}

// Extract scans a text blob for hex color tokens and returns them in order
// of appearance, canonicalized. Malformed or empty input yields an empty
// slice, never an error.
func Extract(text string) []Color {
	matches := hexToken.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Color, 0, len(matches))
	for _, m := range matches {
		out = append(out, Canonicalize(m))
	}
	return out
}

// ExtractAll runs Extract over several text blobs and concatenates the
// results, preserving per-blob order.
func ExtractAll(texts []string) []Color {
	var out []Color
	for _, t := range texts {
		out = append(out, Extract(t)...)
	}
	return out
}

// Rank reduces an unordered sequence of colors to the top n distinct colors
// by occurrence count, most frequent first. Pure white and pure black are
// removed before counting. Ties break by first appearance, so the result is
// deterministic for a given input order. An input that is empty after
// filtering yields an empty slice.
func Rank(colors []Color, n int) []Color {
	if n <= 0 {
		n = DefaultTopColors
	}
	counts := make(map[Color]int)
	var order []Color
	for _, c := range colors {
		cc := Canonicalize(string(c))
		if cc == White || cc == Black {
			continue
		}
		if counts[cc] == 0 {
			order = append(order, cc)
		}
		counts[cc]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
