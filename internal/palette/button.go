package palette

import "regexp"

// MaxButtonColors caps the button palette size.
const MaxButtonColors = 4

// buttonBlock matches a CSS rule whose selector is the literal tag name
// "button", capturing the declaration body up to the closing brace.
var buttonBlock = regexp.MustCompile(`(?i)button\s*\{[^}]*\}`)

// ButtonColors gathers colors tied to interactive elements from two
// independent passes: the inline style attribute values collected from
// button-like elements, and button rule bodies inside each stylesheet.
// The result is deduplicated by canonical form and capped at
// MaxButtonColors; no colors found is an empty slice, not an error.
func ButtonColors(inlineStyles []string, stylesheets []string) []Color {
	var found []Color
	for _, style := range inlineStyles {
		found = append(found, Extract(style)...)
	}
	for _, css := range stylesheets {
		for _, block := range buttonBlock.FindAllString(css, -1) {
			found = append(found, Extract(block)...)
		}
	}

	seen := make(map[Color]struct{}, len(found))
	var out []Color
	for _, c := range found {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == MaxButtonColors {
			break
		}
	}
	return out
}
