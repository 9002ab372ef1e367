package palette

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrEmptyPalette is returned by Recommend when there are no colors to
// contrast against. Callers are expected to skip the recommendation rather
// than treat the run as failed.
var ErrEmptyPalette = errors.New("empty input palette")

// Recommendation pairs an accent color with a human-readable justification.
type Recommendation struct {
	Color  Color
	Reason string
}

// contrastThreshold is the minimum weighted-luminance difference (on the
// 0-255 scale) for a candidate to count as sufficiently contrasting.
const contrastThreshold = 50.0

// DefaultAccent is the fallback when no candidate clears the threshold.
const DefaultAccent Color = "#28a745"

const defaultReason = "Default choice for contrast"

// rainbowCandidates is the fixed VIBGYOR candidate table, each with its
// justification template.
var rainbowCandidates = []struct {
	name  string
	color Color
}{
	{"Violet", "#8a2be2"},
	{"Indigo", "#4b0082"},
	{"Blue", "#0000ff"},
	{"Green", "#00ff00"},
	{"Yellow", "#ffff00"},
	{"Orange", "#ffa500"},
	{"Red", "#ff0000"},
}

type rgb struct {
	r, g, b int
}

// RGB parses the color into 0-255 channel values. Non-canonical input that
// cannot be repaired by Canonicalize is an error.
func (c Color) RGB() (r, g, b int, err error) {
	v, err := parseRGB(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return v.r, v.g, v.b, nil
}

func parseRGB(c Color) (rgb, error) {
	s := string(Canonicalize(string(c)))
	if len(s) != 7 || s[0] != '#' {
		return rgb{}, fmt.Errorf("not a canonical hex color: %q", c)
	}
	var vals [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return rgb{}, fmt.Errorf("not a canonical hex color: %q", c)
		}
		vals[i] = int(v)
	}
	return rgb{vals[0], vals[1], vals[2]}, nil
}

// luminance is a simplified weighted brightness score on the 0-255 scale.
// It is deliberately not gamma corrected; this mirrors the heuristic the
// rest of the pipeline is calibrated against, not a colorimetric standard.
func luminance(c rgb) float64 {
	return 0.2126*float64(c.r) + 0.7152*float64(c.g) + 0.0722*float64(c.b)
}

// Recommend selects one accent color that contrasts with the darkest color
// of the given palette. Among rainbow candidates clearing the threshold the
// one with the largest luminance difference wins; white, then black, then
// a fixed default override in that order when they qualify. An empty
// palette returns ErrEmptyPalette.
func Recommend(colors []Color) (Recommendation, error) {
	darkest := math.MaxFloat64
	seen := false
	for _, c := range colors {
		v, err := parseRGB(c)
		if err != nil {
			continue
		}
		if l := luminance(v); l < darkest {
			darkest = l
		}
		seen = true
	}
	if !seen {
		return Recommendation{}, ErrEmptyPalette
	}

	var pick Recommendation
	bestDiff := 0.0
	for _, cand := range rainbowCandidates {
		v, _ := parseRGB(cand.color)
		diff := math.Abs(darkest - luminance(v))
		if diff > contrastThreshold && diff > bestDiff {
			bestDiff = diff
			pick = Recommendation{
				Color:  cand.color,
				Reason: fmt.Sprintf("%s is a vibrant color that contrasts well with the website's primary colors.", cand.name),
			}
		}
	}

	if math.Abs(darkest-luminance(rgb{255, 255, 255})) > contrastThreshold {
		pick = Recommendation{
			Color:  White,
			Reason: "White is a classic choice that ensures high contrast and readability.",
		}
	} else if math.Abs(darkest-luminance(rgb{0, 0, 0})) > contrastThreshold {
		pick = Recommendation{
			Color:  Black,
			Reason: "Black is a versatile choice that enhances readability and visual appeal.",
		}
	}

	if pick.Color == "" {
		pick = Recommendation{Color: DefaultAccent, Reason: defaultReason}
	}
	return pick, nil
}
