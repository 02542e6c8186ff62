package colors

import (
	"sort"
	"strings"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// Fallback is returned for color names with no table entry.
const Fallback = "#9e9e9e"

var balloonColors = map[string]string{
	// Basic colors
	"purple":  "#9c27b0",
	"red":     "#f44336",
	"blue":    "#2196f3",
	"green":   "#4caf50",
	"yellow":  "#ffeb3b",
	"orange":  "#ff9800",
	"pink":    "#e91e63",
	"brown":   "#795548",
	"black":   "#212121",
	"white":   "#fafafa",
	"gray":    "#9e9e9e",
	"cyan":    "#00bcd4",
	"lime":    "#cddc39",
	"indigo":  "#3f51b5",
	"violet":  "#9c27b0",
	"magenta": "#e91e63",

	// Additional colors
	"gold":             "#ffd700",
	"silver":           "#c0c0c0",
	"bronze":           "#cd7f32",
	"deeppink":         "#ff1493",
	"hotpink":          "#ff69b4",
	"lightpink":        "#ffb6c1",
	"palevioletred":    "#db7093",
	"plum":             "#dda0dd",
	"mediumseagreen":   "#3cb371",
	"mediumpurple":     "#9370db",
	"mediumturquoise":  "#48d1cc",
	"mediumvioletred":  "#c71585",
	"midnightblue":     "#191970",
	"mintcream":        "#f5fffa",
	"whitesmoke":       "#f5f5f5",
	"lightgray":        "#d3d3d3",
	"thistle":          "#d8bfd8",
	"powderblue":       "#b0e0e6",
	"lightcoral":       "#f08080",
	"khaki":            "#f0e68c",
	"seagreen":         "#2e8b57",
	"lightseagreen":    "#20b2aa",
	"darkslategray":    "#2f4f4f",
	"darkslategrey":    "#2f4f4f",
	"dimgray":          "#696969",
	"dimgrey":          "#696969",
	"olive":            "#808000",
	"palegreen":        "#98fb98",
	"lightblue":        "#add8e6",
	"lightskyblue":     "#87cefa",
	"lightslategray":   "#778899",
	"maroon":           "#800000",
	"mediumaquamarine": "#66cdaa",
	"mediumblue":       "#0000cd",
	"mediumorchid":     "#ba55d3",
	"cadetblue":        "#5f9ea0",
	"darkblue":         "#00008b",
	"turquoise":        "#40e0d0",
	"teal":             "#009688",
	"navy":             "#000080",
	"fuchsia":          "#f0f",
	"aqua":             "#0ff",
	"azure":            "#f0ffff",
	"beige":            "#f5f5dc",
}

// sorted table keys, so the substring fallback scans deterministically
var balloonColorKeys = func() []string {
	keys := make([]string, 0, len(balloonColors))
	for k := range balloonColors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// Balloon resolves a free-text balloon color name to a hex value. Lookup
// is case-insensitive and ignores surrounding whitespace. An exact table
// miss falls back to substring containment over the sorted keys, so
// "Light Blue variant" resolves through "blue" (the first key it
// contains). Unknown names resolve to the neutral grey.
func Balloon(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if hex, ok := balloonColors[normalized]; ok {
		return hex
	}
	for _, key := range balloonColorKeys {
		if strings.Contains(normalized, key) {
			return balloonColors[key]
		}
	}
	return Fallback
}

// Status badge colors for the balloon lifecycle.
func Status(s models.BalloonStatus) string {
	switch s {
	case models.BalloonReadyForPickup:
		return "#ff9800"
	case models.BalloonPickedUp:
		return "#2196f3"
	case models.BalloonDelivered:
		return "#4caf50"
	}
	return "#9e9e9e"
}

// ToiletStatus badge colors, same palette as the balloon lifecycle with
// InProgress sharing the picked-up blue.
func ToiletStatus(s models.ToiletStatus) string {
	switch s {
	case models.ToiletInProgress:
		return "#2196f3"
	case models.ToiletCompleted:
		return "#4caf50"
	}
	return "#9e9e9e"
}
