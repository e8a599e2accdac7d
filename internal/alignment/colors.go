// Package alignment assembles Ig-strand numbering into 1D tables and 2D
// template layouts.
package alignment

import "strings"

// Fill colours shared by both layouts.
const (
	AnchorColor  = "FFD700"
	LoopColor    = "CCCCCC"
	DefaultColor = "FFFFFF"
)

// StrandColors colours 1D cells by strand prefix.
var StrandColors = map[string]string{
	"A":   "9400D3",
	"A'":  "9400D3",
	"B":   "ba55d3",
	"C":   "0000FF",
	"C'":  "6495ED",
	"C''": "006400",
	"D":   "00FF00",
	"E":   "FFD700",
	"F":   "FF8C00",
	"G":   "FF0000",
}

// DigitColors colours 2D cells by the first digit of the template label,
// which encodes the strand class.
var DigitColors = map[string]string{
	"1": "9400D3",
	"2": "ba55d3",
	"3": "0000FF",
	"4": "6495ED",
	"5": "006400",
	"6": "00FF00",
	"7": "FFD700",
	"8": "FF8C00",
	"9": "FF0000",
}

// strandColor returns the 1D colour for a strand prefix. Decorations
// such as "+G" or "A_" are trimmed before the lookup.
func strandColor(prefix string) string {
	if c, ok := StrandColors[strings.Trim(prefix, "+-_")]; ok {
		return c
	}
	return DefaultColor
}

// digitColor returns the 2D colour for a template label.
func digitColor(label string) string {
	if label == "" {
		return DefaultColor
	}
	if c, ok := DigitColors[label[:1]]; ok {
		return c
	}
	return DefaultColor
}
