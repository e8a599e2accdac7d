// Package numbering parses Ig-strand numbering labels and the per-structure
// numbering files produced by the reference-numbering service.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Undefined is the label assigned to residues the service could not number.
const Undefined = "undefined"

var labelPattern = regexp.MustCompile(`^([^0-9]*)([0-9].*)$`)

// SplitLabel splits a numbering label into its strand prefix and ordinal,
// e.g. "A'1248a" -> ("A'", "1248a"). prefix+ordinal always equals label.
func SplitLabel(label string) (prefix, ordinal string, err error) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return "", "", fmt.Errorf("malformed numbering label %q", label)
	}
	return m[1], m[2], nil
}

// Prefix returns the strand prefix of label, or "" when it is malformed.
func Prefix(label string) string {
	p, _, err := SplitLabel(label)
	if err != nil {
		return ""
	}
	return p
}

// Ordinal returns the ordinal part of label, or label itself when it is malformed.
func Ordinal(label string) string {
	_, o, err := SplitLabel(label)
	if err != nil {
		return label
	}
	return o
}

// StripSubLetters removes every lower-case letter from label so that
// sub-positions such as 1248a and 1248b share one alignment column.
func StripSubLetters(label string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return -1
		}
		return r
	}, label)
}

// SplitLoop separates a raw label into the numbering key and its loop
// qualifier: "C3550_1" -> ("C3550", "1"), "C3550" -> ("C3550", "").
// Only a single underscore is treated as a qualifier separator.
func SplitLoop(raw string) (key, loop string) {
	parts := strings.Split(raw, "_")
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// CompareOrdinals orders ordinals by their leading integer, then by the
// remaining suffix ("1248" < "1248a" < "1248b" < "1249").
func CompareOrdinals(a, b string) int {
	na, sa := splitNumber(a)
	nb, sb := splitNumber(b)
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return strings.Compare(sa, sb)
}

// IsAnchor reports whether the ordinal of label ends in "50", the conserved
// anchor position of each strand.
func IsAnchor(label string) bool {
	return strings.HasSuffix(Ordinal(label), "50")
}

func splitNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1, s
	}
	return n, s[i:]
}
