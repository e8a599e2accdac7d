package alignment

import (
	"slices"
	"strings"

	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/numbering"
)

type column struct {
	prefix, ordinal string
}

// UnifyKeys builds the column axis of a 1D alignment: every numbering label
// of every descriptor with sub-position letters removed, deduplicated and
// sorted by ordinal. Nil descriptors are ignored.
func UnifyKeys(descs []*igdomain.Descriptor) []string {
	seen := make(map[string]bool)
	var cols []column
	for _, d := range descs {
		if d == nil {
			continue
		}
		for _, label := range d.Labels {
			key := numbering.StripSubLetters(label)
			if seen[key] {
				continue
			}
			seen[key] = true

			prefix, ordinal, err := numbering.SplitLabel(key)
			if err != nil {
				continue
			}
			cols = append(cols, column{prefix: prefix, ordinal: ordinal})
		}
	}

	slices.SortStableFunc(cols, func(a, b column) int {
		if c := numbering.CompareOrdinals(a.ordinal, b.ordinal); c != 0 {
			return c
		}
		return strings.Compare(a.prefix, b.prefix)
	})

	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.prefix + c.ordinal
	}
	return keys
}
