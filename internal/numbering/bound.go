package numbering

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Bound is one end of a residue range: a residue number plus an optional
// insertion letter, ranked a=1, b=2, ... after the number.
type Bound struct {
	Num int
	Sub int
}

// Range is a start:end residue range.
type Range struct {
	Start, End Bound
}

// unbounded sorts after every parsable range.
var unbounded = Range{
	Start: Bound{Num: math.MaxInt},
	End:   Bound{Num: math.MaxInt},
}

var rangePattern = regexp.MustCompile(`^(\d+)([a-zA-Z]?):(\d+)([a-zA-Z]?)`)

// ParseRange parses "30:165" or "30a:165". The second result is false when
// the text does not start with a numeric range; the returned Range then
// sorts after all valid ranges.
func ParseRange(s string) (Range, bool) {
	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return unbounded, false
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil {
		return unbounded, false
	}
	return Range{
		Start: Bound{Num: start, Sub: letterRank(m[2])},
		End:   Bound{Num: end, Sub: letterRank(m[4])},
	}, true
}

func letterRank(s string) int {
	if s == "" {
		return 0
	}
	return int(strings.ToLower(s)[0]-'a') + 1
}

// Compare orders bounds by number, then insertion letter.
func (b Bound) Compare(o Bound) int {
	switch {
	case b.Num < o.Num:
		return -1
	case b.Num > o.Num:
		return 1
	case b.Sub < o.Sub:
		return -1
	case b.Sub > o.Sub:
		return 1
	}
	return 0
}

// Compare orders ranges by start bound, then end bound.
func (r Range) Compare(o Range) int {
	if c := r.Start.Compare(o.Start); c != 0 {
		return c
	}
	return r.End.Compare(o.End)
}

// CompareRanges parses and compares two range strings.
func CompareRanges(a, b string) int {
	ra, _ := ParseRange(a)
	rb, _ := ParseRange(b)
	return ra.Compare(rb)
}
