package numbering

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	r, ok := ParseRange("30a:165")
	assert.True(t, ok)
	assert.Equal(t, Bound{Num: 30, Sub: 1}, r.Start)
	assert.Equal(t, Bound{Num: 165}, r.End)

	r, ok = ParseRange("2:110B")
	assert.True(t, ok)
	assert.Equal(t, Bound{Num: 110, Sub: 2}, r.End)

	_, ok = ParseRange("")
	assert.False(t, ok)
}

func TestCompareRanges_SubLetters(t *testing.T) {
	assert.Equal(t, 1, CompareRanges("30a:165", "30:200"))
	assert.Equal(t, -1, CompareRanges("30a:165", "31:100"))
	assert.Equal(t, -1, CompareRanges("30a:165", "30b:1"))
	assert.Equal(t, 0, CompareRanges("1:29", "1:29"))
}

func TestCompareRanges_UnparsableLast(t *testing.T) {
	ranges := []string{"x:y", "30:165", "1:29"}
	slices.SortStableFunc(ranges, CompareRanges)
	assert.Equal(t, []string{"1:29", "30:165", "x:y"}, ranges)
}
