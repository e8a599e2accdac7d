package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/igalign/internal/grid"
)

func TestTabWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.SetCell(1, 1, grid.Cell{Value: "structure"}))
	require.NoError(t, w.SetCell(1, 3, grid.Cell{Value: "A1250"}))
	require.NoError(t, w.SetCell(2, 1, grid.Cell{Value: "5ESV_A_1"}))
	require.NoError(t, w.SetCell(2, 3, grid.Cell{Value: "Q", Style: grid.Style{Fill: "FFD700"}}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "structure\t\tA1250\n5ESV_A_1\t\tQ\n", buf.String())
}

func TestTabWriter_FlushResets(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.SetCell(1, 2, grid.Cell{Value: "x"}))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Flush())

	assert.Equal(t, "\tx\n", buf.String())
}

func TestTabWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTabWriter(&buf).Flush())
	assert.Empty(t, buf.String())
}
