package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemSheet(t *testing.T) {
	m := NewMemSheet()
	require.NoError(t, m.SetCell(2, 3, Cell{Value: "K"}))
	require.NoError(t, m.SetCell(2, 3, Cell{Value: "Q", Style: Style{Fill: "CCCCCC"}}))
	require.NoError(t, m.SetCell(1, 1, Cell{Value: "structure"}))

	c, ok := m.Cell(2, 3)
	require.True(t, ok)
	assert.Equal(t, "Q", c.Value)
	assert.Equal(t, "CCCCCC", c.Style.Fill)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.MaxRow)
	assert.Equal(t, 3, m.MaxCol)

	_, ok = m.Cell(5, 5)
	assert.False(t, ok)
	assert.Error(t, m.SetCell(0, 1, Cell{}))
}

func TestTemplate(t *testing.T) {
	tmpl := NewTemplate("IgC1", 3, 4)
	tmpl.Set(1, 2, Cell{Value: "IgC1"})

	assert.Equal(t, "IgC1", tmpl.At(1, 2).Value)
	assert.Equal(t, Cell{}, tmpl.At(3, 4))
}

func TestStyleKey(t *testing.T) {
	a := Style{Fill: "FFD700", Font: Font{Size: 16}}
	b := Style{Fill: "FFD700", Font: Font{Size: 16}}
	c := Style{Fill: "FFD700", Font: Font{Size: 12}}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
