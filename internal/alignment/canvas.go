package alignment

import (
	"fmt"

	"github.com/inodb/igalign/internal/grid"
)

// Canvas places blocks left to right on a sheet. Its cursor only moves
// forward, so block i always starts at 1 + the widths of blocks 1..i-1.
type Canvas struct {
	sheet  grid.Sheet
	cursor int
}

// NewCanvas returns a canvas writing to sheet from column 1.
func NewCanvas(sheet grid.Sheet) *Canvas {
	return &Canvas{sheet: sheet, cursor: 1}
}

// Cursor returns the column where the next block starts.
func (c *Canvas) Cursor() int {
	return c.cursor
}

// Place writes b at the cursor and returns the column after it.
func (c *Canvas) Place(b *Block) (int, error) {
	if b.Width <= 0 {
		return c.cursor, fmt.Errorf("block %s has width %d", b.Name, b.Width)
	}
	for _, pc := range b.Cells {
		if err := c.sheet.SetCell(pc.Row, c.cursor+pc.Col-1, pc.Cell); err != nil {
			return c.cursor, fmt.Errorf("place block %s: %w", b.Name, err)
		}
	}
	c.cursor += b.Width
	return c.cursor, nil
}
