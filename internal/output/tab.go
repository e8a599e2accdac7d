package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/igalign/internal/grid"
)

// TabWriter collects cells like a sheet and writes them as tab-delimited
// text on Flush. Styles are dropped.
type TabWriter struct {
	w     *bufio.Writer
	cells *grid.MemSheet
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w:     bufio.NewWriter(w),
		cells: grid.NewMemSheet(),
	}
}

// SetCell records c at row, col.
func (tw *TabWriter) SetCell(row, col int, c grid.Cell) error {
	return tw.cells.SetCell(row, col, c)
}

// Flush writes every collected row and flushes the underlying writer.
// Unwritten cells are empty fields.
func (tw *TabWriter) Flush() error {
	values := make([]string, tw.cells.MaxCol)
	for row := 1; row <= tw.cells.MaxRow; row++ {
		for col := range values {
			values[col] = tw.cells.Value(row, col+1)
		}
		if _, err := tw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	tw.cells = grid.NewMemSheet()
	return tw.w.Flush()
}
