// Package grid models styled spreadsheet cells independently of the file
// format they are written to.
package grid

import "fmt"

// Font describes cell text styling.
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
	Color  string
}

// Border is one side of a cell border.
type Border struct {
	Side  string // left, right, top, bottom
	Style int
	Color string
}

// Style is the visual style of a cell. Fill is an RGB hex colour, "" for none.
type Style struct {
	Fill    string
	Font    Font
	Borders []Border
	HAlign  string
}

// Key returns a string identifying the style, for caching style ids.
func (s Style) Key() string {
	return fmt.Sprintf("%+v", s)
}

// Cell is a value with its style.
type Cell struct {
	Value string
	Style Style
}

// Sheet accepts styled cells at 1-based row/column coordinates.
type Sheet interface {
	SetCell(row, col int, c Cell) error
}

// Template is a fixed-size styled grid read from a template layout.
type Template struct {
	Name  string
	Rows  int
	Cols  int
	cells map[[2]int]Cell
}

// NewTemplate creates an empty rows x cols template.
func NewTemplate(name string, rows, cols int) *Template {
	return &Template{
		Name:  name,
		Rows:  rows,
		Cols:  cols,
		cells: make(map[[2]int]Cell),
	}
}

// Set stores a template cell.
func (t *Template) Set(row, col int, c Cell) {
	t.cells[[2]int{row, col}] = c
}

// At returns the template cell at row, col; missing cells are blank.
func (t *Template) At(row, col int) Cell {
	return t.cells[[2]int{row, col}]
}

// MemSheet is an in-memory Sheet.
type MemSheet struct {
	cells  map[[2]int]Cell
	MaxRow int
	MaxCol int
}

// NewMemSheet creates an empty in-memory sheet.
func NewMemSheet() *MemSheet {
	return &MemSheet{cells: make(map[[2]int]Cell)}
}

// SetCell stores c, replacing any previous value.
func (m *MemSheet) SetCell(row, col int, c Cell) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell coordinates (%d, %d)", row, col)
	}
	m.cells[[2]int{row, col}] = c
	m.MaxRow = max(m.MaxRow, row)
	m.MaxCol = max(m.MaxCol, col)
	return nil
}

// Cell returns the cell at row, col and whether it was written.
func (m *MemSheet) Cell(row, col int) (Cell, bool) {
	c, ok := m.cells[[2]int{row, col}]
	return c, ok
}

// Value returns the value at row, col.
func (m *MemSheet) Value(row, col int) string {
	return m.cells[[2]int{row, col}].Value
}

// Len returns the number of distinct cells written.
func (m *MemSheet) Len() int {
	return len(m.cells)
}
