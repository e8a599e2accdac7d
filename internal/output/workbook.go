// Package output writes alignment grids to spreadsheet and tab-delimited
// files and reads the 2D template layouts.
package output

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/inodb/igalign/internal/grid"
)

// Workbook is a single-sheet xlsx file that implements grid.Sheet.
type Workbook struct {
	file   *excelize.File
	path   string
	sheet  string
	styles map[string]int
}

// NewWorkbook creates an empty workbook that Save writes to path. A
// non-empty sheet renames the default worksheet.
func NewWorkbook(path, sheet string) (*Workbook, error) {
	f := excelize.NewFile()
	name := f.GetSheetName(0)
	if sheet != "" && sheet != name {
		if err := f.SetSheetName(name, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
		name = sheet
	}
	return &Workbook{
		file:   f,
		path:   path,
		sheet:  name,
		styles: make(map[string]int),
	}, nil
}

// Path returns the file Save writes to.
func (w *Workbook) Path() string {
	return w.path
}

// SetCell writes c at row, col. Styles are registered once per distinct style.
func (w *Workbook) SetCell(row, col int, c grid.Cell) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := w.file.SetCellValue(w.sheet, ref, c.Value); err != nil {
		return fmt.Errorf("set %s: %w", ref, err)
	}

	id, err := w.styleID(c.Style)
	if err != nil {
		return err
	}
	if id == 0 {
		return nil
	}
	if err := w.file.SetCellStyle(w.sheet, ref, ref, id); err != nil {
		return fmt.Errorf("style %s: %w", ref, err)
	}
	return nil
}

func (w *Workbook) styleID(s grid.Style) (int, error) {
	xs := toExcelStyle(s)
	if xs == nil {
		return 0, nil
	}
	key := s.Key()
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	id, err := w.file.NewStyle(xs)
	if err != nil {
		return 0, fmt.Errorf("register style: %w", err)
	}
	w.styles[key] = id
	return id, nil
}

// Save writes the workbook to its path.
func (w *Workbook) Save() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// toExcelStyle converts s, returning nil for the zero style.
func toExcelStyle(s grid.Style) *excelize.Style {
	var xs excelize.Style
	empty := true

	if s.Fill != "" {
		xs.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
		empty = false
	}
	if s.Font != (grid.Font{}) {
		xs.Font = &excelize.Font{
			Family: s.Font.Family,
			Size:   s.Font.Size,
			Bold:   s.Font.Bold,
			Italic: s.Font.Italic,
			Color:  s.Font.Color,
		}
		empty = false
	}
	for _, b := range s.Borders {
		xs.Border = append(xs.Border, excelize.Border{Type: b.Side, Style: b.Style, Color: b.Color})
		empty = false
	}
	if s.HAlign != "" {
		xs.Alignment = &excelize.Alignment{Horizontal: s.HAlign}
		empty = false
	}
	if empty {
		return nil
	}
	return &xs
}

// fromExcelStyle converts a style read from a template.
func fromExcelStyle(xs *excelize.Style) grid.Style {
	var s grid.Style
	if xs == nil {
		return s
	}
	if xs.Fill.Type == "pattern" && xs.Fill.Pattern != 0 && len(xs.Fill.Color) > 0 {
		s.Fill = normalizeColor(xs.Fill.Color[0])
	}
	if xs.Font != nil {
		s.Font = grid.Font{
			Family: xs.Font.Family,
			Size:   xs.Font.Size,
			Bold:   xs.Font.Bold,
			Italic: xs.Font.Italic,
			Color:  normalizeColor(xs.Font.Color),
		}
	}
	for _, b := range xs.Border {
		s.Borders = append(s.Borders, grid.Border{Side: b.Type, Style: b.Style, Color: normalizeColor(b.Color)})
	}
	if xs.Alignment != nil {
		s.HAlign = xs.Alignment.Horizontal
	}
	return s
}

// normalizeColor turns "#ffd700" or "FFFFD700" into "FFD700".
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}
