package alignment

import (
	"fmt"

	"github.com/inodb/igalign/internal/grid"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/numbering"
)

// Headers1D are the descriptive columns preceding the numbering columns.
var Headers1D = []string{
	"structure",
	"3dD_res_range",
	"igD_res_range",
	"refpdbname",
	"Igtype",
	"tmscore",
	"seqid",
	"nresAlign",
	"undefined_info",
}

// DefaultFontSize is the body font size of the 1D table.
const DefaultFontSize = 12

// Table1D renders one row per domain and one column per unified key.
type Table1D struct {
	FontSize float64
}

// NewTable1D returns a renderer using DefaultFontSize.
func NewTable1D() *Table1D {
	return &Table1D{FontSize: DefaultFontSize}
}

// Render writes the header row and one row per descriptor. Header cells
// are two points larger than body cells.
func (t *Table1D) Render(sheet grid.Sheet, rows []*igdomain.Descriptor, keys []string) error {
	if err := t.renderHeader(sheet, keys); err != nil {
		return err
	}
	for i, d := range rows {
		if err := t.renderRow(sheet, i+2, d, keys); err != nil {
			return fmt.Errorf("render row %s: %w", d.Key, err)
		}
	}
	return nil
}

func (t *Table1D) renderHeader(sheet grid.Sheet, keys []string) error {
	style := grid.Style{Font: grid.Font{Size: t.FontSize + 2}}
	for i, h := range Headers1D {
		if err := sheet.SetCell(1, i+1, grid.Cell{Value: h, Style: style}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, k := range keys {
		if err := sheet.SetCell(1, len(Headers1D)+i+1, grid.Cell{Value: k, Style: style}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	return nil
}

func (t *Table1D) renderRow(sheet grid.Sheet, row int, d *igdomain.Descriptor, keys []string) error {
	body := grid.Style{Font: grid.Font{Size: t.FontSize}}
	fields := []string{
		d.Key,
		d.StructRange,
		d.IgRange,
		d.RefName,
		string(d.FoldType),
		d.Score,
		d.SeqID,
		d.NResAlign,
		d.UndefinedText(),
	}
	for i, v := range fields {
		if err := sheet.SetCell(row, i+1, grid.Cell{Value: v, Style: body}); err != nil {
			return err
		}
	}

	for i, key := range keys {
		cell, ok := ResidueCell(d, key, t.FontSize)
		if !ok {
			continue
		}
		if err := sheet.SetCell(row, len(Headers1D)+i+1, cell); err != nil {
			return err
		}
	}
	return nil
}

// ResidueCell returns the 1D cell for column key of d, or false when d has
// no residue at key. Exactly one fill applies, in priority order: anchor,
// loop, strand colour.
func ResidueCell(d *igdomain.Descriptor, key string, fontSize float64) (grid.Cell, bool) {
	res, ok := d.Lookup(key)
	if !ok {
		return grid.Cell{}, false
	}

	style := grid.Style{Font: grid.Font{Size: fontSize}}
	switch {
	case numbering.IsAnchor(key):
		style.Fill = AnchorColor
		style.Font.Size = fontSize + 4
	case res.InLoop():
		style.Fill = LoopColor
	default:
		style.Fill = strandColor(numbering.Prefix(key))
	}
	return grid.Cell{Value: res.Letter, Style: style}, true
}
