package alignment

import (
	"strings"

	"github.com/inodb/igalign/internal/grid"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/numbering"
)

// Caption placement relative to the fold-type sentinel cell.
const (
	CaptionOffset   = 3
	CaptionFontSize = 16
)

// PlacedCell is a cell at block-relative coordinates.
type PlacedCell struct {
	Row, Col int
	Cell     grid.Cell
}

// Block is one rendered template, ready to be placed on a Canvas.
type Block struct {
	Name  string
	Width int
	Cells []PlacedCell
}

// BuildBlock overlays the residues of d onto tmpl.
//
// Template cells are visited right to left within each row so the caption
// written CaptionOffset columns right of the sentinel is not overwritten
// by the template cell at that position.
func BuildBlock(t igdomain.Triple, d *igdomain.Descriptor, tmpl *grid.Template) *Block {
	ords := d.OrdinalResidues()
	sentinel := string(d.FoldType)

	b := &Block{Name: tmpl.Name, Width: tmpl.Cols}
	for row := 1; row <= tmpl.Rows; row++ {
		for col := tmpl.Cols; col >= 1; col-- {
			src := tmpl.At(row, col)
			out := grid.Cell{Value: src.Value, Style: src.Style}
			out.Style.HAlign = "center"

			if res, ok := ords[numbering.Ordinal(src.Value)]; ok && src.Value != "" && src.Value != sentinel {
				out.Value = res.Letter
				out.Style.Fill = templateFill(src.Value, res)
				b.Cells = append(b.Cells, PlacedCell{Row: row, Col: col, Cell: out})
				continue
			}

			switch {
			case sentinel != "" && src.Value == sentinel:
				out.Value = sentinel + "_" + strings.Join([]string{t.StructureID, t.Chain, t.Domain}, "_")
				caption := grid.Cell{Value: d.RefName, Style: tmpl.At(row, col+CaptionOffset).Style}
				caption.Style.Font.Bold = true
				caption.Style.Font.Size = CaptionFontSize
				caption.Style.HAlign = "center"
				b.Cells = append(b.Cells,
					PlacedCell{Row: row, Col: col, Cell: out},
					PlacedCell{Row: row, Col: col + CaptionOffset, Cell: caption})
				continue
			case isNumberPlaceholder(src.Value):
				out.Value = ""
			}
			b.Cells = append(b.Cells, PlacedCell{Row: row, Col: col, Cell: out})
		}
	}
	return b
}

// templateFill picks the fill of a matched template cell: anchor, then
// loop, then the strand class of the label's first digit.
func templateFill(label string, res igdomain.Residue) string {
	switch {
	case strings.HasSuffix(label, "50"):
		return AnchorColor
	case res.InLoop():
		return LoopColor
	}
	return digitColor(label)
}

// isNumberPlaceholder reports whether v is an unmatched four-character
// numbering position such as "1250".
func isNumberPlaceholder(v string) bool {
	return len(v) == 4 && v[0] >= '0' && v[0] <= '9'
}
