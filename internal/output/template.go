package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/grid"
	"github.com/inodb/igalign/internal/igerr"
)

// Size is the row and column extent read from a template.
type Size struct {
	Rows int `mapstructure:"rows" yaml:"rows" json:"rows"`
	Cols int `mapstructure:"cols" yaml:"cols" json:"cols"`
}

// FallbackSizeKey names the size used for fold types without their own entry.
const FallbackSizeKey = "V"

// DefaultSize is the extent of the IgV templates.
var DefaultSize = Size{Rows: 47, Cols: 21}

// LoadTemplate reads the first rows x cols cells of the first sheet of the
// xlsx file at path.
func LoadTemplate(path, name string, rows, cols int) (*grid.Template, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	tmpl := grid.NewTemplate(name, rows, cols)
	styles := make(map[int]grid.Style)

	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			ref, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			value, err := f.GetCellValue(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("read %s!%s: %w", name, ref, err)
			}
			id, err := f.GetCellStyle(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("read style %s!%s: %w", name, ref, err)
			}

			style, ok := styles[id]
			if !ok && id != 0 {
				xs, err := f.GetStyle(id)
				if err != nil {
					return nil, fmt.Errorf("decode style %d: %w", id, err)
				}
				style = fromExcelStyle(xs)
				styles[id] = style
			}
			if value == "" && id == 0 {
				continue
			}
			tmpl.Set(row, col, grid.Cell{Value: value, Style: style})
		}
	}
	return tmpl, nil
}

// TemplateSet loads "{scheme}_template_{name}.xlsx" files from a directory
// and caches them by name.
type TemplateSet struct {
	Dir    string
	Scheme string
	Sizes  map[string]Size

	mu    sync.Mutex
	cache map[string]*grid.Template
}

// NewTemplateSet returns a set reading from dir. sizes is keyed by fold
// type, case-insensitively; FallbackSizeKey applies to the rest.
func NewTemplateSet(dir, scheme string, sizes map[string]Size) *TemplateSet {
	folded := make(map[string]Size, len(sizes))
	for k, v := range sizes {
		folded[strings.ToLower(k)] = v
	}
	return &TemplateSet{
		Dir:    dir,
		Scheme: scheme,
		Sizes:  folded,
		cache:  make(map[string]*grid.Template),
	}
}

// Path returns the file holding the named layout.
func (s *TemplateSet) Path(name string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_template_%s.xlsx", strings.ToLower(s.Scheme), name))
}

// Size returns the template extent for fold.
func (s *TemplateSet) Size(fold catalog.FoldType) Size {
	if sz, ok := s.Sizes[strings.ToLower(string(fold))]; ok && sz.Rows > 0 && sz.Cols > 0 {
		return sz
	}
	if sz, ok := s.Sizes[strings.ToLower(FallbackSizeKey)]; ok && sz.Rows > 0 && sz.Cols > 0 {
		return sz
	}
	return DefaultSize
}

// Get returns the named layout sized for fold. A missing file is reported
// as MissingTemplate.
func (s *TemplateSet) Get(name string, fold catalog.FoldType) (*grid.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.cache[name]; ok {
		return t, nil
	}

	path := s.Path(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, igerr.New(igerr.MissingTemplate, name, fmt.Errorf("%s not found", path))
		}
		return nil, fmt.Errorf("stat template: %w", err)
	}

	sz := s.Size(fold)
	t, err := LoadTemplate(path, name, sz.Rows, sz.Cols)
	if err != nil {
		return nil, err
	}
	s.cache[name] = t
	return t, nil
}
