// Package catalog maps Ig reference structures to their fold types.
package catalog

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/inodb/igalign/internal/igerr"
)

// FoldType is the structural classification of a domain.
type FoldType string

// Fold types used by the reference structures.
const (
	IgV       FoldType = "IgV"
	IgC1      FoldType = "IgC1"
	IgC2      FoldType = "IgC2"
	IgI       FoldType = "IgI"
	IgFN3     FoldType = "IgFN3"
	IgFN3Like FoldType = "IgFN3-like"
	IgE       FoldType = "IgE"
	CD19      FoldType = "CD19"
	SOD       FoldType = "SOD"
	Cadherin  FoldType = "Cadherin"
	Lamin     FoldType = "Lamin"
	ORF       FoldType = "ORF"
)

// Catalog resolves a reference structure name to a fold type.
type Catalog interface {
	Resolve(reference string) (FoldType, error)
}

// Table is a Catalog backed by an exact-match map.
type Table map[string]FoldType

// Resolve returns the fold type of reference or an UnknownReferenceStructure error.
func (t Table) Resolve(reference string) (FoldType, error) {
	if ft, ok := t[reference]; ok {
		return ft, nil
	}
	return "", igerr.New(igerr.UnknownReferenceStructure, reference, nil)
}

// Fingerprint returns a digest of the table contents that changes whenever
// an entry is added, removed or reclassified.
func (t Table) Fingerprint() string {
	refs := make([]string, 0, len(t))
	for ref := range t {
		refs = append(refs, ref)
	}
	slices.Sort(refs)

	h := sha256.New()
	for _, ref := range refs {
		fmt.Fprintf(h, "%s\t%s\n", ref, t[ref])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Merge returns a new table with the entries of other layered over t.
func (t Table) Merge(other Table) Table {
	merged := make(Table, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Default returns a copy of the built-in reference table.
func Default() Table {
	return Table(nil).Merge(references)
}

// LoadTable reads a reference table from a TSV file with columns
// reference and fold type. Lines starting with '#' are comments.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference catalog: %w", err)
	}
	defer f.Close()

	return parseTable(f)
}

func parseTable(r io.Reader) (Table, error) {
	t := make(Table)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("reference catalog line %d: want 2 tab-separated fields, got %q", lineNo, line)
		}
		t[strings.TrimSpace(fields[0])] = FoldType(strings.TrimSpace(fields[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan reference catalog: %w", err)
	}
	return t, nil
}
