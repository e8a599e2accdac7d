// Package igdomain resolves the Ig domains of a structure chain from its
// numbering records.
package igdomain

import (
	"fmt"
	"strings"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/numbering"
)

// Triple identifies one requested domain: structure, chain and 1-based domain index.
type Triple struct {
	StructureID string `json:"structure"`
	Chain       string `json:"chain"`
	Domain      string `json:"domain"`
}

// Key returns "STRUCTURE_CHAIN_DOMAIN".
func (t Triple) Key() string {
	return t.StructureID + "_" + t.Chain + "_" + t.Domain
}

func (t Triple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.StructureID, t.Chain, t.Domain)
}

// Residue is the residue assigned to one numbering position.
type Residue struct {
	Letter string `json:"letter"`
	Loop   string `json:"loop,omitempty"`
}

// InLoop reports whether the residue carries a loop qualifier.
func (r Residue) InLoop() bool { return r.Loop != "" }

// Descriptor is one resolved Ig domain of a structure chain.
type Descriptor struct {
	Key           string             `json:"key"`
	StructureID   string             `json:"structure"`
	Chain         string             `json:"chain"`
	Position      int                `json:"position"`
	UpstreamOrder int                `json:"upstream_order"`
	FoldType      catalog.FoldType   `json:"fold_type"`
	RefName       string             `json:"refpdbname"`
	StructRange   string             `json:"struct_range"`
	IgRange       string             `json:"ig_range"`
	Score         string             `json:"score"`
	SeqID         string             `json:"seqid"`
	NResAlign     string             `json:"nres_align"`
	Undefined     []string           `json:"undefined"`
	Residues      map[string]Residue `json:"residues"`
	Labels        []string           `json:"labels"`
	Found         bool               `json:"found"`

	err error
}

// Empty returns the blank descriptor emitted for a triple whose domain
// could not be resolved.
func Empty(t Triple) *Descriptor {
	return &Descriptor{
		Key:         t.Key(),
		StructureID: t.StructureID,
		Chain:       t.Chain,
		Residues:    map[string]Residue{},
	}
}

// Err reports why the domain could not be resolved: its residues failed to
// parse or its reference structure is not catalogued. It is nil for a
// usable descriptor.
func (d *Descriptor) Err() error {
	return d.err
}

// Lookup returns the residue at numbering label.
func (d *Descriptor) Lookup(label string) (Residue, bool) {
	if d == nil {
		return Residue{}, false
	}
	r, ok := d.Residues[label]
	return r, ok
}

// StrandPrefixes returns the set of strand prefixes present in the mapping.
func (d *Descriptor) StrandPrefixes() map[string]bool {
	set := make(map[string]bool)
	for _, label := range d.Labels {
		if p, _, err := numbering.SplitLabel(label); err == nil {
			set[p] = true
		}
	}
	return set
}

// OrdinalResidues returns the mapping keyed by ordinal with the strand
// prefix removed ("A'1248a" -> "1248a"). On a collision the label seen
// first wins.
func (d *Descriptor) OrdinalResidues() map[string]Residue {
	out := make(map[string]Residue, len(d.Residues))
	for _, label := range d.Labels {
		ord := numbering.Ordinal(label)
		if _, dup := out[ord]; dup {
			continue
		}
		out[ord] = d.Residues[label]
	}
	return out
}

// UndefinedText renders the undefined residue list for a table cell.
func (d *Descriptor) UndefinedText() string {
	return strings.Join(d.Undefined, ",")
}

// Template variant names for IgV domains.
const (
	TemplateIgVBoth  = "IgV_A_Adash"
	TemplateIgVADash = "IgV_Adash"
	TemplateIgVA     = "IgV_A"
)

// TemplateName returns the 2D template layout for d. IgV domains pick a
// variant from the A and A' strands present; other folds use the fold name.
func TemplateName(d *Descriptor) string {
	if d.FoldType != catalog.IgV {
		return string(d.FoldType)
	}
	strands := d.StrandPrefixes()
	switch {
	case strands["A"] && strands["A'"]:
		return TemplateIgVBoth
	case strands["A'"]:
		return TemplateIgVADash
	case strands["A"]:
		return TemplateIgVA
	}
	return string(catalog.IgV)
}
