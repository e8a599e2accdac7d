package numbering

import (
	"fmt"
	"strings"
)

// Record is one residue's numbering annotation.
type Record struct {
	StructureID string
	Chain       string
	ResidueNum  string // structural residue number, may carry an insertion letter
	Residue     string // one-letter amino-acid code
	Label       string // numbering key without loop qualifier, "" when undefined
	Loop        string // loop qualifier, "" on strands
	Undefined   bool
}

// ParseRecord parses a residue identity such as "7CM4_A_350_V" and its raw
// numbering label ("A'1840", "C3550_1" or "undefined").
func ParseRecord(identity, raw string) (Record, error) {
	parts := strings.Split(identity, "_")
	if len(parts) < 4 {
		return Record{}, fmt.Errorf("malformed residue identity %q", identity)
	}
	rec := Record{
		StructureID: parts[0],
		Chain:       parts[1],
		ResidueNum:  parts[2],
		Residue:     parts[len(parts)-1],
	}
	if raw == Undefined {
		rec.Undefined = true
		return rec, nil
	}
	rec.Label, rec.Loop = SplitLoop(raw)
	return rec, nil
}

// String formats the record back into its residue identity.
func (r Record) String() string {
	return r.StructureID + "_" + r.Chain + "_" + r.ResidueNum + "_" + r.Residue
}
