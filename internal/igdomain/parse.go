package igdomain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/igerr"
	"github.com/inodb/igalign/internal/numbering"
)

// DuplicatePolicy decides what happens when a numbering label occurs twice
// within one domain.
type DuplicatePolicy int

const (
	// FirstWins keeps the first residue and logs the duplicate.
	FirstWins DuplicatePolicy = iota
	// LastWins replaces the stored residue with the later one.
	LastWins
	// Reject fails the domain with a DuplicateNumberingKey error.
	Reject
)

func (p DuplicatePolicy) String() string {
	switch p {
	case LastWins:
		return "last"
	case Reject:
		return "error"
	}
	return "first"
}

// ParseDuplicatePolicy parses "first", "last" or "error".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "first":
		return FirstWins, nil
	case "last":
		return LastWins, nil
	case "error":
		return Reject, nil
	}
	return FirstWins, fmt.Errorf("unknown duplicate policy %q (want first, last or error)", s)
}

// Parsed is the residue mapping of one domain.
type Parsed struct {
	Residues  map[string]Residue
	Labels    []string // first-seen order
	IgRange   string
	Undefined []string
}

// ParseResidues builds the label -> residue mapping of one domain from its
// ordered records. Undefined residues are collected instead of mapped. The
// Ig range is taken from the first and last record in file order and is
// still reported when a duplicate label is rejected.
func ParseResidues(entries []numbering.ResidueEntry, policy DuplicatePolicy, logger *zap.Logger) (Parsed, error) {
	p := Parsed{Residues: make(map[string]Residue)}
	if len(entries) == 0 {
		return p, nil
	}

	records := make([]numbering.Record, 0, len(entries))
	for _, e := range entries {
		rec, err := numbering.ParseRecord(e.Identity, e.Label)
		if err != nil {
			return Parsed{}, err
		}
		records = append(records, rec)
	}
	p.IgRange = records[0].ResidueNum + ":" + records[len(records)-1].ResidueNum

	for _, rec := range records {
		if rec.Undefined {
			p.Undefined = append(p.Undefined, rec.ResidueNum)
			logger.Info("residue has undefined numbering", zap.String("residue", rec.String()))
			continue
		}

		res := Residue{Letter: rec.Residue, Loop: rec.Loop}
		if _, dup := p.Residues[rec.Label]; !dup {
			p.Residues[rec.Label] = res
			p.Labels = append(p.Labels, rec.Label)
			continue
		}

		switch policy {
		case LastWins:
			p.Residues[rec.Label] = res
			logger.Warn("duplicate numbering label, keeping last",
				zap.String("label", rec.Label), zap.String("residue", rec.String()))
		case Reject:
			return Parsed{IgRange: p.IgRange}, igerr.Errorf(igerr.DuplicateNumberingKey, rec.Label, "residue %s", rec)
		default:
			logger.Warn("duplicate numbering label, keeping first",
				zap.String("label", rec.Label), zap.String("residue", rec.String()))
		}
	}
	return p, nil
}
