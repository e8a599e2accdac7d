package pipeline

import (
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/igerr"
)

// Status is the outcome of resolving one triple.
type Status int

const (
	// Found: the domain was resolved.
	Found Status = iota
	// NotFound: the numbering file has no such domain, or its reference
	// structure is not catalogued. 1D writes an empty row; 2D skips it.
	NotFound
	// Skipped: no numbering could be obtained for the triple. Neither
	// layout writes anything for it.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Result is the resolution outcome of one triple.
type Result struct {
	Triple igdomain.Triple
	Desc   *igdomain.Descriptor
	Status Status
	Err    error
}

// classify turns a worker result into a Result, or returns the error
// when it must abort the batch.
func classify(wr igdomain.WorkResult) (Result, error) {
	res := Result{Triple: wr.Triple, Desc: wr.Desc, Err: wr.Err}
	if wr.Err == nil {
		res.Status = Found
		return res, nil
	}

	switch igerr.KindOf(wr.Err) {
	case igerr.DomainNotFound, igerr.UnknownReferenceStructure:
		res.Status = NotFound
		if res.Desc == nil {
			res.Desc = igdomain.Empty(wr.Triple)
		}
		return res, nil
	}
	if !igerr.Recoverable(wr.Err) {
		return res, wr.Err
	}
	res.Status = Skipped
	res.Desc = nil
	return res, nil
}

// Summary counts what a run wrote.
type Summary struct {
	Requested int
	Rows      int
	Blocks    int
	Skipped   []Result
}
