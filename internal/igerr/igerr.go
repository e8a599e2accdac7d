// Package igerr provides the error kinds shared by the alignment pipeline.
//
// Callers use KindOf to tell a per-triple skip from a condition that must
// abort the whole batch.
package igerr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	Unknown Kind = iota
	MalformedInputLine
	MissingTemplate
	UnknownReferenceStructure
	DuplicateNumberingKey
	UndefinedResidueNumbering
	NumberingFileAcquisitionFailure
	MalformedNumberingFile
	DomainNotFound
)

var kindNames = map[Kind]string{
	Unknown:                         "unknown",
	MalformedInputLine:              "malformed input line",
	MissingTemplate:                 "missing template",
	UnknownReferenceStructure:       "unknown reference structure",
	DuplicateNumberingKey:           "duplicate numbering key",
	UndefinedResidueNumbering:       "undefined residue numbering",
	NumberingFileAcquisitionFailure: "numbering file acquisition failure",
	MalformedNumberingFile:          "malformed numbering file",
	DomainNotFound:                  "domain not found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is an error tagged with a Kind and the subject it concerns
// (a structure id, a triple key, a template name or an input line).
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

// New returns an *Error for kind and subject wrapping err (which may be nil).
func New(kind Kind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Errorf returns an *Error whose cause is built with fmt.Errorf.
func Errorf(kind Kind, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Recoverable reports whether the batch may continue after err.
// A malformed numbering file and untyped errors are fatal.
func Recoverable(err error) bool {
	switch KindOf(err) {
	case Unknown, MalformedNumberingFile:
		return false
	}
	return true
}
