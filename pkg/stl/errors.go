package stl

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the file cannot be opened or read
	ErrSourceUnavailable = errors.New("stl: source unavailable")

	// ErrMalformedASCII is matched by every *SyntaxError
	ErrMalformedASCII = errors.New("stl: malformed ascii")

	// ErrTruncatedBinary is matched by every *TruncatedError
	ErrTruncatedBinary = errors.New("stl: truncated binary")

	// ErrIndexOutOfRange is returned by the mesh accessors
	ErrIndexOutOfRange = errors.New("stl: index out of range")
)

// SyntaxError describes a structural problem in an ASCII STL file
type SyntaxError struct {
	Source string
	Line   int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bad ASCII format for %s: %s at line %d", e.Source, e.Msg, e.Line)
}

func (e *SyntaxError) Unwrap() error {
	return ErrMalformedASCII
}

// Stage names the part of a binary STL file being read
type Stage int

const (
	StageHeader Stage = iota
	StageCount
	StageRecord
)

func (s Stage) String() string {
	switch s {
	case StageHeader:
		return "header"
	case StageCount:
		return "triangle count"
	case StageRecord:
		return "triangle record"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// TruncatedError reports a binary STL file that ends before the declared
// data. Record is the zero-based triangle index for StageRecord.
type TruncatedError struct {
	Source string
	Stage  Stage
	Record int
	Err    error
}

func (e *TruncatedError) Error() string {
	if e.Stage == StageRecord {
		return fmt.Sprintf("truncated binary STL %s: %s %d: %v", e.Source, e.Stage, e.Record, e.Err)
	}
	return fmt.Sprintf("truncated binary STL %s: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *TruncatedError) Unwrap() []error {
	return []error{ErrTruncatedBinary, e.Err}
}

// IndexError is returned when a triangle or corner index is out of range
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("stl: %s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
