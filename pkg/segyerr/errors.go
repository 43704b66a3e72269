// Package segyerr defines the error taxonomy shared by the SEG-Y packages.
//
// Format-level failures match one of the sentinel values below through
// errors.Is. Failures of the operating system (opening, reading, writing or
// syncing the file or its sidecar index) are annotated and wrapped with %w
// instead, so the os and io/fs errors stay matchable, e.g. fs.ErrNotExist.
// Invalid options are reported as plain errors.
package segyerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormatViolation indicates unsupported or inconsistent header values.
	ErrFormatViolation = errors.New("format violation")
	// ErrTruncated indicates the file ends in the middle of a trace.
	ErrTruncated = errors.New("file truncated")
	// ErrOutOfRange indicates a trace, line or column access beyond bounds.
	ErrOutOfRange = errors.New("out of range")
	// ErrUnregisteredRevision indicates an unknown revision tag.
	ErrUnregisteredRevision = errors.New("revision not registered")
	// ErrUnsupportedConversion indicates samples requested as a type that the
	// file's format code cannot produce, or the deprecated fixed-point format.
	ErrUnsupportedConversion = errors.New("unsupported sample conversion")
	// ErrReadOnly indicates a write on a file opened read-only.
	ErrReadOnly = errors.New("file opened read-only")
	// ErrClosed indicates use of a closed file.
	ErrClosed = errors.New("file is closed")
)

// ConsistencyError lists every violation found while validating a header.
type ConsistencyError struct {
	Subject    string
	Violations []string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrFormatViolation, e.Subject, strings.Join(e.Violations, "; "))
}

// Is reports ErrFormatViolation.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrFormatViolation
}

// Violations accumulates consistency violations for one header.
type Violations struct {
	subject string
	list    []string
}

// NewViolations starts a violation list for subject.
func NewViolations(subject string) *Violations {
	return &Violations{subject: subject}
}

// Addf records a violation.
func (v *Violations) Addf(format string, args ...any) {
	v.list = append(v.list, fmt.Sprintf(format, args...))
}

// Err returns nil when no violation was recorded, else a *ConsistencyError.
func (v *Violations) Err() error {
	if len(v.list) == 0 {
		return nil
	}
	return &ConsistencyError{Subject: v.subject, Violations: append([]string(nil), v.list...)}
}

// TruncationError reports a file that ends mid-trace during indexing.
type TruncationError struct {
	Path string
	// Complete is the number of traces fully contained in the file.
	Complete int
	FileSize int64
	// Expected is the size the file would need to hold Complete+1 traces.
	Expected int64
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("%s: %s is truncated after trace number %d: size is %d bytes but %d are needed to contain %d traces (missing %d)",
		ErrTruncated, e.Path, e.Complete, e.FileSize, e.Expected, e.Complete+1, e.Expected-e.FileSize)
}

// Is reports ErrTruncated.
func (e *TruncationError) Is(target error) bool {
	return target == ErrTruncated
}

// RangeError reports an index outside [0, Limit).
type RangeError struct {
	What  string
	Index int
	Limit int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s %d not in [0, %d)", ErrOutOfRange, e.What, e.Index, e.Limit)
}

// Is reports ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// CheckIndex returns a *RangeError when i is outside [0, limit).
func CheckIndex(what string, i, limit int) error {
	if i < 0 || i >= limit {
		return &RangeError{What: what, Index: i, Limit: limit}
	}
	return nil
}

// Wrap annotates err with msg and makes it match sentinel as well as err.
func Wrap(sentinel error, msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, sentinel, err)
}
