package segy

import "github.com/eunmann/segyio/pkg/segyerr"

// Errors returned by this package. They alias the segyerr sentinels so
// callers can match with errors.Is without a second import.
var (
	ErrFormatViolation       = segyerr.ErrFormatViolation
	ErrTruncated             = segyerr.ErrTruncated
	ErrOutOfRange            = segyerr.ErrOutOfRange
	ErrUnregisteredRevision  = segyerr.ErrUnregisteredRevision
	ErrUnsupportedConversion = segyerr.ErrUnsupportedConversion
	ErrReadOnly              = segyerr.ErrReadOnly
	ErrClosed                = segyerr.ErrClosed
)
