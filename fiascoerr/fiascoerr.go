/*
DESCRIPTION
  fiascoerr.go defines the error kinds shared across the codec core:
  IoError, Malformed, Unsupported, OutOfBounds and OutOfMemory.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package fiascoerr provides the error kinds used across the FIASCO
// codec core. Each kind is a concrete struct implementing error so
// that callers can type-switch or use errors.As to recover structured
// detail, while internal call sites wrap them with github.com/pkg/errors
// to retain a stack of context.
package fiascoerr

import "fmt"

// IoError wraps an underlying reader/writer failure.
type IoError struct {
	Path  string
	Cause error
}

func (e *IoError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("fiasco: io error: %v", e.Cause)
	}
	return fmt.Sprintf("fiasco: io error on %q: %v", e.Path, e.Cause)
}

func (e *IoError) Unwrap() error { return e.Cause }

// Malformed reports a bad magic, inconsistent header, illegal
// state/edge ID, or unexpected EOF mid-frame.
type Malformed struct {
	Where  string
	Detail string
}

func (e *Malformed) Error() string {
	return fmt.Sprintf("fiasco: malformed stream in %s: %s", e.Where, e.Detail)
}

// Unsupported reports an unknown release or a forbidden option
// combination.
type Unsupported struct {
	Feature string
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("fiasco: unsupported: %s", e.Feature)
}

// OutOfBounds reports an option outside its allowed range.
type OutOfBounds struct {
	Param string
	Value interface{}
}

func (e *OutOfBounds) Error() string {
	return fmt.Sprintf("fiasco: %s out of bounds: %v", e.Param, e.Value)
}

// OutOfMemory reports an allocation failure during synthesis.
type OutOfMemory struct {
	Where string
}

func (e *OutOfMemory) Error() string {
	if e.Where == "" {
		return "fiasco: out of memory"
	}
	return fmt.Sprintf("fiasco: out of memory in %s", e.Where)
}
