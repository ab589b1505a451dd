package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrIncludeNotFound is matched by every IncludeNotFoundError.
	ErrIncludeNotFound = errors.New("include not found")
	// ErrIncludeCycle is returned when a document includes one of its ancestors.
	ErrIncludeCycle = errors.New("include cycle")
	// ErrIncludeDepth is returned when includes nest deeper than MaxDepth.
	ErrIncludeDepth = errors.New("include depth exceeded")
)

// IncludeNotFoundError reports a referenced document that could not be read.
// It aborts the whole compilation and reaches the caller unchanged.
type IncludeNotFoundError struct {
	Ref  string // reference as written in the marker
	Path string // resolved location
	From string // location of the including document
	Err  error  // underlying read error
}

func (e *IncludeNotFoundError) Error() string {
	return fmt.Sprintf("include %q (resolved to %s) from %s: %v", e.Ref, e.Path, e.From, e.Err)
}

// Is makes errors.Is(err, ErrIncludeNotFound) true.
func (e *IncludeNotFoundError) Is(target error) bool {
	return target == ErrIncludeNotFound
}

func (e *IncludeNotFoundError) Unwrap() error {
	return e.Err
}
