// ABOUTME: Sentinel errors for the editing core
// ABOUTME: OverlapError carries the conflicting offsets and unwraps to ErrOverlap
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrOverlap means two inline callouts share code units.
	ErrOverlap = errors.New("overlapping instructions detected")
	// ErrInvalidConfiguration reports a non-positive or non-finite chunk size.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidRange         = errors.New("invalid offset range")
	ErrInvalidChange        = errors.New("invalid text change")
	ErrEmptyInstruction     = errors.New("instruction cannot be empty")
	ErrCalloutNotFound      = errors.New("callout not found")
)

// OverlapError describes an inline range that intersects another one.
type OverlapError struct {
	StartOffset int
	EndOffset   int
	// ConflictID is the id of the existing callout, when known.
	ConflictID string
	// Cursor is the serializer position the range started before, when raised during serialization.
	Cursor int
}

func (e *OverlapError) Error() string {
	if e.ConflictID != "" {
		return fmt.Sprintf("%s: [%d, %d) overlaps %s", ErrOverlap, e.StartOffset, e.EndOffset, e.ConflictID)
	}
	return fmt.Sprintf("%s: [%d, %d) starts before offset %d", ErrOverlap, e.StartOffset, e.EndOffset, e.Cursor)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}
