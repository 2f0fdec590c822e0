package evcache

import (
	"errors"
	"fmt"
)

// ErrNoSolver is returned (wrapped in a SolverError) when computation is
// allowed but no collaborator was configured for the quantity.
var ErrNoSolver = errors.New("evcache: no solver configured")

// LegIndexError reports a leg id other than 1 or 2.
type LegIndexError struct {
	ID int
}

func (e *LegIndexError) Error() string {
	return fmt.Sprintf("invalid leg id = %d", e.ID)
}

// UnsupportedError reports a channel, period or variant combination the
// resolver cannot serve.
type UnsupportedError struct {
	What  string
	Value any
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s %v is not supported", e.What, e.Value)
}

// SelectionError reports a request for an object the event selection did
// not provide, e.g. a b-jet pair.
type SelectionError struct {
	What string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("event has no selected %s", e.What)
}

// DependencyError reports that Quantity could not be built because a
// lower-level Dependency is missing or did not converge.
type DependencyError struct {
	Quantity   string
	Dependency string
	Reason     string
	Err        error
}

func (e *DependencyError) Error() string {
	msg := fmt.Sprintf("%s: %s %s", e.Quantity, e.Dependency, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DependencyError) Unwrap() error { return e.Err }

// SolverError wraps a failure of an external collaborator.
type SolverError struct {
	Solver Quantity
	Err    error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("%s solver: %v", e.Solver, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }

// IndexError reports an object index outside its collection.
type IndexError struct {
	Collection string
	Index      int
	Len        int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid %s index = %d (have %d)", e.Collection, e.Index, e.Len)
}
