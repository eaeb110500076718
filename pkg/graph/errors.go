package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrEmptyGraph     = errors.New("graph has no nodes")
	ErrUnknownNode    = errors.New("unknown node")
	ErrInvalidCost    = errors.New("invalid edge cost")
	ErrMalformed      = errors.New("malformed graph record")
	ErrNoIncidentEdge = errors.New("no node has an incident edge")
)

// GraphError provides structured error information for graph construction
// and loading.
type GraphError struct {
	Op      string // Operation that failed (e.g., "New", "LoadGraph")
	Entity  string // Entity type (e.g., "node", "edge", "record")
	ID      int64  // Entity ID or record index, valid when HasID is set
	HasID   bool
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.HasID {
		if e.Context != "" {
			return fmt.Sprintf("%s %s %d (%s): %v", e.Op, e.Entity, e.ID, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Node sets the entity to "node" with the given ID.
func (b *ErrorBuilder) Node(id NodeID) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.ID = int64(id)
	b.err.HasID = true
	return b
}

// Edge sets the entity to "edge" with its insertion index.
func (b *ErrorBuilder) Edge(index int) *ErrorBuilder {
	b.err.Entity = "edge"
	b.err.ID = int64(index)
	b.err.HasID = true
	return b
}

// Record sets the entity to "record" with the given source line.
func (b *ErrorBuilder) Record(line int) *ErrorBuilder {
	b.err.Entity = "record"
	b.err.ID = int64(line)
	b.err.HasID = true
	return b
}

// Entity sets a free-form entity name without an ID.
func (b *ErrorBuilder) Entity(name string) *ErrorBuilder {
	b.err.Entity = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// UnknownNodeError reports an edge endpoint that is not in the node set.
func UnknownNodeError(op string, edgeIndex int, id NodeID) error {
	return NewError(op).Edge(edgeIndex).
		Context(fmt.Sprintf("endpoint %d", id)).
		Cause(ErrUnknownNode).Err()
}

// IsInitialization returns true if the error means a graph cannot be used to
// start a simulation.
func IsInitialization(err error) bool {
	return errors.Is(err, ErrEmptyGraph) ||
		errors.Is(err, ErrUnknownNode) ||
		errors.Is(err, ErrInvalidCost) ||
		errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrNoIncidentEdge)
}
