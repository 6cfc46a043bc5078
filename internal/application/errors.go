package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrFetch             = errors.New("fetch failed")
	ErrParse             = errors.New("parse failed")
	ErrInvalidDefinition = errors.New("invalid scene definition")
	ErrInheritanceCycle  = errors.New("inheritance cycle")
)

// LoadErrorKind classifies a failed scene load
type LoadErrorKind int

const (
	LoadErrorFetch LoadErrorKind = iota
	LoadErrorParse
	LoadErrorInvalidDefinition
	LoadErrorInheritanceCycle
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadErrorFetch:
		return "fetch"
	case LoadErrorParse:
		return "parse"
	case LoadErrorInvalidDefinition:
		return "invalid definition"
	case LoadErrorInheritanceCycle:
		return "inheritance cycle"
	default:
		return "unknown"
	}
}

// LoadError aborts a whole inheritance chain load. URI names the scene or
// component source that failed.
type LoadError struct {
	Kind LoadErrorKind
	URI  string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot load %s: %s", e.URI, e.Kind)
	}
	return fmt.Sprintf("cannot load %s: %s: %v", e.URI, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrFetch:
		return e.Kind == LoadErrorFetch
	case ErrParse:
		return e.Kind == LoadErrorParse
	case ErrInvalidDefinition:
		return e.Kind == LoadErrorInvalidDefinition
	case ErrInheritanceCycle:
		return e.Kind == LoadErrorInheritanceCycle
	}
	return false
}

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NodeError reports an editing operation that cannot apply to a node
type NodeError struct {
	Node   string
	Reason string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("cannot edit %s: %s", e.Node, e.Reason)
}

func (e *NodeError) Is(target error) bool {
	return target == ErrInvalidOperation
}
