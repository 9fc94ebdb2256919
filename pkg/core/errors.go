package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrMalformedInput is matched by every MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnsupportedType is matched by every UnsupportedTypeError.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrNameCollision is matched by every NameCollisionError.
	ErrNameCollision = errors.New("name collision")
)

// MalformedInputError is returned when the input is not valid JSON or its
// root is not an object.
type MalformedInputError struct {
	Message string
	Err     error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("malformed input: %s", e.Message)
}

// Unwrap returns the underlying decoder error, if any.
func (e *MalformedInputError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// UnsupportedTypeError is returned when a value kind cannot be mapped to a
// column or a child table.
type UnsupportedTypeError struct {
	Path    string // JSON path of the offending value, e.g. $.order.items[0]
	Key     string // member key that holds the value
	Kind    string // offending value kind
	Context string // "object" or "array"
	Err     error  // set when the kind is supported but this value is not
}

func (e *UnsupportedTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("the %s value is not supported in %ss (key %q at %s): %v", e.Kind, e.Context, e.Key, e.Path, e.Err)
	}
	return fmt.Sprintf("the %s type is not supported in %ss (key %q at %s)", e.Kind, e.Context, e.Key, e.Path)
}

// Unwrap returns the value error, if any.
func (e *UnsupportedTypeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// Error contexts for UnsupportedTypeError.
const (
	ContextObject = "object"
	ContextArray  = "array"
)

// NameCollisionError is returned when two JSON keys, or a key and a
// generated key column, map to the same SQL identifier.
type NameCollisionError struct {
	Path  string // JSON path of the later key
	Key   string
	Other string // earlier key; empty when Name is a generated column
	Name  string // identifier both map to
	Kind  string // "column" or "table"
}

func (e *NameCollisionError) Error() string {
	if e.Other == "" {
		return fmt.Sprintf("key %q at %s collides with the generated %s %q", e.Key, e.Path, e.Kind, e.Name)
	}
	return fmt.Sprintf("keys %q and %q both map to %s %q (at %s)", e.Other, e.Key, e.Kind, e.Name, e.Path)
}

// Is reports whether target is ErrNameCollision.
func (e *NameCollisionError) Is(target error) bool { return target == ErrNameCollision }

// Identifier namespaces for NameCollisionError.
const (
	NameColumn = "column"
	NameTable  = "table"
)
