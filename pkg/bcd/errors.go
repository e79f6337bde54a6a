package bcd

import (
	"fmt"

	"github.com/google/uuid"
)

// StoreNotFoundError is returned by OpenStore when no store exists at the
// given path.
type StoreNotFoundError struct {
	Path string
}

func (e *StoreNotFoundError) Error() string {
	return fmt.Sprintf("no boot configuration store at %q", e.Path)
}

// NoBootManagerError is returned when a store contains no boot manager
// object. Every valid store has exactly one; this package never creates it.
type NoBootManagerError struct {
	Path string
}

func (e *NoBootManagerError) Error() string {
	return fmt.Sprintf("store %q contains no boot manager object", e.Path)
}

// ObjectNotFoundError is returned when an object GUID cannot be opened in a
// store.
type ObjectNotFoundError struct {
	Path string
	ID   uuid.UUID
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object {%s} not found in store %q", e.ID, e.Path)
}

// UnknownElementTypeError is returned by Lookup for any name outside the
// fixed element registry.
type UnknownElementTypeError struct {
	Name string
}

func (e *UnknownElementTypeError) Error() string {
	return fmt.Sprintf("unknown element type %q", e.Name)
}

// ElementNotFoundError is returned when an object has no element with the
// requested type code.
type ElementNotFoundError struct {
	Path string
	ID   uuid.UUID
	Code ElementCode
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("object {%s} in store %q has no element %s", e.ID, e.Path, e.Code)
}

// ElementWriteError is returned when the underlying store service reports a
// non-success result for an element write.
type ElementWriteError struct {
	Path string
	ID   uuid.UUID
	Code ElementCode
	Err  error
}

func (e *ElementWriteError) Error() string {
	return fmt.Sprintf("writing element %s of object {%s} in store %q failed: %v", e.Code, e.ID, e.Path, e.Err)
}

func (e *ElementWriteError) Unwrap() error {
	return e.Err
}

// CopyFailedError is returned when an object copy reports failure or yields
// anything other than exactly one new object id.
type CopyFailedError struct {
	Path   string
	Source uuid.UUID
	Err    error
}

func (e *CopyFailedError) Error() string {
	return fmt.Sprintf("copying object {%s} into store %q failed: %v", e.Source, e.Path, e.Err)
}

func (e *CopyFailedError) Unwrap() error {
	return e.Err
}
