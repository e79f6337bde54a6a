package bcd

import (
	"fmt"

	"github.com/google/uuid"
)

// Well-known object identity and classification constants.
var (
	// DefaultBootLoaderID is the template loader object present in every
	// installation store. New loader entries are only ever copied from it,
	// never built from scratch, because the template carries implicit
	// elements this package does not set.
	DefaultBootLoaderID = uuid.MustParse("7619dcc9-fafe-11d9-b411-000476eba25f")
)

const (
	// BootManagerObjectType classifies the boot manager application object.
	BootManagerObjectType uint32 = 0x10100002
	// OSLoaderObjectType classifies OS loader application objects.
	OSLoaderObjectType uint32 = 0x10200003
)

// Service is the platform's object/element query-and-mutate surface over a
// boot configuration store file. The store format itself is opaque; all
// access is keyed by store path, object GUID and element type code.
//
// CopyObject can only copy an object from a *different* store file into the
// target store, never within one file. The Store layer works around this
// with a snapshot of the target (see Store.CopyObject).
type Service interface {
	// StoreExists reports whether a store can be opened at path.
	StoreExists(path string) (bool, error)

	// EnumerateObjects lists the ids of all objects of the given object
	// type in the store.
	EnumerateObjects(storePath string, objectType uint32) ([]uuid.UUID, error)

	// ObjectExists reports whether the object can be opened in the store.
	ObjectExists(storePath string, id uuid.UUID) (bool, error)

	// CopyObject copies one object from the source store file into the
	// target store and returns the ids the service reports for the copy.
	CopyObject(targetStorePath, sourceStorePath string, sourceID uuid.UUID) ([]uuid.UUID, error)

	// GetElement fetches one element; found is false when the object has
	// no element with that code.
	GetElement(storePath string, objectID uuid.UUID, code ElementCode) (elem Element, found bool, err error)

	SetIntegerElement(storePath string, objectID uuid.UUID, code ElementCode, value int64) error
	SetBooleanElement(storePath string, objectID uuid.UUID, code ElementCode, value bool) error
	SetStringElement(storePath string, objectID uuid.UUID, code ElementCode, value string) error
	SetFileDeviceElement(storePath string, objectID uuid.UUID, code ElementCode, device Device) error
	SetObjectListElement(storePath string, objectID uuid.UUID, code ElementCode, ids []uuid.UUID) error
}

// Element is a typed value keyed by a 32-bit element code. The value kind is
// fixed by the code's format; accessors reject any mismatch at the boundary.
type Element struct {
	Code  ElementCode
	value any
}

func NewIntegerElement(code ElementCode, v int64) Element {
	return Element{Code: code, value: v}
}

func NewBooleanElement(code ElementCode, v bool) Element {
	return Element{Code: code, value: v}
}

func NewStringElement(code ElementCode, v string) Element {
	return Element{Code: code, value: v}
}

func NewDeviceElement(code ElementCode, v Device) Element {
	return Element{Code: code, value: v}
}

func NewObjectListElement(code ElementCode, ids []uuid.UUID) Element {
	return Element{Code: code, value: ids}
}

func (e Element) kindError(want Format) error {
	return fmt.Errorf("element %s holds a format-%x value, not format-%x", e.Code, e.Code.Format(), want)
}

func (e Element) AsInteger() (int64, error) {
	v, ok := e.value.(int64)
	if !ok {
		return 0, e.kindError(FormatInteger)
	}
	return v, nil
}

func (e Element) AsBoolean() (bool, error) {
	v, ok := e.value.(bool)
	if !ok {
		return false, e.kindError(FormatBoolean)
	}
	return v, nil
}

func (e Element) AsString() (string, error) {
	v, ok := e.value.(string)
	if !ok {
		return "", e.kindError(FormatString)
	}
	return v, nil
}

func (e Element) AsDevice() (Device, error) {
	v, ok := e.value.(Device)
	if !ok {
		return Device{}, e.kindError(FormatDevice)
	}
	return v, nil
}

// AsObjectList returns a copy of the element's ordered id list. Order and
// duplicates are both significant; they drive boot menu display order.
func (e Element) AsObjectList() ([]uuid.UUID, error) {
	v, ok := e.value.([]uuid.UUID)
	if !ok {
		return nil, e.kindError(FormatObjectList)
	}
	out := make([]uuid.UUID, len(v))
	copy(out, v)
	return out, nil
}
