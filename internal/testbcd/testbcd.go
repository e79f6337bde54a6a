// Package testbcd provides an in-memory fake of the boot configuration
// store service for tests. It is a helper to exercise the store access
// layer and the workflows on top of it without a windows host.
//
// A fake store file on disk holds only an opaque identity key; the object
// and element data live in the Fake. Byte-copying a store file therefore
// yields a second path addressing the same store data, which is exactly how
// the snapshot-assisted object copy expects the real provider to behave.
package testbcd

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/osbuild/bootstick/pkg/bcd"
)

type object struct {
	objectType uint32
	elements   map[bcd.ElementCode]bcd.Element
}

type store struct {
	objects map[uuid.UUID]*object
}

// Fake implements bcd.Service against in-memory stores.
type Fake struct {
	stores map[string]*store

	// FailCopy, when set, makes every CopyObject call fail with it.
	FailCopy error
	// FailWrites, when set, makes every element write fail with it.
	FailWrites error
}

func New() *Fake {
	return &Fake{stores: make(map[string]*store)}
}

// CreateStore creates a store file at path seeded the way an installation
// store is: one boot manager object and the default loader template.
func (f *Fake) CreateStore(path string) error {
	key := uuid.New().String()
	if err := os.WriteFile(path, []byte(key), 0600); err != nil {
		return err
	}

	s := &store{objects: make(map[uuid.UUID]*object)}
	s.objects[uuid.New()] = &object{
		objectType: bcd.BootManagerObjectType,
		elements:   make(map[bcd.ElementCode]bcd.Element),
	}
	s.objects[bcd.DefaultBootLoaderID] = &object{
		objectType: bcd.OSLoaderObjectType,
		elements:   make(map[bcd.ElementCode]bcd.Element),
	}
	f.stores[key] = s
	return nil
}

// CreateEmptyStore creates a store file at path with no objects at all,
// not even a boot manager.
func (f *Fake) CreateEmptyStore(path string) error {
	key := uuid.New().String()
	if err := os.WriteFile(path, []byte(key), 0600); err != nil {
		return err
	}
	f.stores[key] = &store{objects: make(map[uuid.UUID]*object)}
	return nil
}

// open resolves a store path by reading the identity key from the file.
func (f *Fake) open(path string) (*store, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, ok := f.stores[string(key)]
	if !ok {
		return nil, fmt.Errorf("no store registered for %q", path)
	}
	return s, nil
}

func (f *Fake) StoreExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	_, err := f.open(path)
	return err == nil, nil
}

func (f *Fake) EnumerateObjects(storePath string, objectType uint32) ([]uuid.UUID, error) {
	s, err := f.open(storePath)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for id, obj := range s.objects {
		if obj.objectType == objectType {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *Fake) ObjectExists(storePath string, id uuid.UUID) (bool, error) {
	s, err := f.open(storePath)
	if err != nil {
		return false, err
	}
	_, ok := s.objects[id]
	return ok, nil
}

func (f *Fake) CopyObject(targetStorePath, sourceStorePath string, sourceID uuid.UUID) ([]uuid.UUID, error) {
	if f.FailCopy != nil {
		return nil, f.FailCopy
	}
	// the real provider refuses to copy within one store file
	if targetStorePath == sourceStorePath {
		return nil, fmt.Errorf("cannot copy an object within store file %q", targetStorePath)
	}
	target, err := f.open(targetStorePath)
	if err != nil {
		return nil, err
	}
	source, err := f.open(sourceStorePath)
	if err != nil {
		return nil, err
	}
	src, ok := source.objects[sourceID]
	if !ok {
		return nil, fmt.Errorf("source object {%s} not found", sourceID)
	}

	cp := &object{
		objectType: src.objectType,
		elements:   make(map[bcd.ElementCode]bcd.Element, len(src.elements)),
	}
	for code, elem := range src.elements {
		cp.elements[code] = elem
	}
	newID := uuid.New()
	target.objects[newID] = cp
	return []uuid.UUID{newID}, nil
}

func (f *Fake) GetElement(storePath string, objectID uuid.UUID, code bcd.ElementCode) (bcd.Element, bool, error) {
	obj, err := f.lookupObject(storePath, objectID)
	if err != nil {
		return bcd.Element{}, false, err
	}
	elem, ok := obj.elements[code]
	return elem, ok, nil
}

func (f *Fake) lookupObject(storePath string, objectID uuid.UUID) (*object, error) {
	s, err := f.open(storePath)
	if err != nil {
		return nil, err
	}
	obj, ok := s.objects[objectID]
	if !ok {
		return nil, fmt.Errorf("object {%s} not found", objectID)
	}
	return obj, nil
}

func (f *Fake) set(storePath string, objectID uuid.UUID, code bcd.ElementCode, want bcd.Format, elem bcd.Element) error {
	if f.FailWrites != nil {
		return f.FailWrites
	}
	if code.Format() != want {
		return fmt.Errorf("element %s has format %x, setter writes format %x", code, code.Format(), want)
	}
	obj, err := f.lookupObject(storePath, objectID)
	if err != nil {
		return err
	}
	obj.elements[code] = elem
	return nil
}

func (f *Fake) SetIntegerElement(storePath string, objectID uuid.UUID, code bcd.ElementCode, value int64) error {
	return f.set(storePath, objectID, code, bcd.FormatInteger, bcd.NewIntegerElement(code, value))
}

func (f *Fake) SetBooleanElement(storePath string, objectID uuid.UUID, code bcd.ElementCode, value bool) error {
	return f.set(storePath, objectID, code, bcd.FormatBoolean, bcd.NewBooleanElement(code, value))
}

func (f *Fake) SetStringElement(storePath string, objectID uuid.UUID, code bcd.ElementCode, value string) error {
	return f.set(storePath, objectID, code, bcd.FormatString, bcd.NewStringElement(code, value))
}

func (f *Fake) SetFileDeviceElement(storePath string, objectID uuid.UUID, code bcd.ElementCode, device bcd.Device) error {
	return f.set(storePath, objectID, code, bcd.FormatDevice, bcd.NewDeviceElement(code, device))
}

func (f *Fake) SetObjectListElement(storePath string, objectID uuid.UUID, code bcd.ElementCode, ids []uuid.UUID) error {
	cp := make([]uuid.UUID, len(ids))
	copy(cp, ids)
	return f.set(storePath, objectID, code, bcd.FormatObjectList, bcd.NewObjectListElement(code, cp))
}
