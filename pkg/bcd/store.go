package bcd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Store is an opened handle bound to one on-disk store file. The underlying
// service owns the store lifetime; there is nothing to close. A store file
// must not be operated on by more than one Store at a time.
type Store struct {
	svc  Service
	path string
}

// OpenStore opens the store at path through the given service.
func OpenStore(svc Service, path string) (*Store, error) {
	ok, err := svc.StoreExists(path)
	if err != nil {
		return nil, fmt.Errorf("opening store %q: %w", path, err)
	}
	if !ok {
		return nil, &StoreNotFoundError{Path: path}
	}
	return &Store{svc: svc, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Object is one GUID-identified object inside a store.
type Object struct {
	store *Store
	id    uuid.UUID
}

func (o *Object) ID() uuid.UUID {
	return o.id
}

// OpenObject opens the object with the given id.
func (s *Store) OpenObject(id uuid.UUID) (*Object, error) {
	ok, err := s.svc.ObjectExists(s.path, id)
	if err != nil {
		return nil, fmt.Errorf("opening object {%s} in store %q: %w", id, s.path, err)
	}
	if !ok {
		return nil, &ObjectNotFoundError{Path: s.path, ID: id}
	}
	return &Object{store: s, id: id}, nil
}

// OpenDefaultBootLoader opens the well-known loader template object.
func (s *Store) OpenDefaultBootLoader() (*Object, error) {
	return s.OpenObject(DefaultBootLoaderID)
}

// BootManager returns the store's boot manager object. A store has exactly
// one by platform convention; this package only consumes it.
func (s *Store) BootManager() (*Object, error) {
	ids, err := s.svc.EnumerateObjects(s.path, BootManagerObjectType)
	if err != nil {
		return nil, fmt.Errorf("enumerating boot manager objects in store %q: %w", s.path, err)
	}
	if len(ids) == 0 {
		return nil, &NoBootManagerError{Path: s.path}
	}
	return &Object{store: s, id: ids[0]}, nil
}

// CopyObject copies the object with sourceID into this store and returns the
// new object's id.
//
// The service can only copy an object from a different store file, never
// within one. CopyObject therefore snapshots the store file to a temporary
// sibling, copies from the snapshot, and removes the snapshot again. The
// snapshot is removed on every exit path, including failures.
func (s *Store) CopyObject(sourceID uuid.UUID) (uuid.UUID, error) {
	snapshot := fmt.Sprintf("%s.copysrc-%d", s.path, os.Getpid())
	if err := copyFile(s.path, snapshot); err != nil {
		return uuid.Nil, fmt.Errorf("snapshotting store %q: %w", s.path, err)
	}
	defer os.Remove(snapshot)

	ids, err := s.svc.CopyObject(s.path, snapshot, sourceID)
	if err != nil {
		return uuid.Nil, &CopyFailedError{Path: s.path, Source: sourceID, Err: err}
	}
	if len(ids) != 1 {
		return uuid.Nil, &CopyFailedError{
			Path:   s.path,
			Source: sourceID,
			Err:    fmt.Errorf("copy returned %d object ids, want exactly 1", len(ids)),
		}
	}
	return ids[0], nil
}

// Element fetches the element with the given symbolic type name.
func (o *Object) Element(typeName string) (Element, error) {
	code, err := Lookup(typeName)
	if err != nil {
		return Element{}, err
	}
	elem, found, err := o.store.svc.GetElement(o.store.path, o.id, code)
	if err != nil {
		return Element{}, fmt.Errorf("reading element %s of object {%s} in store %q: %w", code, o.id, o.store.path, err)
	}
	if !found {
		return Element{}, &ElementNotFoundError{Path: o.store.path, ID: o.id, Code: code}
	}
	return elem, nil
}

// The setters below are idempotent overwrites. A prior value is fully
// replaced; there are no merge semantics.

func (o *Object) SetIntegerElement(typeName string, value int64) error {
	code, err := Lookup(typeName)
	if err != nil {
		return err
	}
	if err := o.store.svc.SetIntegerElement(o.store.path, o.id, code, value); err != nil {
		return &ElementWriteError{Path: o.store.path, ID: o.id, Code: code, Err: err}
	}
	return nil
}

func (o *Object) SetBooleanElement(typeName string, value bool) error {
	code, err := Lookup(typeName)
	if err != nil {
		return err
	}
	if err := o.store.svc.SetBooleanElement(o.store.path, o.id, code, value); err != nil {
		return &ElementWriteError{Path: o.store.path, ID: o.id, Code: code, Err: err}
	}
	return nil
}

func (o *Object) SetStringElement(typeName string, value string) error {
	code, err := Lookup(typeName)
	if err != nil {
		return err
	}
	if err := o.store.svc.SetStringElement(o.store.path, o.id, code, value); err != nil {
		return &ElementWriteError{Path: o.store.path, ID: o.id, Code: code, Err: err}
	}
	return nil
}

func (o *Object) SetFileDeviceElement(typeName string, device Device) error {
	code, err := Lookup(typeName)
	if err != nil {
		return err
	}
	if err := o.store.svc.SetFileDeviceElement(o.store.path, o.id, code, device); err != nil {
		return &ElementWriteError{Path: o.store.path, ID: o.id, Code: code, Err: err}
	}
	return nil
}

func (o *Object) SetObjectListElement(typeName string, ids []uuid.UUID) error {
	code, err := Lookup(typeName)
	if err != nil {
		return err
	}
	if err := o.store.svc.SetObjectListElement(o.store.path, o.id, code, ids); err != nil {
		return &ElementWriteError{Path: o.store.path, ID: o.id, Code: code, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Join(err, os.Remove(dst))
	}
	return out.Close()
}
