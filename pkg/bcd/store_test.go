package bcd_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/bootstick/internal/testbcd"
	"github.com/osbuild/bootstick/pkg/bcd"
)

func makeStore(t *testing.T) (*testbcd.Fake, *bcd.Store) {
	t.Helper()
	fake := testbcd.New()
	path := filepath.Join(t.TempDir(), "bcd")
	require.NoError(t, fake.CreateStore(path))
	store, err := bcd.OpenStore(fake, path)
	require.NoError(t, err)
	return fake, store
}

func TestOpenStoreNotFound(t *testing.T) {
	fake := testbcd.New()
	path := filepath.Join(t.TempDir(), "bcd")

	_, err := bcd.OpenStore(fake, path)
	var notFound *bcd.StoreNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, path, notFound.Path)
}

func TestOpenObjectNotFound(t *testing.T) {
	_, store := makeStore(t)

	missing := uuid.New()
	_, err := store.OpenObject(missing)
	var notFound *bcd.ObjectNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, missing, notFound.ID)
}

func TestOpenDefaultBootLoader(t *testing.T) {
	_, store := makeStore(t)

	obj, err := store.OpenDefaultBootLoader()
	require.NoError(t, err)
	assert.Equal(t, bcd.DefaultBootLoaderID, obj.ID())
}

func TestBootManagerMissing(t *testing.T) {
	fake := testbcd.New()
	path := filepath.Join(t.TempDir(), "bcd")
	require.NoError(t, fake.CreateEmptyStore(path))
	store, err := bcd.OpenStore(fake, path)
	require.NoError(t, err)

	_, err = store.BootManager()
	var noMgr *bcd.NoBootManagerError
	require.ErrorAs(t, err, &noMgr)
	assert.Equal(t, path, noMgr.Path)
}

func TestCopyObjectReturnsFreshIDs(t *testing.T) {
	_, store := makeStore(t)

	first, err := store.CopyObject(bcd.DefaultBootLoaderID)
	require.NoError(t, err)
	second, err := store.CopyObject(bcd.DefaultBootLoaderID)
	require.NoError(t, err)

	assert.NotEqual(t, bcd.DefaultBootLoaderID, first)
	assert.NotEqual(t, bcd.DefaultBootLoaderID, second)
	assert.NotEqual(t, first, second)

	// both copies are real objects in the store
	_, err = store.OpenObject(first)
	assert.NoError(t, err)
	_, err = store.OpenObject(second)
	assert.NoError(t, err)
}

func snapshotsIn(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.copysrc-*"))
	require.NoError(t, err)
	return matches
}

func TestCopyObjectRemovesSnapshotOnSuccess(t *testing.T) {
	fake := testbcd.New()
	dir := t.TempDir()
	path := filepath.Join(dir, "bcd")
	require.NoError(t, fake.CreateStore(path))
	store, err := bcd.OpenStore(fake, path)
	require.NoError(t, err)

	_, err = store.CopyObject(bcd.DefaultBootLoaderID)
	require.NoError(t, err)
	assert.Empty(t, snapshotsIn(t, dir))
}

func TestCopyObjectRemovesSnapshotOnFailure(t *testing.T) {
	fake := testbcd.New()
	dir := t.TempDir()
	path := filepath.Join(dir, "bcd")
	require.NoError(t, fake.CreateStore(path))
	store, err := bcd.OpenStore(fake, path)
	require.NoError(t, err)

	fake.FailCopy = errors.New("provider said no")
	_, err = store.CopyObject(bcd.DefaultBootLoaderID)
	var copyErr *bcd.CopyFailedError
	require.ErrorAs(t, err, &copyErr)
	assert.Equal(t, bcd.DefaultBootLoaderID, copyErr.Source)
	assert.Empty(t, snapshotsIn(t, dir))

	// the store file itself survives
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestElementRoundTrips(t *testing.T) {
	_, store := makeStore(t)
	mgr, err := store.BootManager()
	require.NoError(t, err)

	require.NoError(t, mgr.SetIntegerElement("Timeout", 10))
	elem, err := mgr.Element("Timeout")
	require.NoError(t, err)
	v, err := elem.AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	require.NoError(t, mgr.SetBooleanElement("DisplayBootMenu", true))
	elem, err = mgr.Element("DisplayBootMenu")
	require.NoError(t, err)
	b, err := elem.AsBoolean()
	require.NoError(t, err)
	assert.True(t, b)

	loader, err := store.OpenDefaultBootLoader()
	require.NoError(t, err)
	require.NoError(t, loader.SetStringElement("Description", "Installer"))
	elem, err = loader.Element("Description")
	require.NoError(t, err)
	s, err := elem.AsString()
	require.NoError(t, err)
	assert.Equal(t, "Installer", s)
}

func TestSettersOverwrite(t *testing.T) {
	_, store := makeStore(t)
	mgr, err := store.BootManager()
	require.NoError(t, err)

	require.NoError(t, mgr.SetIntegerElement("Timeout", 30))
	require.NoError(t, mgr.SetIntegerElement("Timeout", 10))
	elem, err := mgr.Element("Timeout")
	require.NoError(t, err)
	v, err := elem.AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}

func TestElementNotFound(t *testing.T) {
	_, store := makeStore(t)
	mgr, err := store.BootManager()
	require.NoError(t, err)

	_, err = mgr.Element("Timeout")
	var notFound *bcd.ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, bcd.Timeout, notFound.Code)
}

func TestElementUnknownName(t *testing.T) {
	_, store := makeStore(t)
	mgr, err := store.BootManager()
	require.NoError(t, err)

	_, err = mgr.Element("NotAnElement")
	assert.ErrorAs(t, err, new(*bcd.UnknownElementTypeError))
	err = mgr.SetIntegerElement("NotAnElement", 1)
	assert.ErrorAs(t, err, new(*bcd.UnknownElementTypeError))
}

func TestElementWriteFailure(t *testing.T) {
	fake, store := makeStore(t)
	mgr, err := store.BootManager()
	require.NoError(t, err)

	fake.FailWrites = errors.New("write refused")
	err = mgr.SetIntegerElement("Timeout", 10)
	var writeErr *bcd.ElementWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, bcd.Timeout, writeErr.Code)
}

func TestSetterFormatMismatch(t *testing.T) {
	_, store := makeStore(t)
	mgr, err := store.BootManager()
	require.NoError(t, err)

	// Timeout is an integer element; a boolean write must be rejected
	err = mgr.SetBooleanElement("Timeout", true)
	assert.ErrorAs(t, err, new(*bcd.ElementWriteError))
}
