package bcd

import (
	"errors"

	"github.com/google/uuid"
)

// Resolver turns a bare drive letter qualifier ("E:") into the stable device
// path the boot environment understands.
type Resolver interface {
	Resolve(driveLetter string) (string, error)
}

// PathSplitter splits a full path into its drive-letter qualifier and the
// remainder relative to the volume root.
type PathSplitter func(path string) (qualifier, rest string, err error)

// SetBootManagerTimeout sets the boot menu timeout in seconds.
func SetBootManagerTimeout(store *Store, seconds int64) error {
	mgr, err := store.BootManager()
	if err != nil {
		return err
	}
	return mgr.SetIntegerElement("Timeout", seconds)
}

// SetBootManagerMenu controls whether the boot menu is displayed.
func SetBootManagerMenu(store *Store, display bool) error {
	mgr, err := store.BootManager()
	if err != nil {
		return err
	}
	return mgr.SetBooleanElement("DisplayBootMenu", display)
}

// AddBootManagerMenuEntry appends id to the end of the boot manager's
// display order. Existing entries keep their positions; menu ordering is
// meaningful and prior entries must not be reordered.
func AddBootManagerMenuEntry(store *Store, id uuid.UUID) error {
	mgr, err := store.BootManager()
	if err != nil {
		return err
	}

	var order []uuid.UUID
	elem, err := mgr.Element("DisplayOrder")
	switch {
	case err == nil:
		order, err = elem.AsObjectList()
		if err != nil {
			return err
		}
	case errors.As(err, new(*ElementNotFoundError)):
		// first entry in a fresh store
	default:
		return err
	}

	return mgr.SetObjectListElement("DisplayOrder", append(order, id))
}

// SetOSLoaderDevice points the loader object at the boot image found at
// imagePath on the running system. The path is split into its drive-letter
// qualifier and volume-relative remainder, the qualifier is resolved to a
// stable device path, and both the application device and the OS device are
// written as file-on-partition descriptors.
func SetOSLoaderDevice(loader *Object, imagePath string, split PathSplitter, resolver Resolver) error {
	qualifier, rest, err := split(imagePath)
	if err != nil {
		return err
	}
	devicePath, err := resolver.Resolve(qualifier)
	if err != nil {
		return err
	}
	device := FileOnPartition(devicePath, rest)

	if err := loader.SetFileDeviceElement("ApplicationDevice", device); err != nil {
		return err
	}
	return loader.SetFileDeviceElement("OSDevice", device)
}

// SetOSLoaderDescription sets the loader's boot menu description.
func SetOSLoaderDescription(loader *Object, description string) error {
	return loader.SetStringElement("Description", description)
}
