package bcd

import (
	"github.com/sirupsen/logrus"
)

// AddBootEntry registers one new boot menu entry in every given store.
//
// Per store it copies the default loader template, points the copy at
// imagePath, sets its description and appends it to the boot menu. Stores
// are processed one at a time, fail-fast and without cross-store rollback:
// a failure leaves earlier stores fully updated and later ones untouched.
// Within one store a failure between the copy and the menu append can leave
// a loader object no menu references; such an orphan is harmless.
func AddBootEntry(svc Service, storePaths []string, description, imagePath string, split PathSplitter, resolver Resolver) error {
	for _, path := range storePaths {
		store, err := OpenStore(svc, path)
		if err != nil {
			return err
		}

		newID, err := store.CopyObject(DefaultBootLoaderID)
		if err != nil {
			return err
		}
		loader, err := store.OpenObject(newID)
		if err != nil {
			return err
		}

		if err := SetOSLoaderDevice(loader, imagePath, split, resolver); err != nil {
			return err
		}
		if err := SetOSLoaderDescription(loader, description); err != nil {
			return err
		}
		if err := AddBootManagerMenuEntry(store, newID); err != nil {
			return err
		}

		logrus.Debugf("added boot entry {%s} (%s) to store %s", newID, description, path)
	}
	return nil
}
