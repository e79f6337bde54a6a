// Package installdisk sequences the creation and extension of multi-boot
// install disks. Partitioning, formatting, boot-sector installation, file
// copy and image servicing are all external tools; this package turns the
// drive letters and paths they hand back into boot-time device descriptors
// and consistent menu state across every configuration store on the disk.
package installdisk

import (
	"fmt"
	"os"
	"strings"
)

// An InstallDisk pairs a boot volume (small FAT partition holding the boot
// files and configuration stores) and an installer volume (large NTFS
// partition holding installation payloads), identified by drive letters.
// It has no persistence of its own beyond the two volumes it names.
type InstallDisk struct {
	BootVolume      string
	InstallerVolume string
}

// Well-known paths on the boot volume. There is one store replica per
// firmware flavor; both replicate the same menu.
const (
	legacyStoreRelPath = `\boot\bcd`
	uefiStoreRelPath   = `\efi\microsoft\boot\bcd`
)

// StorePaths returns the configuration store replicas present on the boot
// volume, legacy store first.
func (d *InstallDisk) StorePaths() []string {
	var paths []string
	for _, rel := range []string{legacyStoreRelPath, uefiStoreRelPath} {
		p := d.BootVolume + rel
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// winJoin joins path elements with backslashes. The paths this package
// builds are consumed by windows tools and boot records regardless of the
// OS the tests run on, so filepath.Join is the wrong tool.
func winJoin(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		parts = append(parts, strings.Trim(e, `\`))
	}
	return strings.Join(parts, `\`)
}

// GetInstallDisk probes the given drive letters for a previously
// initialized install disk: the boot volume is recognized by its legacy
// store, the installer volume by its sources directory.
func GetInstallDisk(letters []string) (*InstallDisk, error) {
	var d InstallDisk
	for _, letter := range letters {
		if _, err := os.Stat(letter + legacyStoreRelPath); err == nil && d.BootVolume == "" {
			d.BootVolume = letter
			continue
		}
		if fi, err := os.Stat(letter + `\sources`); err == nil && fi.IsDir() && d.InstallerVolume == "" {
			d.InstallerVolume = letter
		}
	}
	if d.BootVolume == "" || d.InstallerVolume == "" {
		return nil, fmt.Errorf("no install disk found on drives %s", strings.Join(letters, " "))
	}
	return &d, nil
}

// GetUSBDisk discovers an install disk on the removable drives currently
// attached.
func GetUSBDisk() (*InstallDisk, error) {
	letters, err := removableDrives()
	if err != nil {
		return nil, err
	}
	if len(letters) == 0 {
		return nil, fmt.Errorf("no removable drives attached")
	}
	return GetInstallDisk(letters)
}
