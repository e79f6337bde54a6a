package installdisk

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/osbuild/bootstick/pkg/bcd"
	"github.com/osbuild/bootstick/pkg/devpath"
	"github.com/osbuild/bootstick/pkg/disk"
)

// Workflow sequences install disk operations. Every step is a synchronous
// call to the store service or an external tool; the first error aborts the
// rest of the sequence. There is no rollback of steps already committed to
// disk.
type Workflow struct {
	svc      bcd.Service
	tools    *Tools
	resolver bcd.Resolver
}

func NewWorkflow(svc bcd.Service, tools *Tools, resolver bcd.Resolver) *Workflow {
	return &Workflow{svc: svc, tools: tools, resolver: resolver}
}

// Initialize produces a fresh install disk: wipe and partition the disk,
// install the BIOS boot sector, copy the boot and payload file sets from
// the source media, then register the first installer in every
// configuration store found on the boot volume.
func (w *Workflow) Initialize(diskIndex int, sourceRoot string, layout *Layout, target InstallDisk) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if target.BootVolume == "" || target.InstallerVolume == "" {
		return fmt.Errorf("both target drive letters must be set")
	}

	logrus.Infof("initializing install disk %d as %s + %s", diskIndex, target.BootVolume, target.InstallerVolume)

	pt := disk.NewInstallPartitionTable(w.tools.cfg.BootVolumeSize.Uint64(), target.BootVolume, target.InstallerVolume)
	if err := w.tools.Partition(pt, diskIndex); err != nil {
		return fmt.Errorf("partitioning disk %d: %w", diskIndex, err)
	}
	if err := w.tools.InstallBootSector(target.BootVolume, layout.Image.WindowsVersion); err != nil {
		return fmt.Errorf("installing boot sector on %s: %w", target.BootVolume, err)
	}

	for _, dir := range layout.BootDirs {
		if err := w.tools.CopyTree(winJoin(sourceRoot, dir), winJoin(target.BootVolume, dir)); err != nil {
			return fmt.Errorf("copying boot files %q: %w", dir, err)
		}
	}
	for _, dir := range layout.PayloadDirs {
		if err := w.tools.CopyTree(winJoin(sourceRoot, dir), winJoin(target.InstallerVolume, dir)); err != nil {
			return fmt.Errorf("copying payload %q: %w", dir, err)
		}
	}

	stores := target.StorePaths()
	if len(stores) == 0 {
		return fmt.Errorf("no configuration stores found on boot volume %s", target.BootVolume)
	}
	for _, path := range stores {
		store, err := bcd.OpenStore(w.svc, path)
		if err != nil {
			return err
		}
		if err := bcd.SetBootManagerTimeout(store, w.tools.cfg.MenuTimeout); err != nil {
			return err
		}
		if err := bcd.SetBootManagerMenu(store, true); err != nil {
			return err
		}
	}

	imagePath := winJoin(target.InstallerVolume, layout.Image.Path)
	logrus.Infof("registering %q in %d store(s)", layout.Image.Description, len(stores))
	return bcd.AddBootEntry(w.svc, stores, layout.Image.Description, imagePath, devpath.Split, w.resolver)
}
