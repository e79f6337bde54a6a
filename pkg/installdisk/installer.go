package installdisk

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/osbuild/bootstick/pkg/bcd"
	"github.com/osbuild/bootstick/pkg/devpath"
)

// AddInstaller appends another installer to an existing disk. The payload
// goes under its own subdirectory on the installer volume, and the boot
// image is customized to search every drive letter for that subdirectory at
// boot time, because the letter the boot environment assigns is not
// predictable. The entry is then registered in every store on the disk.
func (w *Workflow) AddInstaller(d *InstallDisk, name, sourceRoot string, layout *Layout) error {
	return w.addInstaller(d, name, sourceRoot, layout, true)
}

// AddWdsInstaller appends a deployment-services boot image. The image pulls
// everything beyond itself from the deployment server at boot, so unlike
// AddInstaller nothing inside it needs customizing.
func (w *Workflow) AddWdsInstaller(d *InstallDisk, name, sourceRoot string, layout *Layout) error {
	return w.addInstaller(d, name, sourceRoot, layout, false)
}

func (w *Workflow) addInstaller(d *InstallDisk, name, sourceRoot string, layout *Layout, customize bool) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, `\/:`) {
		return fmt.Errorf("%q is not a valid installer name", name)
	}

	destDir := winJoin(d.InstallerVolume, name)
	if _, err := os.Stat(destDir); err == nil {
		return fmt.Errorf("installer directory %q already exists", destDir)
	}

	logrus.Infof("adding installer %q to %s", name, d.InstallerVolume)
	for _, dir := range layout.PayloadDirs {
		if err := w.tools.CopyTree(winJoin(sourceRoot, dir), winJoin(destDir, dir)); err != nil {
			return fmt.Errorf("copying payload %q: %w", dir, err)
		}
	}

	imagePath := winJoin(destDir, layout.Image.Path)
	if customize {
		if err := w.customizeImage(imagePath, layout.Image.Index, name); err != nil {
			return fmt.Errorf("customizing image %q: %w", imagePath, err)
		}
	}

	stores := d.StorePaths()
	if len(stores) == 0 {
		return fmt.Errorf("no configuration stores found on boot volume %s", d.BootVolume)
	}
	return bcd.AddBootEntry(w.svc, stores, layout.Image.Description, imagePath, devpath.Split, w.resolver)
}

// customizeImage mounts the boot image, drops the launch configuration in
// and dismounts with the edits saved. A failed edit discards the mount
// instead; the edit error wins over any discard error.
func (w *Workflow) customizeImage(imagePath string, index int, subdir string) error {
	mountDir, err := os.MkdirTemp("", "bootstick-mount-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(mountDir)

	if err := w.tools.MountImage(imagePath, index, mountDir); err != nil {
		return err
	}
	if err := WriteLaunchConfig(mountDir, subdir); err != nil {
		if derr := w.tools.UnmountImage(mountDir, false); derr != nil {
			logrus.Warnf("discarding image edits failed: %v", derr)
		}
		return err
	}
	return w.tools.UnmountImage(mountDir, true)
}
