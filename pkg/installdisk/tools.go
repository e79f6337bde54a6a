package installdisk

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	version "github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"

	"github.com/osbuild/bootstick/pkg/disk"
)

// Runner executes one external tool invocation and waits for it. Failures
// are surfaced unchanged; there are no retries anywhere in this package.
type Runner interface {
	Run(name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) error {
	logrus.Debugf("running %s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\noutput:\n%s", name, err, output)
	}
	return nil
}

// Tools wraps the external collaborators behind task-shaped calls.
type Tools struct {
	cfg    ToolConfig
	runner Runner
}

func NewTools(cfg ToolConfig) *Tools {
	return &Tools{cfg: cfg, runner: execRunner{}}
}

// NewToolsWithRunner is for tests.
func NewToolsWithRunner(cfg ToolConfig, r Runner) *Tools {
	return &Tools{cfg: cfg, runner: r}
}

// Partition wipes the disk with the given index and applies the layout. The
// partitioning tool only takes its commands from a script file.
func (t *Tools) Partition(pt *disk.PartitionTable, diskIndex int) error {
	script, err := pt.DiskpartScript(diskIndex)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "diskpart-*.txt")
	if err != nil {
		return fmt.Errorf("writing partition script: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return fmt.Errorf("writing partition script: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing partition script: %w", err)
	}

	return t.runner.Run(t.cfg.Diskpart, "/s", f.Name())
}

// BootSectorFlag picks the boot code revision for a windows version: nt52
// below 6.0, nt60 from 6.0 on.
func BootSectorFlag(windowsVersion string) (string, error) {
	v, err := version.NewVersion(windowsVersion)
	if err != nil {
		return "", fmt.Errorf("parsing windows version %q: %w", windowsVersion, err)
	}
	if v.LessThan(version.Must(version.NewVersion("6.0"))) {
		return "/nt52", nil
	}
	return "/nt60", nil
}

// InstallBootSector writes a master-boot-record compatible loader onto the
// boot volume.
func (t *Tools) InstallBootSector(bootVolume, windowsVersion string) error {
	flag, err := BootSectorFlag(windowsVersion)
	if err != nil {
		return err
	}
	return t.runner.Run(t.cfg.Bootsect, flag, bootVolume, "/force", "/mbr")
}

// CopyTree mirrors a directory tree. The copy tool reports partial-success
// conditions through exit codes below 8; only 8 and up are failures.
func (t *Tools) CopyTree(src, dst string) error {
	err := t.runner.Run(t.cfg.Robocopy, src, dst, "/e")
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() < 8 {
		return nil
	}
	return err
}

// MountImage mounts one image of a bootable image file at mountDir for
// in-place edits.
func (t *Tools) MountImage(imagePath string, index int, mountDir string) error {
	return t.runner.Run(t.cfg.Dism,
		"/Mount-Wim",
		fmt.Sprintf("/WimFile:%s", imagePath),
		fmt.Sprintf("/Index:%d", index),
		fmt.Sprintf("/MountDir:%s", mountDir),
	)
}

// UnmountImage dismounts a mounted image, saving or discarding the edits.
func (t *Tools) UnmountImage(mountDir string, commit bool) error {
	action := "/Discard"
	if commit {
		action = "/Commit"
	}
	return t.runner.Run(t.cfg.Dism,
		"/Unmount-Wim",
		fmt.Sprintf("/MountDir:%s", mountDir),
		action,
	)
}
