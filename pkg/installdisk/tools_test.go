package installdisk_test

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/bootstick/pkg/datasizes"
	"github.com/osbuild/bootstick/pkg/disk"
	"github.com/osbuild/bootstick/pkg/installdisk"
)

// fakeRunner records tool invocations and fails the tools it is told to.
type fakeRunner struct {
	calls [][]string
	fail  map[string]error
}

func (r *fakeRunner) Run(name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	if err := r.fail[name]; err != nil {
		return err
	}
	return nil
}

func (r *fakeRunner) callsTo(name string) [][]string {
	var out [][]string
	for _, c := range r.calls {
		if c[0] == name {
			out = append(out, c)
		}
	}
	return out
}

func TestBootSectorFlag(t *testing.T) {
	cases := []struct {
		version string
		flag    string
	}{
		{"5.2", "/nt52"},
		{"6.0", "/nt60"},
		{"6.1", "/nt60"},
		{"10.0", "/nt60"},
	}
	for _, c := range cases {
		flag, err := installdisk.BootSectorFlag(c.version)
		require.NoError(t, err)
		assert.Equal(t, c.flag, flag, "version %s", c.version)
	}

	_, err := installdisk.BootSectorFlag("vista")
	assert.Error(t, err)
}

func TestPartitionRunsScript(t *testing.T) {
	runner := &fakeRunner{}
	tools := installdisk.NewToolsWithRunner(installdisk.DefaultToolConfig(), runner)

	pt := disk.NewInstallPartitionTable(2*datasizes.GiB, "Y:", "Z:")
	require.NoError(t, tools.Partition(pt, 1))

	calls := runner.callsTo("diskpart.exe")
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 3)
	assert.Equal(t, "/s", calls[0][1])

	// the script file is gone once the call returns
	_, err := os.Stat(calls[0][2])
	assert.True(t, os.IsNotExist(err))
}

func TestInstallBootSector(t *testing.T) {
	runner := &fakeRunner{}
	tools := installdisk.NewToolsWithRunner(installdisk.DefaultToolConfig(), runner)

	require.NoError(t, tools.InstallBootSector("Y:", "10.0"))
	calls := runner.callsTo("bootsect.exe")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"bootsect.exe", "/nt60", "Y:", "/force", "/mbr"}, calls[0])
}

func TestCopyTreeToleratesPartialSuccessCodes(t *testing.T) {
	// the copy tool reports success through exit codes 0-7
	exitErr := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, exitErr)

	runner := &fakeRunner{fail: map[string]error{
		"robocopy.exe": fmt.Errorf("robocopy.exe failed: %w", exitErr),
	}}
	tools := installdisk.NewToolsWithRunner(installdisk.DefaultToolConfig(), runner)
	assert.NoError(t, tools.CopyTree(`E:\sources`, `Z:\sources`))
}

func TestCopyTreeRealFailure(t *testing.T) {
	exitErr := exec.Command("sh", "-c", "exit 16").Run()
	require.Error(t, exitErr)

	runner := &fakeRunner{fail: map[string]error{
		"robocopy.exe": fmt.Errorf("robocopy.exe failed: %w", exitErr),
	}}
	tools := installdisk.NewToolsWithRunner(installdisk.DefaultToolConfig(), runner)
	assert.Error(t, tools.CopyTree(`E:\sources`, `Z:\sources`))
}

func TestCopyTreeNonExitError(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"robocopy.exe": errors.New("executable file not found"),
	}}
	tools := installdisk.NewToolsWithRunner(installdisk.DefaultToolConfig(), runner)
	assert.Error(t, tools.CopyTree(`E:\sources`, `Z:\sources`))
}

func TestMountUnmountImage(t *testing.T) {
	runner := &fakeRunner{}
	tools := installdisk.NewToolsWithRunner(installdisk.DefaultToolConfig(), runner)

	require.NoError(t, tools.MountImage(`Z:\x\sources\boot.wim`, 1, `C:\mnt`))
	require.NoError(t, tools.UnmountImage(`C:\mnt`, true))
	require.NoError(t, tools.UnmountImage(`C:\mnt`, false))

	calls := runner.callsTo("dism.exe")
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"dism.exe", "/Mount-Wim", `/WimFile:Z:\x\sources\boot.wim`, "/Index:1", `/MountDir:C:\mnt`}, calls[0])
	assert.Equal(t, "/Commit", calls[1][3])
	assert.Equal(t, "/Discard", calls[2][3])
}

func TestWriteLaunchConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, installdisk.WriteLaunchConfig(root, "win11"))

	ini, err := os.ReadFile(filepath.Join(root, "Windows", "System32", "winpeshl.ini"))
	require.NoError(t, err)
	assert.Contains(t, string(ini), "[LaunchApps]")
	assert.Contains(t, string(ini), `startinstall.cmd`)

	script, err := os.ReadFile(filepath.Join(root, "Windows", "System32", "startinstall.cmd"))
	require.NoError(t, err)
	assert.Contains(t, string(script), `win11\sources\setup.exe`)
	assert.Contains(t, string(script), "for %%d in (C D E F G H I J K L M")
}
