package installdisk_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/bootstick/pkg/installdisk"
)

// chdir moves the test into dir so that windows-style relative paths like
// `Y:\boot\bcd` land in a scratch directory.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestStorePaths(t *testing.T) {
	chdir(t, t.TempDir())
	d := &installdisk.InstallDisk{BootVolume: "Y:", InstallerVolume: "Z:"}

	assert.Empty(t, d.StorePaths())

	require.NoError(t, os.WriteFile(`Y:\boot\bcd`, []byte("legacy"), 0600))
	assert.Equal(t, []string{`Y:\boot\bcd`}, d.StorePaths())

	require.NoError(t, os.WriteFile(`Y:\efi\microsoft\boot\bcd`, []byte("uefi"), 0600))
	// legacy store first
	assert.Equal(t, []string{`Y:\boot\bcd`, `Y:\efi\microsoft\boot\bcd`}, d.StorePaths())
}

func TestGetInstallDisk(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(`Y:\boot\bcd`, []byte("legacy"), 0600))
	require.NoError(t, os.Mkdir(`Z:\sources`, 0755))

	d, err := installdisk.GetInstallDisk([]string{"X:", "Y:", "Z:"})
	require.NoError(t, err)
	assert.Equal(t, "Y:", d.BootVolume)
	assert.Equal(t, "Z:", d.InstallerVolume)
}

func TestGetInstallDiskNotFound(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := installdisk.GetInstallDisk([]string{"X:", "Y:"})
	assert.ErrorContains(t, err, "no install disk found")
}

func TestGetInstallDiskBootVolumeOnly(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(`Y:\boot\bcd`, []byte("legacy"), 0600))

	_, err := installdisk.GetInstallDisk([]string{"Y:"})
	assert.Error(t, err)
}
