package installdisk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/bootstick/pkg/installdisk"
)

func TestLoadToolConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := installdisk.LoadToolConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, installdisk.DefaultToolConfig(), cfg)
	assert.Equal(t, int64(10), cfg.MenuTimeout)
}

func TestLoadToolConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
diskpart = "C:\\tools\\diskpart.exe"
menu_timeout = 30
boot_volume_size = "4 GiB"
`), 0600))

	cfg, err := installdisk.LoadToolConfig(path)
	require.NoError(t, err)
	assert.Equal(t, `C:\tools\diskpart.exe`, cfg.Diskpart)
	assert.Equal(t, int64(30), cfg.MenuTimeout)
	assert.EqualValues(t, 4*1024*1024*1024, cfg.BootVolumeSize)
	// untouched fields keep their defaults
	assert.Equal(t, "bootsect.exe", cfg.Bootsect)
}

func TestLoadToolConfigUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.toml")
	require.NoError(t, os.WriteFile(path, []byte(`disk_part = "x"`), 0600))

	_, err := installdisk.LoadToolConfig(path)
	assert.ErrorContains(t, err, "unknown keys")
}
