package installdisk

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/osbuild/bootstick/pkg/datasizes"
)

// ToolConfig names the external collaborators and a few defaults. All
// fields have working defaults; a config file only needs the overrides.
type ToolConfig struct {
	Diskpart string `toml:"diskpart"`
	Bootsect string `toml:"bootsect"`
	Robocopy string `toml:"robocopy"`
	Dism     string `toml:"dism"`

	// MenuTimeout is the boot menu timeout in seconds set on fresh disks.
	MenuTimeout int64 `toml:"menu_timeout"`
	// BootVolumeSize is the size of the FAT boot partition.
	BootVolumeSize datasizes.Size `toml:"boot_volume_size"`
}

func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		Diskpart:    "diskpart.exe",
		Bootsect:    "bootsect.exe",
		Robocopy:    "robocopy.exe",
		Dism:        "dism.exe",
		MenuTimeout: 10,
	}
}

// LoadToolConfig reads a TOML config file, filling unset fields with
// defaults. A missing file yields the defaults.
func LoadToolConfig(path string) (ToolConfig, error) {
	cfg := DefaultToolConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading tool config %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("tool config %q has unknown keys: %v", path, undecoded)
	}
	return cfg, nil
}
