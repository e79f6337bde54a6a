package installdisk

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout describes the source media: which directories land on which
// volume, and the boot image that starts the installer.
type Layout struct {
	// BootDirs are copied from the source root onto the boot volume.
	BootDirs []string `yaml:"boot_dirs"`
	// PayloadDirs are copied from the source root onto the installer
	// volume.
	PayloadDirs []string `yaml:"payload_dirs"`
	Image       Image    `yaml:"image"`
}

// Image names the bootable installer image within the payload.
type Image struct {
	// Description is the boot menu entry text.
	Description string `yaml:"description"`
	// Path is the image location relative to the payload root, e.g.
	// `sources\boot.wim`.
	Path string `yaml:"path"`
	// Index selects the image inside the file for servicing.
	Index int `yaml:"index"`
	// WindowsVersion drives the boot-sector flavor selection.
	WindowsVersion string `yaml:"windows_version"`
}

// DefaultLayout matches standard installation media.
func DefaultLayout() *Layout {
	return &Layout{
		BootDirs:    []string{"boot", "efi"},
		PayloadDirs: []string{"sources"},
		Image: Image{
			Description:    "Windows Setup",
			Path:           `sources\boot.wim`,
			Index:          1,
			WindowsVersion: "10.0",
		},
	}
}

// LoadLayout reads a layout manifest. Unknown keys are rejected.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout manifest: %w", err)
	}

	var layout Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layout); err != nil {
		return nil, fmt.Errorf("parsing layout manifest %q: %w", path, err)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout manifest %q: %w", path, err)
	}
	return &layout, nil
}

func (l *Layout) Validate() error {
	if len(l.PayloadDirs) == 0 {
		return fmt.Errorf("layout names no payload directories")
	}
	if l.Image.Path == "" {
		return fmt.Errorf("layout names no boot image path")
	}
	if l.Image.Description == "" {
		return fmt.Errorf("layout names no boot entry description")
	}
	if l.Image.Index < 1 {
		return fmt.Errorf("image index must be 1 or greater, got %d", l.Image.Index)
	}
	return nil
}
