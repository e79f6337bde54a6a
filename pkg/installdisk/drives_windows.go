//go:build windows

package installdisk

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// removableDrives lists the drive letters of attached removable drives.
func removableDrives() ([]string, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("enumerating logical drives: %w", err)
	}

	var letters []string
	for i := 0; i < 26; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		letter := string(rune('A'+i)) + ":"
		root, err := windows.UTF16PtrFromString(letter + `\`)
		if err != nil {
			return nil, err
		}
		if windows.GetDriveType(root) == windows.DRIVE_REMOVABLE {
			letters = append(letters, letter)
		}
	}
	return letters, nil
}
