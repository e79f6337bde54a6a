//go:build !windows

package installdisk

import "errors"

func removableDrives() ([]string, error) {
	return nil, errors.New("removable drive discovery is only available on windows")
}
