//go:build windows

package devpath

import (
	"errors"

	"golang.org/x/sys/windows"
)

// sessionLookup queries the session's DOS device table. The first target of
// the symbolic link is the device path, e.g. \Device\HarddiskVolume3.
func sessionLookup(letter string) (string, bool, error) {
	name, err := windows.UTF16PtrFromString(letter)
	if err != nil {
		return "", false, err
	}

	buf := make([]uint16, 512)
	for {
		n, err := windows.QueryDosDevice(name, &buf[0], uint32(len(buf)))
		if errors.Is(err, windows.ERROR_INSUFFICIENT_BUFFER) {
			buf = make([]uint16, len(buf)*2)
			continue
		}
		if errors.Is(err, windows.ERROR_FILE_NOT_FOUND) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		buf = buf[:n]
		break
	}

	// the buffer holds NUL-terminated targets; the first one wins
	for i, c := range buf {
		if c == 0 {
			return windows.UTF16ToString(buf[:i]), true, nil
		}
	}
	return windows.UTF16ToString(buf), true, nil
}
