// Package devpath resolves drive letters to the stable device paths the
// boot environment uses, and splits full paths into their drive-letter
// qualifier and volume-relative remainder.
//
// Resolution is a pure lookup against the running session's device
// symbolic-link table. A result is only valid for the current boot of the
// machine doing the preparation; the boot environment re-derives the same
// mapping from the device path at the target machine's next boot. A volume
// reassigned between preparation and first boot is an accepted limitation,
// not something this package can detect.
package devpath

import "fmt"

// NoDeviceMappingError is returned when a drive letter has no entry in the
// session's device-mapping table.
type NoDeviceMappingError struct {
	DriveLetter string
}

func (e *NoDeviceMappingError) Error() string {
	return fmt.Sprintf("drive letter %q has no device mapping", e.DriveLetter)
}

// Resolver looks drive letters up in a device-mapping table.
type Resolver struct {
	lookup func(letter string) (string, bool, error)
}

// New returns a resolver backed by the running session's mapping table.
func New() *Resolver {
	return &Resolver{lookup: sessionLookup}
}

// NewFromTable returns a resolver backed by a fixed letter-to-device-path
// table. Used by tests and non-interactive tooling.
func NewFromTable(table map[string]string) *Resolver {
	return &Resolver{lookup: func(letter string) (string, bool, error) {
		path, ok := table[letter]
		return path, ok, nil
	}}
}

// Resolve maps a bare drive letter qualifier such as "E:" to its device
// path. Repeated calls within one session return the same path.
func (r *Resolver) Resolve(driveLetter string) (string, error) {
	if !validQualifier(driveLetter) {
		return "", fmt.Errorf("%q is not a bare drive letter qualifier", driveLetter)
	}
	path, ok, err := r.lookup(normalizeQualifier(driveLetter))
	if err != nil {
		return "", fmt.Errorf("querying device mapping for %q: %w", driveLetter, err)
	}
	if !ok {
		return "", &NoDeviceMappingError{DriveLetter: driveLetter}
	}
	return path, nil
}

// Split splits a full path such as `E:\sources\boot.wim` into its qualifier
// `E:` and the volume-relative remainder `\sources\boot.wim`.
func Split(path string) (qualifier, rest string, err error) {
	if len(path) < 2 || !validQualifier(path[:2]) {
		return "", "", fmt.Errorf("path %q does not start with a drive letter qualifier", path)
	}
	qualifier = path[:2]
	rest = path[2:]
	if rest == "" {
		rest = `\`
	}
	if rest[0] != '\\' {
		return "", "", fmt.Errorf("path %q is not absolute on its volume", path)
	}
	return qualifier, rest, nil
}

func validQualifier(s string) bool {
	if len(s) != 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func normalizeQualifier(s string) string {
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return string([]byte{c, ':'})
}
