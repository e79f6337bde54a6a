//go:build !windows

package devpath

// There is no DOS device table off windows; every letter is unmapped.
func sessionLookup(letter string) (string, bool, error) {
	return "", false, nil
}
