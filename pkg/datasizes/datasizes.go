// Package datasizes provides byte size constants and parsing for
// human-readable sizes in configuration files.
package datasizes

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	KiB = uint64(1024)
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB

	KB = uint64(1000)
	MB = 1000 * KB
	GB = 1000 * MB
	TB = 1000 * GB
)

var units = []struct {
	suffix string
	factor uint64
}{
	{"TiB", TiB},
	{"GiB", GiB},
	{"MiB", MiB},
	{"KiB", KiB},
	{"TB", TB},
	{"GB", GB},
	{"MB", MB},
	{"kB", KB},
}

// Parse converts a size string such as "123", "2 GiB" or "500MB" to bytes.
func Parse(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	factor := uint64(1)
	for _, unit := range units {
		if strings.HasSuffix(trimmed, unit.suffix) {
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, unit.suffix))
			factor = unit.factor
			break
		}
	}
	value, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown data size units in string: %s", s)
	}
	return value * factor, nil
}
