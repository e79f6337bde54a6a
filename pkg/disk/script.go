package disk

import (
	"fmt"
	"strings"

	"github.com/osbuild/bootstick/pkg/datasizes"
)

// DiskpartScript renders the partitioning tool's input script for wiping
// the given disk and creating this layout. Partition sizes are rounded up
// to whole MiB, the unit the tool expects.
func (pt *PartitionTable) DiskpartScript(diskIndex int) (string, error) {
	if err := pt.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "select disk %d\n", diskIndex)
	b.WriteString("clean\n")

	for _, p := range pt.Partitions {
		if p.Size > 0 {
			sizeMiB := (p.Size + datasizes.MiB - 1) / datasizes.MiB
			fmt.Fprintf(&b, "create partition primary size=%d\n", sizeMiB)
		} else {
			b.WriteString("create partition primary\n")
		}
		if p.Payload != nil {
			fmt.Fprintf(&b, "format fs=%s quick label=%q\n", p.Payload.Type, p.Payload.Label)
		}
		if p.Letter != "" {
			fmt.Fprintf(&b, "assign letter=%s\n", strings.TrimSuffix(p.Letter, ":"))
		}
		if p.Bootable {
			b.WriteString("active\n")
		}
	}

	b.WriteString("exit\n")
	return b.String(), nil
}
