// Package disk models the partition layout of an install disk: a small FAT
// boot volume carrying the boot files and configuration stores, and a large
// NTFS installer volume carrying installation payloads. Only MBR layouts
// are supported.
package disk

import (
	"fmt"

	"github.com/osbuild/bootstick/pkg/datasizes"
)

// MBR partition type bytes.
const (
	FAT32LBAPartitionType = "0c"
	NTFSPartitionType     = "07"
)

// DefaultBootVolumeSize leaves room for the boot manager files of both
// firmware flavors plus a boot image.
const DefaultBootVolumeSize = 2 * datasizes.GiB

type Filesystem struct {
	Type  string // "fat32" or "ntfs"
	Label string
}

type Partition struct {
	Size     uint64 // size in bytes; 0 means the rest of the disk
	Type     string // MBR partition type byte
	Bootable bool   // `active` flag
	Letter   string // drive letter to assign, e.g. "Y:"

	// If nil, the partition is raw; it doesn't contain a filesystem.
	Payload *Filesystem
}

type PartitionTable struct {
	Type       string // always "dos"
	Partitions []Partition
}

// NewInstallPartitionTable builds the canonical two-volume install layout.
// The boot partition is the active one; the installer partition takes the
// rest of the disk.
func NewInstallPartitionTable(bootSize uint64, bootLetter, installerLetter string) *PartitionTable {
	if bootSize == 0 {
		bootSize = DefaultBootVolumeSize
	}
	return &PartitionTable{
		Type: "dos",
		Partitions: []Partition{
			{
				Size:     bootSize,
				Type:     FAT32LBAPartitionType,
				Bootable: true,
				Letter:   bootLetter,
				Payload:  &Filesystem{Type: "fat32", Label: "BOOT"},
			},
			{
				Type:    NTFSPartitionType,
				Letter:  installerLetter,
				Payload: &Filesystem{Type: "ntfs", Label: "INSTALL"},
			},
		},
	}
}

func (pt *PartitionTable) Validate() error {
	if pt.Type != "dos" {
		return fmt.Errorf("unsupported partition table type %q", pt.Type)
	}
	for i, p := range pt.Partitions {
		if p.Size == 0 && i != len(pt.Partitions)-1 {
			return fmt.Errorf("only the last partition may take the rest of the disk")
		}
		if p.Payload != nil && p.Letter == "" {
			return fmt.Errorf("partition %d carries a filesystem but no drive letter", i)
		}
	}
	return nil
}
