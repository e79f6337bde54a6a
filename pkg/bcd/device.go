package bcd

// DeviceType discriminates the kinds of boot-time device descriptors this
// package writes. The numeric values are fixed by the store service's file
// device element method.
type DeviceType uint32

const (
	// DevicePartition addresses a partition by its stable device path.
	DevicePartition DeviceType = 2
	// DeviceFile addresses a file relative to a parent device.
	DeviceFile DeviceType = 4
)

// Device describes where the boot environment finds a file: a device type,
// a path relative to the device root and, for nested cases such as a loader
// image on a partition, a parent device.
//
// A Device is never built from a drive letter directly. Drive letters are
// not stable between the running OS and the boot environment; callers
// resolve the letter to a device path first.
type Device struct {
	Type   DeviceType
	Path   string
	Parent *Device
}

// FileOnPartition builds the descriptor for a file at relPath on the
// partition with the given device path.
func FileOnPartition(partitionDevicePath, relPath string) Device {
	return Device{
		Type: DeviceFile,
		Path: relPath,
		Parent: &Device{
			Type: DevicePartition,
			Path: partitionDevicePath,
		},
	}
}
