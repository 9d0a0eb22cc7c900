package values

import (
	"fmt"
	"strings"
)

// DeviceFamily names the device a profile is scoped to (e.g. "jflte").
// The zero value means the profile applies to every device.
type DeviceFamily string

// AnyDevice is the unscoped device family.
const AnyDevice DeviceFamily = ""

// NewDeviceFamily normalizes and validates a device family name.
func NewDeviceFamily(name string) (DeviceFamily, error) {
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, `/\ `) {
		return AnyDevice, fmt.Errorf("invalid device family %q", name)
	}
	return DeviceFamily(name), nil
}

// IsAny returns true for the unscoped family.
func (d DeviceFamily) IsAny() bool {
	return d == AnyDevice
}

// Admits reports whether a profile scoped to d is a candidate for the
// target device. Unscoped profiles and unknown targets admit everything.
func (d DeviceFamily) Admits(target DeviceFamily) bool {
	if d.IsAny() || target.IsAny() {
		return true
	}
	return d == target
}

func (d DeviceFamily) String() string {
	return string(d)
}
