//go:build !windows

package bcd

import "errors"

// NewService returns the platform store service. The configuration store
// provider only exists on windows.
func NewService() (Service, error) {
	return nil, errors.New("the boot configuration store service is only available on windows")
}
