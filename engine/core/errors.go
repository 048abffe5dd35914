package core

import (
	"errors"
)

var (
	ErrWrappersOutstanding = errors.New("device still has outstanding primitive wrappers")
	ErrDeviceDestroyed     = errors.New("device already destroyed")
	ErrUnknown             = errors.New("unknown")
)
