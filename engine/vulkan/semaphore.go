package vulkan

import (
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/valkyrie/engine/core"
)

// Semaphore owns one native semaphore handle. It is similar to a fence,
// except that it lives purely on the GPU side; the CPU cannot query or wait
// on it. Wrappers must not be copied: exactly one wrapper holds a given
// handle, and Release must run exactly once.
type Semaphore struct {
	handle       SemaphoreHandle
	device       *Device
	fromPool     bool
	exportableTo []ExternalSemaphoreHandleType
}

// NewSemaphore creates a standalone semaphore. On Release the handle is
// destroyed, not recycled.
func NewSemaphore(device *Device) (*Semaphore, error) {
	device.assertUsable()
	return createSemaphore(device, false, nil)
}

// SemaphoreFromPool takes a semaphore from the device pool, allocating only
// on a pool miss. On Release the handle goes back into the pool. Most
// callers should prefer this over NewSemaphore to avoid creating new
// semaphores every frame.
func SemaphoreFromPool(device *Device) (*Semaphore, error) {
	device.assertUsable()
	if handle, ok := device.semaphorePool.Take(); ok {
		device.retainWrapper()
		return &Semaphore{
			handle:   handle,
			device:   device,
			fromPool: true,
		}, nil
	}
	return createSemaphore(device, true, nil)
}

// NewExportableSemaphore creates a semaphore whose native handle can be
// shared with another process or API through any of the given handle types.
// The capability gate runs before any native call, so every returned
// capability error leaves no resource behind.
func NewExportableSemaphore(device *Device, handleTypes ...ExternalSemaphoreHandleType) (*Semaphore, error) {
	device.assertUsable()
	types := normalizeSemaphoreHandleTypes(handleTypes)
	if err := checkExportableSemaphore(device, types); err != nil {
		return nil, err
	}
	return createSemaphore(device, false, types)
}

func createSemaphore(device *Device, fromPool bool, exportTo []ExternalSemaphoreHandleType) (*Semaphore, error) {
	handle, res := device.commands.CreateSemaphore(exportTo)
	if err := translateCreateResult(res, "vkCreateSemaphore"); err != nil {
		return nil, err
	}
	device.retainWrapper()
	return &Semaphore{
		handle:       handle,
		device:       device,
		fromPool:     fromPool,
		exportableTo: exportTo,
	}, nil
}

// Handle returns the raw handle for submission calls. Ownership stays with
// the wrapper.
func (s *Semaphore) Handle() SemaphoreHandle {
	return s.handle
}

func (s *Semaphore) Device() *Device {
	return s.device
}

// ExportableTo reports whether the semaphore was created for export to the
// given handle type.
func (s *Semaphore) ExportableTo(handleType ExternalSemaphoreHandleType) bool {
	return slices.Contains(s.exportableTo, handleType)
}

// Release gives the handle back to the pool when it came from there and
// destroys it otherwise. Exactly one of the two happens, exactly once; a
// second Release is a contract violation.
func (s *Semaphore) Release() {
	if s.handle == 0 {
		core.LogError("semaphore on device %s released twice", s.device.ID)
		panic("vulkan: semaphore released twice")
	}
	if s.fromPool {
		s.device.semaphorePool.Give(s.handle)
	} else {
		s.device.commands.DestroySemaphore(s.handle)
		core.MetricsPoolDestroy(kindSemaphore)
	}
	s.handle = 0
	s.device.releaseWrapper()
}
