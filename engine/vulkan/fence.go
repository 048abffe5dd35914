package vulkan

import (
	vk "github.com/goki/vulkan"
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/valkyrie/engine/core"
)

// Fence owns one native fence handle and tracks its signaled state the way
// the CPU last observed it. Same ownership rules as Semaphore: one wrapper
// per handle, Release exactly once.
type Fence struct {
	handle       FenceHandle
	device       *Device
	fromPool     bool
	signaled     bool
	exportableTo []ExternalFenceHandleType
}

// NewFence creates a standalone fence, signaled or not.
func NewFence(device *Device, createSignaled bool) (*Fence, error) {
	device.assertUsable()
	return createFence(device, false, createSignaled, nil)
}

// FenceFromPool takes a fence from the device pool, allocating on a miss.
// Pooled fences are always unsignaled; Release resets a signaled fence
// before recycling it.
func FenceFromPool(device *Device) (*Fence, error) {
	device.assertUsable()
	if handle, ok := device.fencePool.Take(); ok {
		device.retainWrapper()
		return &Fence{
			handle:   handle,
			device:   device,
			fromPool: true,
		}, nil
	}
	return createFence(device, true, false, nil)
}

// NewExportableFence creates a fence whose native handle can be shared with
// another process through any of the given handle types. The capability
// gate runs before any native call.
func NewExportableFence(device *Device, handleTypes ...ExternalFenceHandleType) (*Fence, error) {
	device.assertUsable()
	types := normalizeFenceHandleTypes(handleTypes)
	if err := checkExportableFence(device, types); err != nil {
		return nil, err
	}
	return createFence(device, false, false, types)
}

func createFence(device *Device, fromPool, signaled bool, exportTo []ExternalFenceHandleType) (*Fence, error) {
	handle, res := device.commands.CreateFence(signaled, exportTo)
	if err := translateCreateResult(res, "vkCreateFence"); err != nil {
		return nil, err
	}
	device.retainWrapper()
	return &Fence{
		handle:       handle,
		device:       device,
		fromPool:     fromPool,
		signaled:     signaled,
		exportableTo: exportTo,
	}, nil
}

// Handle returns the raw handle for submission calls without transferring
// ownership.
func (f *Fence) Handle() FenceHandle {
	return f.handle
}

func (f *Fence) Device() *Device {
	return f.device
}

func (f *Fence) IsSignaled() bool {
	return f.signaled
}

func (f *Fence) ExportableTo(handleType ExternalFenceHandleType) bool {
	return slices.Contains(f.exportableTo, handleType)
}

// Wait blocks until the fence signals or the timeout expires. Returns true
// once the fence is signaled.
func (f *Fence) Wait(timeoutNs uint64) bool {
	if f.signaled {
		// Already signaled, do not wait.
		return true
	}
	result := f.device.commands.WaitForFence(f.handle, timeoutNs)
	switch result {
	case vk.Success:
		f.signaled = true
		return true
	case vk.Timeout:
		core.LogWarn("fence wait timed out")
	case vk.ErrorDeviceLost:
		core.LogError("fence wait: %s", ResultString(result))
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory:
		core.LogError("fence wait: %s", ResultString(result))
	default:
		core.LogError("fence wait: unknown result %s", ResultString(result))
	}
	return false
}

// Reset returns a signaled fence to the unsignaled state.
func (f *Fence) Reset() error {
	if !f.signaled {
		return nil
	}
	if res := f.device.commands.ResetFence(f.handle); res != vk.Success {
		return translateCreateResult(res, "vkResetFences")
	}
	f.signaled = false
	return nil
}

// Release recycles or destroys the handle, exactly once. A fence that goes
// back into the pool must be unsignaled; if the reset fails the handle is
// destroyed instead so the pool never holds a handle in an unknown state.
func (f *Fence) Release() {
	if f.handle == 0 {
		core.LogError("fence on device %s released twice", f.device.ID)
		panic("vulkan: fence released twice")
	}
	recycle := f.fromPool
	if recycle && f.signaled {
		if res := f.device.commands.ResetFence(f.handle); res != vk.Success {
			core.LogWarn("fence reset failed on release (%s), destroying instead of recycling", ResultString(res))
			recycle = false
		}
	}
	if recycle {
		f.device.fencePool.Give(f.handle)
	} else {
		f.device.commands.DestroyFence(f.handle)
		core.MetricsPoolDestroy(kindFence)
	}
	f.handle = 0
	f.device.releaseWrapper()
}
