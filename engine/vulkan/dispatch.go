package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
)

// Commands is the dispatch table the wrappers issue native calls through.
// The production implementation forwards to the loaded Vulkan entry points;
// tests substitute their own.
type Commands interface {
	CreateSemaphore(exportTo []ExternalSemaphoreHandleType) (SemaphoreHandle, vk.Result)
	DestroySemaphore(handle SemaphoreHandle)

	CreateFence(signaled bool, exportTo []ExternalFenceHandleType) (FenceHandle, vk.Result)
	DestroyFence(handle FenceHandle)
	WaitForFence(handle FenceHandle, timeoutNs uint64) vk.Result
	ResetFence(handle FenceHandle) vk.Result

	CreateEvent() (EventHandle, vk.Result)
	DestroyEvent(handle EventHandle)
	SetEvent(handle EventHandle) vk.Result
	ResetEvent(handle EventHandle) vk.Result
}

// deviceCommands dispatches against one logical device. All handle
// conversions between the opaque 64-bit values and the cgo types happen
// here and nowhere else.
type deviceCommands struct {
	device    vk.Device
	allocator *vk.AllocationCallbacks
}

// NewDeviceCommands wraps a logical device in the production dispatch table.
func NewDeviceCommands(device vk.Device, allocator *vk.AllocationCallbacks) Commands {
	return &deviceCommands{device: device, allocator: allocator}
}

func (c *deviceCommands) CreateSemaphore(exportTo []ExternalSemaphoreHandleType) (SemaphoreHandle, vk.Result) {
	createInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	if len(exportTo) > 0 {
		exportInfo := vk.ExportSemaphoreCreateInfo{
			SType:       vk.StructureTypeExportSemaphoreCreateInfo,
			HandleTypes: SemaphoreHandleTypesToVk(exportTo),
		}
		ref, _ := exportInfo.PassRef()
		createInfo.PNext = unsafe.Pointer(ref)
	}

	var semaphore vk.Semaphore
	res := vk.CreateSemaphore(c.device, &createInfo, c.allocator, &semaphore)
	if res != vk.Success {
		return 0, res
	}
	return SemaphoreHandle(uintptr(unsafe.Pointer(semaphore))), res
}

func (c *deviceCommands) DestroySemaphore(handle SemaphoreHandle) {
	vk.DestroySemaphore(c.device, vk.Semaphore(unsafe.Pointer(uintptr(handle))), c.allocator)
}

func (c *deviceCommands) CreateFence(signaled bool, exportTo []ExternalFenceHandleType) (FenceHandle, vk.Result) {
	createInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		createInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	if len(exportTo) > 0 {
		exportInfo := vk.ExportFenceCreateInfo{
			SType:       vk.StructureTypeExportFenceCreateInfo,
			HandleTypes: FenceHandleTypesToVk(exportTo),
		}
		ref, _ := exportInfo.PassRef()
		createInfo.PNext = unsafe.Pointer(ref)
	}

	var fence vk.Fence
	res := vk.CreateFence(c.device, &createInfo, c.allocator, &fence)
	if res != vk.Success {
		return 0, res
	}
	return FenceHandle(uintptr(unsafe.Pointer(fence))), res
}

func (c *deviceCommands) DestroyFence(handle FenceHandle) {
	vk.DestroyFence(c.device, vk.Fence(unsafe.Pointer(uintptr(handle))), c.allocator)
}

func (c *deviceCommands) WaitForFence(handle FenceHandle, timeoutNs uint64) vk.Result {
	fences := []vk.Fence{vk.Fence(unsafe.Pointer(uintptr(handle)))}
	return vk.WaitForFences(c.device, 1, fences, vk.True, timeoutNs)
}

func (c *deviceCommands) ResetFence(handle FenceHandle) vk.Result {
	fences := []vk.Fence{vk.Fence(unsafe.Pointer(uintptr(handle)))}
	return vk.ResetFences(c.device, 1, fences)
}

func (c *deviceCommands) CreateEvent() (EventHandle, vk.Result) {
	createInfo := vk.EventCreateInfo{
		SType: vk.StructureTypeEventCreateInfo,
	}

	var event vk.Event
	res := vk.CreateEvent(c.device, &createInfo, c.allocator, &event)
	if res != vk.Success {
		return 0, res
	}
	return EventHandle(uintptr(unsafe.Pointer(event))), res
}

func (c *deviceCommands) DestroyEvent(handle EventHandle) {
	vk.DestroyEvent(c.device, vk.Event(unsafe.Pointer(uintptr(handle))), c.allocator)
}

func (c *deviceCommands) SetEvent(handle EventHandle) vk.Result {
	return vk.SetEvent(c.device, vk.Event(unsafe.Pointer(uintptr(handle))))
}

func (c *deviceCommands) ResetEvent(handle EventHandle) vk.Result {
	return vk.ResetEvent(c.device, vk.Event(unsafe.Pointer(uintptr(handle))))
}
