package vulkan

import (
	vk "github.com/goki/vulkan"
)

// fakeCommands is an in-memory dispatch table. It mints monotonically
// increasing handles, tracks which are alive and records call counts so
// tests can assert on native-call traffic.
type fakeCommands struct {
	next uint64
	live map[uint64]bool

	createResult vk.Result // forced result for creation calls
	waitResult   vk.Result
	resetResult  vk.Result

	creates     int
	destroys    int
	badDestroys int // destroy of a handle that was not alive

	lastSemaphoreExport []ExternalSemaphoreHandleType
	lastFenceExport     []ExternalFenceHandleType
	lastFenceSignaled   bool
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{
		live:         make(map[uint64]bool),
		createResult: vk.Success,
		waitResult:   vk.Success,
		resetResult:  vk.Success,
	}
}

func (c *fakeCommands) create() (uint64, vk.Result) {
	c.creates++
	if c.createResult != vk.Success {
		return 0, c.createResult
	}
	c.next++
	c.live[c.next] = true
	return c.next, vk.Success
}

func (c *fakeCommands) destroy(handle uint64) {
	c.destroys++
	if !c.live[handle] {
		c.badDestroys++
		return
	}
	delete(c.live, handle)
}

func (c *fakeCommands) CreateSemaphore(exportTo []ExternalSemaphoreHandleType) (SemaphoreHandle, vk.Result) {
	c.lastSemaphoreExport = exportTo
	h, res := c.create()
	return SemaphoreHandle(h), res
}

func (c *fakeCommands) DestroySemaphore(handle SemaphoreHandle) {
	c.destroy(uint64(handle))
}

func (c *fakeCommands) CreateFence(signaled bool, exportTo []ExternalFenceHandleType) (FenceHandle, vk.Result) {
	c.lastFenceSignaled = signaled
	c.lastFenceExport = exportTo
	h, res := c.create()
	return FenceHandle(h), res
}

func (c *fakeCommands) DestroyFence(handle FenceHandle) {
	c.destroy(uint64(handle))
}

func (c *fakeCommands) WaitForFence(handle FenceHandle, timeoutNs uint64) vk.Result {
	return c.waitResult
}

func (c *fakeCommands) ResetFence(handle FenceHandle) vk.Result {
	return c.resetResult
}

func (c *fakeCommands) CreateEvent() (EventHandle, vk.Result) {
	h, res := c.create()
	return EventHandle(h), res
}

func (c *fakeCommands) DestroyEvent(handle EventHandle) {
	c.destroy(uint64(handle))
}

func (c *fakeCommands) SetEvent(handle EventHandle) vk.Result {
	return vk.Success
}

func (c *fakeCommands) ResetEvent(handle EventHandle) vk.Result {
	return c.resetResult
}

// allExtensions enables everything the exportable gates look at.
func allExtensions() ([]string, []string) {
	instance := []string{
		ExtGetPhysicalDeviceProperties2,
		ExtExternalSemaphoreCapabilities,
		ExtExternalFenceCapabilities,
	}
	device := []string{ExtExternalSemaphore, ExtExternalFence}
	return instance, device
}

// fullyCompatibleSemaphoreCaps marks every handle type exportable and
// compatible with every other.
func fullyCompatibleSemaphoreCaps() ExternalSemaphoreCapabilities {
	caps := make(ExternalSemaphoreCapabilities)
	for _, t := range AllSemaphoreHandleTypes() {
		caps[t] = ExternalSemaphoreProperties{
			Exportable:            true,
			Importable:            true,
			CompatibleHandleTypes: AllSemaphoreHandleTypes(),
		}
	}
	return caps
}

func fullyCompatibleFenceCaps() ExternalFenceCapabilities {
	caps := make(ExternalFenceCapabilities)
	for _, t := range AllFenceHandleTypes() {
		caps[t] = ExternalFenceProperties{
			Exportable:            true,
			Importable:            true,
			CompatibleHandleTypes: AllFenceHandleTypes(),
		}
	}
	return caps
}

func newTestDevice(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, commands Commands) *Device {
	t.Helper()
	instanceExts, deviceExts := allExtensions()
	device, err := NewDevice(DeviceOptions{
		Commands:              commands,
		InstanceExtensions:    instanceExts,
		Extensions:            deviceExts,
		SemaphoreCapabilities: fullyCompatibleSemaphoreCaps(),
		FenceCapabilities:     fullyCompatibleFenceCaps(),
	})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	return device
}
