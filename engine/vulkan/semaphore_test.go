package vulkan

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"
)

// Scenario: empty pool, so from-pool allocates; releasing recycles; the next
// from-pool yields the same raw handle.
func TestSemaphorePoolRoundTrip(t *testing.T) {
	commands := newFakeCommands()
	device := newTestDevice(t, commands)

	if device.SemaphorePool().Len() != 0 {
		t.Fatalf("pool should start empty")
	}

	first, err := SemaphoreFromPool(device)
	if err != nil {
		t.Fatalf("SemaphoreFromPool failed: %v", err)
	}
	if device.SemaphorePool().Len() != 0 {
		t.Fatalf("pool must stay empty while the wrapper is alive")
	}
	firstHandle := first.Handle()
	if firstHandle == 0 {
		t.Fatalf("wrapper should hold a valid handle")
	}

	first.Release()
	if device.SemaphorePool().Len() != 1 {
		t.Fatalf("release of a pooled semaphore must recycle it, pool has %d", device.SemaphorePool().Len())
	}
	if commands.destroys != 0 {
		t.Fatalf("recycling must not destroy, saw %d destroys", commands.destroys)
	}

	second, err := SemaphoreFromPool(device)
	if err != nil {
		t.Fatalf("second SemaphoreFromPool failed: %v", err)
	}
	if device.SemaphorePool().Len() != 0 {
		t.Fatalf("pool should be empty after the second take")
	}
	if second.Handle() != firstHandle {
		t.Fatalf("expected the recycled handle %d, got %d", firstHandle, second.Handle())
	}
	if commands.creates != 1 {
		t.Fatalf("only the first take should have allocated, saw %d creates", commands.creates)
	}
	second.Release()
}

// Exactly one of pool-return and native-destroy runs per wrapper, whichever
// path created it.
func TestSemaphoreReleaseExactness(t *testing.T) {
	commands := newFakeCommands()
	device := newTestDevice(t, commands)

	standalone, err := NewSemaphore(device)
	if err != nil {
		t.Fatalf("NewSemaphore failed: %v", err)
	}
	standalone.Release()
	if commands.destroys != 1 {
		t.Fatalf("standalone release must destroy, saw %d destroys", commands.destroys)
	}
	if device.SemaphorePool().Len() != 0 {
		t.Fatalf("standalone release must not touch the pool")
	}

	pooled, err := SemaphoreFromPool(device)
	if err != nil {
		t.Fatalf("SemaphoreFromPool failed: %v", err)
	}
	pooled.Release()
	if commands.destroys != 1 {
		t.Fatalf("pooled release must not destroy, saw %d destroys", commands.destroys)
	}
	if device.SemaphorePool().Len() != 1 {
		t.Fatalf("pooled release must recycle")
	}
	if commands.badDestroys != 0 {
		t.Fatalf("a destroyed handle was not alive: double free")
	}
}

func TestSemaphoreDoubleReleasePanics(t *testing.T) {
	commands := newFakeCommands()
	device := newTestDevice(t, commands)

	s, err := NewSemaphore(device)
	if err != nil {
		t.Fatalf("NewSemaphore failed: %v", err)
	}
	s.Release()

	defer func() {
		if recover() == nil {
			t.Fatalf("second Release must panic")
		}
		if commands.destroys != 1 {
			t.Fatalf("second Release must not reach the native layer")
		}
	}()
	s.Release()
}

// Out-of-memory from the native layer surfaces as OomError and leaves
// nothing behind: no pooled handle, no outstanding wrapper.
func TestSemaphoreAllocationOom(t *testing.T) {
	commands := newFakeCommands()
	device := newTestDevice(t, commands)
	commands.createResult = vk.ErrorOutOfDeviceMemory

	_, err := NewSemaphore(device)
	var oom *OomError
	if !errors.As(err, &oom) {
		t.Fatalf("expected OomError, got %v", err)
	}
	if oom.Result != vk.ErrorOutOfDeviceMemory {
		t.Errorf("expected VK_ERROR_OUT_OF_DEVICE_MEMORY, got %s", ResultString(oom.Result))
	}
	if device.SemaphorePool().Len() != 0 {
		t.Fatalf("failed creation must not add to the pool")
	}
	if device.Outstanding() != 0 {
		t.Fatalf("failed creation must not leave a wrapper outstanding")
	}

	if _, err := SemaphoreFromPool(device); !errors.As(err, &oom) {
		t.Fatalf("from-pool fallback allocation must surface OomError, got %v", err)
	}
}

func TestExportableSemaphore(t *testing.T) {
	commands := newFakeCommands()
	device := newTestDevice(t, commands)

	s, err := NewExportableSemaphore(device, SemaphoreHandleTypeSyncFd, SemaphoreHandleTypeOpaqueFd, SemaphoreHandleTypeOpaqueFd)
	if err != nil {
		t.Fatalf("NewExportableSemaphore failed: %v", err)
	}
	defer s.Release()

	if !s.ExportableTo(SemaphoreHandleTypeOpaqueFd) || !s.ExportableTo(SemaphoreHandleTypeSyncFd) {
		t.Fatalf("wrapper should report the requested handle types")
	}
	if s.ExportableTo(SemaphoreHandleTypeD3d12Fence) {
		t.Fatalf("wrapper reports a handle type that was never requested")
	}
	// Duplicates collapse before reaching the native layer.
	if len(commands.lastSemaphoreExport) != 2 {
		t.Fatalf("expected 2 deduplicated handle types in the creation call, got %d", len(commands.lastSemaphoreExport))
	}
}

// Scenario: missing device extension fails before any native call.
func TestExportableSemaphoreGateFailsBeforeNativeCall(t *testing.T) {
	commands := newFakeCommands()
	instanceExts := []string{ExtGetPhysicalDeviceProperties2, ExtExternalSemaphoreCapabilities}
	device, err := NewDevice(DeviceOptions{
		Commands:              commands,
		InstanceExtensions:    instanceExts,
		Extensions:            nil, // external-semaphore not enabled
		SemaphoreCapabilities: fullyCompatibleSemaphoreCaps(),
	})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}

	_, err = NewExportableSemaphore(device, SemaphoreHandleTypeOpaqueFd)
	var missing *MissingDeviceExtensionError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDeviceExtensionError, got %v", err)
	}
	if commands.creates != 0 {
		t.Fatalf("gate failure must precede any native call, saw %d creates", commands.creates)
	}
	if device.Outstanding() != 0 {
		t.Fatalf("no wrapper may be outstanding after a gate failure")
	}
}

// A capability error never wraps an OomError and vice versa.
func TestExportableSemaphoreOomAfterGate(t *testing.T) {
	commands := newFakeCommands()
	device := newTestDevice(t, commands)
	commands.createResult = vk.ErrorOutOfHostMemory

	_, err := NewExportableSemaphore(device, SemaphoreHandleTypeOpaqueFd)
	var oom *OomError
	if !errors.As(err, &oom) {
		t.Fatalf("expected OomError after a passing gate, got %v", err)
	}
	var capability *MissingDeviceExtensionError
	if errors.As(err, &capability) {
		t.Fatalf("an OomError must not carry a capability error")
	}
}

// A result code the gate should have made unreachable is an invariant
// violation, not an error return.
func TestSemaphoreUnexpectedResultPanics(t *testing.T) {
	commands := newFakeCommands()
	device := newTestDevice(t, commands)
	commands.createResult = vk.ErrorInvalidExternalHandle

	defer func() {
		if recover() == nil {
			t.Fatalf("unexpected native result must panic, not return")
		}
	}()
	_, _ = NewExportableSemaphore(device, SemaphoreHandleTypeOpaqueFd)
}
