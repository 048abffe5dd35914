package vulkan

import (
	"errors"
	"testing"
)

// Without a loader the capability entry points cannot be resolved; the
// tables must come back nil rather than crash.
func TestUnresolvedCapabilityQueriesYieldNoCapabilities(t *testing.T) {
	queries := resolveExternalCapabilityQueries(nil, nil)
	if queries.semaphore != nil || queries.fence != nil {
		t.Fatalf("a nil loader must resolve no entry points")
	}

	instance := &Instance{extQueries: queries}
	if caps := instance.QueryExternalSemaphoreCapabilities(nil); caps != nil {
		t.Fatalf("expected no semaphore capabilities without the entry point, got %v", caps)
	}
	if caps := instance.QueryExternalFenceCapabilities(nil); caps != nil {
		t.Fatalf("expected no fence capabilities without the entry point, got %v", caps)
	}
}

// An empty capability table reads as "no handle type supported": the gate
// rejects every exportable request instead of passing one through to a
// native call that cannot succeed.
func TestGateRejectsWithEmptyCapabilityTable(t *testing.T) {
	commands := newFakeCommands()
	instanceExts, deviceExts := allExtensions()
	device, err := NewDevice(DeviceOptions{
		Commands:           commands,
		InstanceExtensions: instanceExts,
		Extensions:         deviceExts,
	})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}

	_, err = NewExportableSemaphore(device, SemaphoreHandleTypeOpaqueFd)
	var notSupported *HandleTypeNotSupportedError
	if !errors.As(err, &notSupported) {
		t.Fatalf("expected HandleTypeNotSupportedError with an empty table, got %v", err)
	}
	if commands.creates != 0 {
		t.Fatalf("gate failure must precede any native call, saw %d creates", commands.creates)
	}
}
