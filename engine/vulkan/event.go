package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/valkyrie/engine/core"
)

// Event owns one native event handle. Events follow the same pool and
// ownership rules as the other primitives but have no export path: the
// native API defines no external-event handle types.
type Event struct {
	handle   EventHandle
	device   *Device
	fromPool bool
}

func NewEvent(device *Device) (*Event, error) {
	device.assertUsable()
	return createEvent(device, false)
}

// EventFromPool takes an event from the device pool, allocating on a miss.
func EventFromPool(device *Device) (*Event, error) {
	device.assertUsable()
	if handle, ok := device.eventPool.Take(); ok {
		device.retainWrapper()
		return &Event{
			handle:   handle,
			device:   device,
			fromPool: true,
		}, nil
	}
	return createEvent(device, true)
}

func createEvent(device *Device, fromPool bool) (*Event, error) {
	handle, res := device.commands.CreateEvent()
	if err := translateCreateResult(res, "vkCreateEvent"); err != nil {
		return nil, err
	}
	device.retainWrapper()
	return &Event{
		handle:   handle,
		device:   device,
		fromPool: fromPool,
	}, nil
}

func (e *Event) Handle() EventHandle {
	return e.handle
}

func (e *Event) Device() *Device {
	return e.device
}

// Set signals the event from the host.
func (e *Event) Set() error {
	if res := e.device.commands.SetEvent(e.handle); res != vk.Success {
		return translateCreateResult(res, "vkSetEvent")
	}
	return nil
}

// Reset unsignals the event from the host. Pooled events are reset before
// recycling so the pool only ever holds unsignaled events.
func (e *Event) Reset() error {
	if res := e.device.commands.ResetEvent(e.handle); res != vk.Success {
		return translateCreateResult(res, "vkResetEvent")
	}
	return nil
}

// Release recycles or destroys the handle, exactly once.
func (e *Event) Release() {
	if e.handle == 0 {
		core.LogError("event on device %s released twice", e.device.ID)
		panic("vulkan: event released twice")
	}
	recycle := e.fromPool
	if recycle {
		if res := e.device.commands.ResetEvent(e.handle); res != vk.Success {
			core.LogWarn("event reset failed on release (%s), destroying instead of recycling", ResultString(res))
			recycle = false
		}
	}
	if recycle {
		e.device.eventPool.Give(e.handle)
	} else {
		e.device.commands.DestroyEvent(e.handle)
		core.MetricsPoolDestroy(kindEvent)
	}
	e.handle = 0
	e.device.releaseWrapper()
}
