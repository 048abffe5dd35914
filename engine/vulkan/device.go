package vulkan

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/spaghettifunk/valkyrie/engine/core"
)

// Device owns the dispatch table, the enabled-extension tables, the queried
// external-capability descriptors and the per-kind recycling pools. The
// pools live and die with the device; wrappers only reference it.
type Device struct {
	ID uuid.UUID

	commands           Commands
	instanceExtensions ExtensionSet
	extensions         ExtensionSet
	semaphoreCaps      ExternalSemaphoreCapabilities
	fenceCaps          ExternalFenceCapabilities

	semaphorePool *HandlePool[SemaphoreHandle]
	fencePool     *HandlePool[FenceHandle]
	eventPool     *HandlePool[EventHandle]

	// wrappers currently holding a handle from this device
	outstanding atomic.Int64
	destroyed   atomic.Bool

	// runs after the pools are drained during Destroy
	close func()
}

// DeviceOptions carries everything a Device needs from the instance layer.
// Tests and embedders fill it directly; OpenDevice fills it from real
// queries.
type DeviceOptions struct {
	Commands              Commands
	InstanceExtensions    []string
	Extensions            []string
	SemaphoreCapabilities ExternalSemaphoreCapabilities
	FenceCapabilities     ExternalFenceCapabilities

	// Pre-warm counts: handles created up front and parked in the pools so
	// steady-state frames never hit the allocator.
	PrewarmSemaphores int
	PrewarmFences     int
	PrewarmEvents     int

	// Close, when set, runs after the pools are drained during Destroy.
	// The production path uses it to destroy the logical device.
	Close func()
}

func NewDevice(options DeviceOptions) (*Device, error) {
	if options.Commands == nil {
		return nil, fmt.Errorf("device options must carry a commands table")
	}

	device := &Device{
		ID:                 uuid.New(),
		commands:           options.Commands,
		instanceExtensions: NewExtensionSet(options.InstanceExtensions...),
		extensions:         NewExtensionSet(options.Extensions...),
		semaphoreCaps:      options.SemaphoreCapabilities,
		fenceCaps:          options.FenceCapabilities,
		semaphorePool:      newHandlePool[SemaphoreHandle](kindSemaphore),
		fencePool:          newHandlePool[FenceHandle](kindFence),
		eventPool:          newHandlePool[EventHandle](kindEvent),
		close:              options.Close,
	}

	if err := device.prewarm(options); err != nil {
		device.destroyPooled()
		return nil, err
	}

	core.LogInfo("device %s ready (pre-warmed: %d semaphores, %d fences, %d events)",
		device.ID, options.PrewarmSemaphores, options.PrewarmFences, options.PrewarmEvents)
	return device, nil
}

func (d *Device) prewarm(options DeviceOptions) error {
	for i := 0; i < options.PrewarmSemaphores; i++ {
		handle, res := d.commands.CreateSemaphore(nil)
		if err := translateCreateResult(res, "vkCreateSemaphore"); err != nil {
			return err
		}
		d.semaphorePool.Give(handle)
	}
	for i := 0; i < options.PrewarmFences; i++ {
		handle, res := d.commands.CreateFence(false, nil)
		if err := translateCreateResult(res, "vkCreateFence"); err != nil {
			return err
		}
		d.fencePool.Give(handle)
	}
	for i := 0; i < options.PrewarmEvents; i++ {
		handle, res := d.commands.CreateEvent()
		if err := translateCreateResult(res, "vkCreateEvent"); err != nil {
			return err
		}
		d.eventPool.Give(handle)
	}
	return nil
}

// Commands exposes the dispatch table for submission layers built on top.
func (d *Device) Commands() Commands {
	return d.commands
}

func (d *Device) InstanceExtensions() ExtensionSet {
	return d.instanceExtensions
}

func (d *Device) Extensions() ExtensionSet {
	return d.extensions
}

// SemaphorePool exposes the semaphore free-list, mainly for inspection.
func (d *Device) SemaphorePool() *HandlePool[SemaphoreHandle] {
	return d.semaphorePool
}

func (d *Device) FencePool() *HandlePool[FenceHandle] {
	return d.fencePool
}

func (d *Device) EventPool() *HandlePool[EventHandle] {
	return d.eventPool
}

// Outstanding reports how many wrappers currently hold a handle.
func (d *Device) Outstanding() int64 {
	return d.outstanding.Load()
}

func (d *Device) retainWrapper() {
	d.outstanding.Add(1)
}

func (d *Device) releaseWrapper() {
	if d.outstanding.Add(-1) < 0 {
		core.LogError("device %s wrapper count went negative", d.ID)
		panic("vulkan: wrapper release without matching acquire")
	}
}

// assertUsable guards creation paths against a destroyed device. Using a
// device after Destroy is a caller contract violation, not an error the
// caller can meaningfully handle.
func (d *Device) assertUsable() {
	if d.destroyed.Load() {
		core.LogError("device %s used after Destroy", d.ID)
		panic("vulkan: device used after Destroy")
	}
}

// Destroy tears the pools down, destroying every recycled handle. It
// refuses while any wrapper is still alive: tearing the pools down under a
// live wrapper would turn that wrapper's release into a use-after-free.
func (d *Device) Destroy() error {
	if n := d.outstanding.Load(); n > 0 {
		return fmt.Errorf("%w (%d)", core.ErrWrappersOutstanding, n)
	}
	// CAS so concurrent Destroy calls cannot both pass the check and run
	// the teardown twice.
	if !d.destroyed.CompareAndSwap(false, true) {
		return core.ErrDeviceDestroyed
	}
	d.destroyPooled()
	if d.close != nil {
		d.close()
	}
	core.LogInfo("device %s destroyed", d.ID)
	return nil
}

func (d *Device) destroyPooled() {
	for _, handle := range d.semaphorePool.drain() {
		d.commands.DestroySemaphore(handle)
		core.MetricsPoolDestroy(kindSemaphore)
	}
	for _, handle := range d.fencePool.drain() {
		d.commands.DestroyFence(handle)
		core.MetricsPoolDestroy(kindFence)
	}
	for _, handle := range d.eventPool.drain() {
		d.commands.DestroyEvent(handle)
		core.MetricsPoolDestroy(kindEvent)
	}
}
