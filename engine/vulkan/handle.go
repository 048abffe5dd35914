package vulkan

// Non-dispatchable Vulkan handles are 64-bit values on every platform. The
// wrappers and pools move these opaque values around; only the production
// Commands implementation converts them back into the cgo handle types.
type (
	SemaphoreHandle uint64
	FenceHandle     uint64
	EventHandle     uint64
)
