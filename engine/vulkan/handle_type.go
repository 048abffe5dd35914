package vulkan

import (
	vk "github.com/goki/vulkan"
	"golang.org/x/exp/slices"
)

// ExternalHandleType is implemented by the per-primitive handle type enums.
// It exists so errors can carry either kind.
type ExternalHandleType interface {
	String() string
	isExternalHandleType()
}

// ExternalSemaphoreHandleType enumerates the native handle kinds a semaphore
// can be exported to or imported from.
type ExternalSemaphoreHandleType int

const (
	SemaphoreHandleTypeOpaqueFd ExternalSemaphoreHandleType = iota
	SemaphoreHandleTypeOpaqueWin32
	SemaphoreHandleTypeOpaqueWin32Kmt
	SemaphoreHandleTypeD3d12Fence
	SemaphoreHandleTypeSyncFd
)

func (t ExternalSemaphoreHandleType) isExternalHandleType() {}

func (t ExternalSemaphoreHandleType) String() string {
	switch t {
	case SemaphoreHandleTypeOpaqueFd:
		return "opaque_fd"
	case SemaphoreHandleTypeOpaqueWin32:
		return "opaque_win32"
	case SemaphoreHandleTypeOpaqueWin32Kmt:
		return "opaque_win32_kmt"
	case SemaphoreHandleTypeD3d12Fence:
		return "d3d12_fence"
	case SemaphoreHandleTypeSyncFd:
		return "sync_fd"
	}
	return "unknown"
}

func (t ExternalSemaphoreHandleType) ToVk() vk.ExternalSemaphoreHandleTypeFlagBits {
	switch t {
	case SemaphoreHandleTypeOpaqueFd:
		return vk.ExternalSemaphoreHandleTypeOpaqueFdBit
	case SemaphoreHandleTypeOpaqueWin32:
		return vk.ExternalSemaphoreHandleTypeOpaqueWin32Bit
	case SemaphoreHandleTypeOpaqueWin32Kmt:
		return vk.ExternalSemaphoreHandleTypeOpaqueWin32KmtBit
	case SemaphoreHandleTypeD3d12Fence:
		return vk.ExternalSemaphoreHandleTypeD3d12FenceBit
	case SemaphoreHandleTypeSyncFd:
		return vk.ExternalSemaphoreHandleTypeSyncFdBit
	}
	return 0
}

// AllSemaphoreHandleTypes returns the closed enumeration, in declaration order.
func AllSemaphoreHandleTypes() []ExternalSemaphoreHandleType {
	return []ExternalSemaphoreHandleType{
		SemaphoreHandleTypeOpaqueFd,
		SemaphoreHandleTypeOpaqueWin32,
		SemaphoreHandleTypeOpaqueWin32Kmt,
		SemaphoreHandleTypeD3d12Fence,
		SemaphoreHandleTypeSyncFd,
	}
}

// ParseSemaphoreHandleType maps a config string onto a handle type.
func ParseSemaphoreHandleType(s string) (ExternalSemaphoreHandleType, bool) {
	for _, t := range AllSemaphoreHandleTypes() {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

func SemaphoreHandleTypesToVk(types []ExternalSemaphoreHandleType) vk.ExternalSemaphoreHandleTypeFlags {
	var flags vk.ExternalSemaphoreHandleTypeFlags
	for _, t := range types {
		flags |= vk.ExternalSemaphoreHandleTypeFlags(t.ToVk())
	}
	return flags
}

func SemaphoreHandleTypesFromVk(flags vk.ExternalSemaphoreHandleTypeFlags) []ExternalSemaphoreHandleType {
	var types []ExternalSemaphoreHandleType
	for _, t := range AllSemaphoreHandleTypes() {
		if flags&vk.ExternalSemaphoreHandleTypeFlags(t.ToVk()) != 0 {
			types = append(types, t)
		}
	}
	return types
}

// normalizeSemaphoreHandleTypes sorts and deduplicates a requested set.
func normalizeSemaphoreHandleTypes(types []ExternalSemaphoreHandleType) []ExternalSemaphoreHandleType {
	out := slices.Clone(types)
	slices.Sort(out)
	return slices.Compact(out)
}

// ExternalFenceHandleType enumerates the native handle kinds a fence can be
// exported to or imported from. Unlike semaphores there is no D3D12 variant.
type ExternalFenceHandleType int

const (
	FenceHandleTypeOpaqueFd ExternalFenceHandleType = iota
	FenceHandleTypeOpaqueWin32
	FenceHandleTypeOpaqueWin32Kmt
	FenceHandleTypeSyncFd
)

func (t ExternalFenceHandleType) isExternalHandleType() {}

func (t ExternalFenceHandleType) String() string {
	switch t {
	case FenceHandleTypeOpaqueFd:
		return "opaque_fd"
	case FenceHandleTypeOpaqueWin32:
		return "opaque_win32"
	case FenceHandleTypeOpaqueWin32Kmt:
		return "opaque_win32_kmt"
	case FenceHandleTypeSyncFd:
		return "sync_fd"
	}
	return "unknown"
}

func (t ExternalFenceHandleType) ToVk() vk.ExternalFenceHandleTypeFlagBits {
	switch t {
	case FenceHandleTypeOpaqueFd:
		return vk.ExternalFenceHandleTypeOpaqueFdBit
	case FenceHandleTypeOpaqueWin32:
		return vk.ExternalFenceHandleTypeOpaqueWin32Bit
	case FenceHandleTypeOpaqueWin32Kmt:
		return vk.ExternalFenceHandleTypeOpaqueWin32KmtBit
	case FenceHandleTypeSyncFd:
		return vk.ExternalFenceHandleTypeSyncFdBit
	}
	return 0
}

func AllFenceHandleTypes() []ExternalFenceHandleType {
	return []ExternalFenceHandleType{
		FenceHandleTypeOpaqueFd,
		FenceHandleTypeOpaqueWin32,
		FenceHandleTypeOpaqueWin32Kmt,
		FenceHandleTypeSyncFd,
	}
}

func FenceHandleTypesToVk(types []ExternalFenceHandleType) vk.ExternalFenceHandleTypeFlags {
	var flags vk.ExternalFenceHandleTypeFlags
	for _, t := range types {
		flags |= vk.ExternalFenceHandleTypeFlags(t.ToVk())
	}
	return flags
}

func FenceHandleTypesFromVk(flags vk.ExternalFenceHandleTypeFlags) []ExternalFenceHandleType {
	var types []ExternalFenceHandleType
	for _, t := range AllFenceHandleTypes() {
		if flags&vk.ExternalFenceHandleTypeFlags(t.ToVk()) != 0 {
			types = append(types, t)
		}
	}
	return types
}

func normalizeFenceHandleTypes(types []ExternalFenceHandleType) []ExternalFenceHandleType {
	out := slices.Clone(types)
	slices.Sort(out)
	return slices.Compact(out)
}
