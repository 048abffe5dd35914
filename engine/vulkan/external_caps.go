package vulkan

/*
#include <stdint.h>
#include <stdlib.h>

// The generated binding does not wrap vkGetPhysicalDeviceExternalSemaphoreProperties
// or vkGetPhysicalDeviceExternalFenceProperties, so both are resolved through
// vkGetInstanceProcAddr and called through these layout-compatible
// declarations. The semaphore and fence info/properties struct pairs share
// one shape.

typedef struct VkInstance_T* shimInstance;
typedef struct VkPhysicalDevice_T* shimPhysicalDevice;

typedef struct {
	int32_t     sType;
	const void* pNext;
	uint32_t    handleType;
} shimExternalInfo;

typedef struct {
	int32_t  sType;
	void*    pNext;
	uint32_t exportFromImportedHandleTypes;
	uint32_t compatibleHandleTypes;
	uint32_t features;
} shimExternalProperties;

typedef void* (*shimGetInstanceProcAddrFn)(shimInstance, const char*);
typedef void (*shimExternalQueryFn)(shimPhysicalDevice, const shimExternalInfo*, shimExternalProperties*);

static void* shimResolve(void* loader, shimInstance instance, const char* name) {
	return ((shimGetInstanceProcAddrFn)loader)(instance, name);
}

static void shimQueryExternalProperties(void* fn, shimPhysicalDevice device,
	int32_t infoType, uint32_t handleType, int32_t propertiesType,
	shimExternalProperties* out) {
	shimExternalInfo info = {infoType, NULL, handleType};
	out->sType = propertiesType;
	out->pNext = NULL;
	out->exportFromImportedHandleTypes = 0;
	out->compatibleHandleTypes = 0;
	out->features = 0;
	((shimExternalQueryFn)fn)(device, &info, out);
}
*/
import "C"

import (
	"unsafe"

	vk "github.com/goki/vulkan"
)

// externalCapabilityQueries carries the resolved entry points for the
// external semaphore and fence capability queries. A nil pointer means the
// loader could not provide the entry point; the corresponding capability
// table then stays empty and every handle type reads as unsupported.
type externalCapabilityQueries struct {
	semaphore unsafe.Pointer
	fence     unsafe.Pointer
}

func resolveExternalCapabilityQueries(procAddr unsafe.Pointer, instance vk.Instance) externalCapabilityQueries {
	if procAddr == nil {
		return externalCapabilityQueries{}
	}
	return externalCapabilityQueries{
		semaphore: resolveInstanceProc(procAddr, instance,
			"vkGetPhysicalDeviceExternalSemaphoreProperties",
			"vkGetPhysicalDeviceExternalSemaphorePropertiesKHR"),
		fence: resolveInstanceProc(procAddr, instance,
			"vkGetPhysicalDeviceExternalFenceProperties",
			"vkGetPhysicalDeviceExternalFencePropertiesKHR"),
	}
}

// resolveInstanceProc tries each name in order; the core 1.1 name first,
// then the KHR alias for 1.0 drivers carrying the extension.
func resolveInstanceProc(procAddr unsafe.Pointer, instance vk.Instance, names ...string) unsafe.Pointer {
	for _, name := range names {
		cname := C.CString(name)
		fn := C.shimResolve(procAddr, C.shimInstance(unsafe.Pointer(instance)), cname)
		C.free(unsafe.Pointer(cname))
		if fn != nil {
			return fn
		}
	}
	return nil
}

// QueryExternalSemaphoreCapabilities fills the semaphore capability table
// from the physical device, one query per handle type. Callers must have
// verified that the external-semaphore-capabilities instance extension is
// loaded before using the result for gating.
func (i *Instance) QueryExternalSemaphoreCapabilities(physicalDevice vk.PhysicalDevice) ExternalSemaphoreCapabilities {
	if i.extQueries.semaphore == nil {
		return nil
	}
	caps := make(ExternalSemaphoreCapabilities, len(AllSemaphoreHandleTypes()))
	for _, handleType := range AllSemaphoreHandleTypes() {
		var out C.shimExternalProperties
		C.shimQueryExternalProperties(i.extQueries.semaphore,
			C.shimPhysicalDevice(unsafe.Pointer(physicalDevice)),
			C.int32_t(vk.StructureTypePhysicalDeviceExternalSemaphoreInfo),
			C.uint32_t(handleType.ToVk()),
			C.int32_t(vk.StructureTypeExternalSemaphoreProperties),
			&out)

		features := vk.ExternalSemaphoreFeatureFlagBits(out.features)
		caps[handleType] = ExternalSemaphoreProperties{
			Exportable:            features&vk.ExternalSemaphoreFeatureExportableBit != 0,
			Importable:            features&vk.ExternalSemaphoreFeatureImportableBit != 0,
			CompatibleHandleTypes: SemaphoreHandleTypesFromVk(vk.ExternalSemaphoreHandleTypeFlags(out.compatibleHandleTypes)),
		}
	}
	return caps
}

// QueryExternalFenceCapabilities is the fence counterpart of
// QueryExternalSemaphoreCapabilities.
func (i *Instance) QueryExternalFenceCapabilities(physicalDevice vk.PhysicalDevice) ExternalFenceCapabilities {
	if i.extQueries.fence == nil {
		return nil
	}
	caps := make(ExternalFenceCapabilities, len(AllFenceHandleTypes()))
	for _, handleType := range AllFenceHandleTypes() {
		var out C.shimExternalProperties
		C.shimQueryExternalProperties(i.extQueries.fence,
			C.shimPhysicalDevice(unsafe.Pointer(physicalDevice)),
			C.int32_t(vk.StructureTypePhysicalDeviceExternalFenceInfo),
			C.uint32_t(handleType.ToVk()),
			C.int32_t(vk.StructureTypeExternalFenceProperties),
			&out)

		features := vk.ExternalFenceFeatureFlagBits(out.features)
		caps[handleType] = ExternalFenceProperties{
			Exportable:            features&vk.ExternalFenceFeatureExportableBit != 0,
			Importable:            features&vk.ExternalFenceFeatureImportableBit != 0,
			CompatibleHandleTypes: FenceHandleTypesFromVk(vk.ExternalFenceHandleTypeFlags(out.compatibleHandleTypes)),
		}
	}
	return caps
}
