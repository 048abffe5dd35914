package vulkan

import "golang.org/x/exp/slices"

// ExternalSemaphoreProperties is the queried feature descriptor for one
// semaphore handle type on one physical device.
type ExternalSemaphoreProperties struct {
	Exportable            bool
	Importable            bool
	CompatibleHandleTypes []ExternalSemaphoreHandleType
}

// ExternalSemaphoreCapabilities maps each handle type to its descriptor.
// Absent entries mean the handle type is unsupported.
type ExternalSemaphoreCapabilities map[ExternalSemaphoreHandleType]ExternalSemaphoreProperties

// ExternalFenceProperties is the fence counterpart of
// ExternalSemaphoreProperties.
type ExternalFenceProperties struct {
	Exportable            bool
	Importable            bool
	CompatibleHandleTypes []ExternalFenceHandleType
}

type ExternalFenceCapabilities map[ExternalFenceHandleType]ExternalFenceProperties

// checkExportableSemaphore decides whether the device may create a semaphore
// exportable to every requested handle type. Pure validation: it performs no
// native calls and never mutates the capability tables.
//
// Compatibility is checked across every unordered pair of requested types,
// not against a single reference type, because the underlying capability
// model does not guarantee transitivity.
func checkExportableSemaphore(device *Device, handleTypes []ExternalSemaphoreHandleType) error {
	if !device.instanceExtensions.Has(ExtGetPhysicalDeviceProperties2) {
		return &MissingInstanceExtensionError{Extension: ExtGetPhysicalDeviceProperties2}
	}
	if !device.instanceExtensions.Has(ExtExternalSemaphoreCapabilities) {
		return &MissingInstanceExtensionError{Extension: ExtExternalSemaphoreCapabilities}
	}
	if !device.extensions.Has(ExtExternalSemaphore) {
		return &MissingDeviceExtensionError{Extension: ExtExternalSemaphore}
	}

	for _, handleType := range handleTypes {
		properties, ok := device.semaphoreCaps[handleType]
		if !ok || !properties.Exportable {
			return &HandleTypeNotSupportedError{HandleType: handleType}
		}
		for _, other := range handleTypes {
			if other == handleType {
				continue
			}
			if !slices.Contains(properties.CompatibleHandleTypes, other) {
				return &IncompatibleHandleTypesError{First: handleType, Second: other}
			}
		}
	}
	return nil
}

// checkExportableFence is the fence counterpart of checkExportableSemaphore,
// gated on the fence capability and extension pair.
func checkExportableFence(device *Device, handleTypes []ExternalFenceHandleType) error {
	if !device.instanceExtensions.Has(ExtGetPhysicalDeviceProperties2) {
		return &MissingInstanceExtensionError{Extension: ExtGetPhysicalDeviceProperties2}
	}
	if !device.instanceExtensions.Has(ExtExternalFenceCapabilities) {
		return &MissingInstanceExtensionError{Extension: ExtExternalFenceCapabilities}
	}
	if !device.extensions.Has(ExtExternalFence) {
		return &MissingDeviceExtensionError{Extension: ExtExternalFence}
	}

	for _, handleType := range handleTypes {
		properties, ok := device.fenceCaps[handleType]
		if !ok || !properties.Exportable {
			return &HandleTypeNotSupportedError{HandleType: handleType}
		}
		for _, other := range handleTypes {
			if other == handleType {
				continue
			}
			if !slices.Contains(properties.CompatibleHandleTypes, other) {
				return &IncompatibleHandleTypesError{First: handleType, Second: other}
			}
		}
	}
	return nil
}
