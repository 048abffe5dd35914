package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/valkyrie/engine/core"
)

// OomError reports host or device memory exhaustion during a native creation
// call. It is never retried here; retry policy belongs to the application.
type OomError struct {
	Result vk.Result
}

func (e *OomError) Error() string {
	return fmt.Sprintf("out of memory (%s)", ResultString(e.Result))
}

// MissingInstanceExtensionError reports a required instance extension that
// was not enabled when the instance was created.
type MissingInstanceExtensionError struct {
	Extension string
}

func (e *MissingInstanceExtensionError) Error() string {
	return fmt.Sprintf("instance extension %s not enabled", e.Extension)
}

// MissingDeviceExtensionError reports a required device extension that was
// not enabled when the device was created.
type MissingDeviceExtensionError struct {
	Extension string
}

func (e *MissingDeviceExtensionError) Error() string {
	return fmt.Sprintf("device extension %s not enabled", e.Extension)
}

// HandleTypeNotSupportedError reports a requested external handle type the
// implementation cannot export to.
type HandleTypeNotSupportedError struct {
	HandleType ExternalHandleType
}

func (e *HandleTypeNotSupportedError) Error() string {
	return fmt.Sprintf("external handle type %s not supported by the implementation", e.HandleType)
}

// IncompatibleHandleTypesError reports two requested external handle types
// that cannot be used together on the same primitive.
type IncompatibleHandleTypesError struct {
	First  ExternalHandleType
	Second ExternalHandleType
}

func (e *IncompatibleHandleTypesError) Error() string {
	return fmt.Sprintf("external handle types %s and %s are not compatible", e.First, e.Second)
}

// translateCreateResult maps the result of a native creation call onto the
// error taxonomy. After the capability gate has passed, the only legitimate
// failure codes are the two out-of-memory ones; anything else means the gate
// or the native layer broke an invariant, which is not a recoverable
// condition and must not be coerced into a defined error kind.
func translateCreateResult(result vk.Result, call string) error {
	switch result {
	case vk.Success:
		return nil
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory:
		return &OomError{Result: result}
	}
	core.LogError("%s returned %s, which the capability gate should have made unreachable", call, ResultString(result))
	panic(fmt.Sprintf("vulkan: unexpected %s from %s", ResultString(result), call))
}

// ResultString names the result codes this library can meet.
func ResultString(result vk.Result) string {
	switch result {
	case vk.Success:
		return "VK_SUCCESS"
	case vk.NotReady:
		return "VK_NOT_READY"
	case vk.Timeout:
		return "VK_TIMEOUT"
	case vk.EventSet:
		return "VK_EVENT_SET"
	case vk.EventReset:
		return "VK_EVENT_RESET"
	case vk.ErrorOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case vk.ErrorOutOfDeviceMemory:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case vk.ErrorInitializationFailed:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case vk.ErrorDeviceLost:
		return "VK_ERROR_DEVICE_LOST"
	case vk.ErrorLayerNotPresent:
		return "VK_ERROR_LAYER_NOT_PRESENT"
	case vk.ErrorExtensionNotPresent:
		return "VK_ERROR_EXTENSION_NOT_PRESENT"
	case vk.ErrorFeatureNotPresent:
		return "VK_ERROR_FEATURE_NOT_PRESENT"
	case vk.ErrorIncompatibleDriver:
		return "VK_ERROR_INCOMPATIBLE_DRIVER"
	case vk.ErrorTooManyObjects:
		return "VK_ERROR_TOO_MANY_OBJECTS"
	case vk.ErrorInvalidExternalHandle:
		return "VK_ERROR_INVALID_EXTERNAL_HANDLE"
	}
	return fmt.Sprintf("VK_RESULT(%d)", int32(result))
}
