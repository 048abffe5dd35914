package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/valkyrie/engine/core"
)

// Instance wraps a Vulkan instance together with the set of extensions it
// was created with, which the capability gate reads.
type Instance struct {
	handle     vk.Instance
	extensions ExtensionSet
	extQueries externalCapabilityQueries
}

type InstanceOptions struct {
	AppName string
	// Instance extensions to enable. For exportable primitives this should
	// include ExtGetPhysicalDeviceProperties2 and the external-capability
	// extensions; the gate reports what is missing otherwise.
	Extensions []string
	// ProcAddr is the loader's vkGetInstanceProcAddr, the same pointer
	// handed to vk.SetGetInstanceProcAddr. It is used to resolve the
	// external-capability queries the generated binding does not wrap;
	// when nil the capability tables stay empty.
	ProcAddr unsafe.Pointer
}

// NewInstance creates the Vulkan instance. The loader entry points must
// already be installed (vk.SetGetInstanceProcAddr + vk.Init).
func NewInstance(options InstanceOptions) (*Instance, error) {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   safeString(options.AppName),
		PEngineName:        safeString("Valkyrie"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(options.Extensions)),
		PpEnabledExtensionNames: safeStrings(options.Extensions),
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return nil, fmt.Errorf("instance creation failed: %s", ResultString(res))
	}
	core.LogInfo("instance created with extensions %v", options.Extensions)

	return &Instance{
		handle:     instance,
		extensions: NewExtensionSet(options.Extensions...),
		extQueries: resolveExternalCapabilityQueries(options.ProcAddr, instance),
	}, nil
}

func (i *Instance) Handle() vk.Instance {
	return i.handle
}

func (i *Instance) Extensions() ExtensionSet {
	return i.extensions
}

func (i *Instance) Destroy() {
	if i.handle != nil {
		vk.DestroyInstance(i.handle, nil)
		i.handle = nil
	}
}

type DeviceConfig struct {
	// Device extensions to enable (e.g. ExtExternalSemaphore).
	Extensions []string

	PrewarmSemaphores int
	PrewarmFences     int
	PrewarmEvents     int
}

// OpenDevice selects the first physical device carrying the required
// extensions, creates a logical device on its first queue family, queries
// the external-capability tables and wires everything into a Device.
func (i *Instance) OpenDevice(config DeviceConfig) (*Device, error) {
	physicalDevice, err := i.selectPhysicalDevice(config.Extensions)
	if err != nil {
		return nil, err
	}

	// Synchronization primitives are queue-agnostic; any family will do.
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, nil)
	if queueFamilyCount == 0 {
		return nil, fmt.Errorf("physical device reports no queue families")
	}

	queuePriority := float32(1.0)
	queueCreateInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: 0,
		QueueCount:       1,
		PQueuePriorities: []float32{queuePriority},
	}}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    1,
		PQueueCreateInfos:       queueCreateInfos,
		EnabledExtensionCount:   uint32(len(config.Extensions)),
		PpEnabledExtensionNames: safeStrings(config.Extensions),
	}

	var logicalDevice vk.Device
	if res := vk.CreateDevice(physicalDevice, &deviceCreateInfo, nil, &logicalDevice); res != vk.Success {
		return nil, fmt.Errorf("logical device creation failed: %s", ResultString(res))
	}
	core.LogInfo("logical device created")

	var semaphoreCaps ExternalSemaphoreCapabilities
	var fenceCaps ExternalFenceCapabilities
	if i.extensions.Has(ExtGetPhysicalDeviceProperties2) {
		if i.extensions.Has(ExtExternalSemaphoreCapabilities) {
			semaphoreCaps = i.QueryExternalSemaphoreCapabilities(physicalDevice)
		}
		if i.extensions.Has(ExtExternalFenceCapabilities) {
			fenceCaps = i.QueryExternalFenceCapabilities(physicalDevice)
		}
	}

	device, err := NewDevice(DeviceOptions{
		Commands:              NewDeviceCommands(logicalDevice, nil),
		InstanceExtensions:    i.extensions.Names(),
		Extensions:            config.Extensions,
		SemaphoreCapabilities: semaphoreCaps,
		FenceCapabilities:     fenceCaps,
		PrewarmSemaphores:     config.PrewarmSemaphores,
		PrewarmFences:         config.PrewarmFences,
		PrewarmEvents:         config.PrewarmEvents,
		Close: func() {
			vk.DestroyDevice(logicalDevice, nil)
		},
	})
	if err != nil {
		vk.DestroyDevice(logicalDevice, nil)
		return nil, err
	}
	return device, nil
}

func (i *Instance) selectPhysicalDevice(requiredExtensions []string) (vk.PhysicalDevice, error) {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(i.handle, &physicalDeviceCount, nil); res != vk.Success {
		return nil, fmt.Errorf("enumerating physical devices failed: %s", ResultString(res))
	}
	if physicalDeviceCount == 0 {
		return nil, fmt.Errorf("no devices which support Vulkan were found")
	}

	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(i.handle, &physicalDeviceCount, physicalDevices); res != vk.Success {
		return nil, fmt.Errorf("enumerating physical devices failed: %s", ResultString(res))
	}

	for _, candidate := range physicalDevices {
		properties := vk.PhysicalDeviceProperties{}
		vk.GetPhysicalDeviceProperties(candidate, &properties)
		properties.Deref()
		name := cstring(properties.DeviceName[:])

		if !deviceHasExtensions(candidate, requiredExtensions) {
			core.LogDebug("device '%s' is missing required extensions, skipping", name)
			continue
		}

		core.LogInfo("selected device: '%s'", name)
		return candidate, nil
	}
	return nil, fmt.Errorf("no physical device carries the required extensions %v", requiredExtensions)
}

func deviceHasExtensions(device vk.PhysicalDevice, required []string) bool {
	var availableCount uint32
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &availableCount, nil); res != vk.Success {
		return false
	}
	available := make([]vk.ExtensionProperties, availableCount)
	if availableCount != 0 {
		if res := vk.EnumerateDeviceExtensionProperties(device, "", &availableCount, available); res != vk.Success {
			return false
		}
	}

	names := NewExtensionSet()
	for idx := range available {
		available[idx].Deref()
		names[cstring(available[idx].ExtensionName[:])] = struct{}{}
	}
	for _, req := range required {
		if !names.Has(req) {
			return false
		}
	}
	return true
}

var end = "\x00"
var endChar byte = '\x00'

func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

// cstring trims a fixed-size byte array at its first NUL.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
