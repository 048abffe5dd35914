package vulkan

import "golang.org/x/exp/slices"

// Extension names this library gates on. Kept as literals so the package
// does not depend on which spec revision the binding was generated from.
const (
	ExtGetPhysicalDeviceProperties2  = "VK_KHR_get_physical_device_properties2"
	ExtExternalSemaphoreCapabilities = "VK_KHR_external_semaphore_capabilities"
	ExtExternalFenceCapabilities     = "VK_KHR_external_fence_capabilities"
	ExtExternalSemaphore             = "VK_KHR_external_semaphore"
	ExtExternalFence                 = "VK_KHR_external_fence"
)

// ExtensionSet records which instance or device extensions are enabled.
type ExtensionSet map[string]struct{}

func NewExtensionSet(names ...string) ExtensionSet {
	s := make(ExtensionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s ExtensionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the enabled extensions sorted for stable logging.
func (s ExtensionSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
