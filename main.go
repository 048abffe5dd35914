/*
Example application that brings up an instance and a device, reports the
external-semaphore capabilities of the selected GPU and exercises the
primitive pools.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/valkyrie/engine/config"
	"github.com/spaghettifunk/valkyrie/engine/core"
	"github.com/spaghettifunk/valkyrie/engine/vulkan"
)

const configPath = "config.toml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		core.LogWarn("no usable %s (%v), using defaults", configPath, err)
		cfg = config.Default()
	}
	applyLogging(cfg)

	watcher, err := config.WatchFile(configPath, applyLogging)
	if err != nil {
		core.LogWarn("config watcher unavailable, reloads disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %v", err)
	}
	defer glfw.Terminate()

	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		core.LogFatal("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		core.LogFatal("failed to initialize vk: %v", err)
	}

	instance, err := vulkan.NewInstance(vulkan.InstanceOptions{
		AppName: cfg.App.Name,
		Extensions: []string{
			vulkan.ExtGetPhysicalDeviceProperties2,
			vulkan.ExtExternalSemaphoreCapabilities,
			vulkan.ExtExternalFenceCapabilities,
		},
		ProcAddr: procAddr,
	})
	if err != nil {
		core.LogFatal("instance creation failed: %v", err)
	}
	defer instance.Destroy()

	device, err := instance.OpenDevice(vulkan.DeviceConfig{
		Extensions:        []string{vulkan.ExtExternalSemaphore, vulkan.ExtExternalFence},
		PrewarmSemaphores: cfg.Pools.Semaphores,
		PrewarmFences:     cfg.Pools.Fences,
		PrewarmEvents:     cfg.Pools.Events,
	})
	if err != nil {
		core.LogFatal("device creation failed: %v", err)
	}

	reportExportability(device, cfg)
	exercisePools(device)

	// Keep running so config reloads can be observed; Ctrl-C to exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigCh

	if err := device.Destroy(); err != nil {
		core.LogError("device teardown: %v", err)
	}
}

func applyLogging(cfg *config.Config) {
	level, err := core.ParseLevel(cfg.Logging.Level)
	if err != nil {
		core.LogWarn("%v, keeping current level", err)
		return
	}
	core.SetLevel(level)
}

func reportExportability(device *vulkan.Device, cfg *config.Config) {
	var requested []vulkan.ExternalSemaphoreHandleType
	for _, name := range cfg.External.SemaphoreHandleTypes {
		handleType, ok := vulkan.ParseSemaphoreHandleType(name)
		if !ok {
			core.LogWarn("unknown semaphore handle type %q in config, skipping", name)
			continue
		}
		requested = append(requested, handleType)
	}
	if len(requested) == 0 {
		core.LogInfo("no external semaphore handle types requested")
		return
	}

	semaphore, err := vulkan.NewExportableSemaphore(device, requested...)
	if err != nil {
		core.LogWarn("exportable semaphore not available: %v", err)
		return
	}
	defer semaphore.Release()
	core.LogInfo("created a semaphore exportable to %v", cfg.External.SemaphoreHandleTypes)
}

func exercisePools(device *vulkan.Device) {
	const frames = 100
	for i := 0; i < frames; i++ {
		s, err := vulkan.SemaphoreFromPool(device)
		if err != nil {
			core.LogError("semaphore from pool: %v", err)
			return
		}
		f, err := vulkan.FenceFromPool(device)
		if err != nil {
			core.LogError("fence from pool: %v", err)
			s.Release()
			return
		}
		f.Release()
		s.Release()
	}

	stats := core.MetricsPool("semaphore")
	core.LogInfo("semaphore pool after %d frames: %d hits, %d misses, %d gives",
		frames, stats.Hits, stats.Misses, stats.Gives)
}
