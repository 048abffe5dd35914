package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config drives the example application and device bring-up. All fields
// have workable defaults so a missing file is not an error for callers that
// want one.
type Config struct {
	App struct {
		Name string `toml:"name"`
	} `toml:"app"`

	Logging struct {
		Level string `toml:"level"`
	} `toml:"logging"`

	// Handles created up front and parked in the per-device pools.
	Pools struct {
		Semaphores int `toml:"semaphores"`
		Fences     int `toml:"fences"`
		Events     int `toml:"events"`
	} `toml:"pools"`

	External struct {
		// Semaphore handle types the example app asks the gate for,
		// by name (opaque_fd, opaque_win32, opaque_win32_kmt,
		// d3d12_fence, sync_fd).
		SemaphoreHandleTypes []string `toml:"semaphore_handle_types"`
	} `toml:"external"`
}

func Default() *Config {
	c := &Config{}
	c.App.Name = "valkyrie"
	c.Logging.Level = "info"
	c.Pools.Semaphores = 8
	c.Pools.Fences = 4
	return c
}

// Load reads and validates a TOML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name must not be empty")
	}
	if c.Pools.Semaphores < 0 || c.Pools.Fences < 0 || c.Pools.Events < 0 {
		return fmt.Errorf("pool pre-warm counts must not be negative")
	}
	return nil
}
