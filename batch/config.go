package batch

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every Config and Options check in the package.
var validate = validator.New()

// Config retrieves the config values used by Service. If these values are
// constant, NewConstantConfig can be used to create an implementation
// of the interface.
//
// The Config interface allows for dynamic configuration of the batching behavior,
// which can be adjusted during runtime. The worker calls Get whenever it starts
// a new batch, so a change only ever affects batches that have not started yet.
type Config interface {
	// Get returns the values for configuration.
	//
	// Zero values are replaced with DefaultMaxBatchSize and DefaultMaxLatency.
	//
	// If the config values may be modified while the service is running, Get
	// must properly handle concurrency issues.
	Get() ConfigValues
}

// ConfigValues is a struct that contains the Service config values.
// These values control when the current batch is closed and flushed.
type ConfigValues struct {
	// MaxBatchSize caps the number of items in a single batch. Once a batch
	// holds MaxBatchSize items it is flushed right away.
	//
	// Larger batches amortize more of the fixed cost of the BatchFunc, at the
	// price of more work being redone when a batch fails and falls back to
	// running each item on its own.
	MaxBatchSize int `json:"maxBatchSize" validate:"gte=0"`

	// MaxLatency bounds the time between the first item of a batch being
	// accepted and the batch being flushed, even if it only holds one item.
	MaxLatency time.Duration `json:"maxLatency" validate:"gte=0"`
}

// Validate reports whether the values are usable. Zero values are valid, and
// mean that the defaults apply.
func (c ConfigValues) Validate() error {
	return validate.Struct(c)
}

// withDefaults replaces zero or negative values with the package defaults.
func (c ConfigValues) withDefaults() ConfigValues {
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.MaxLatency <= 0 {
		c.MaxLatency = DefaultMaxLatency
	}
	return c
}

// NewConstantConfig returns a Config with constant values. If values
// is nil, the default values are used.
func NewConstantConfig(values *ConfigValues) *ConstantConfig {
	if values == nil {
		return &ConstantConfig{}
	}

	return &ConstantConfig{
		values: *values,
	}
}

// ConstantConfig is a Config with constant values. Create one with
// NewConstantConfig.
//
// This implementation is safe to use concurrently since the values
// never change after initialization.
type ConstantConfig struct {
	values ConfigValues
}

// Get implements the Config interface.
func (b *ConstantConfig) Get() ConfigValues {
	return b.values
}

// NewDynamicConfig creates a configuration that can be adjusted at runtime.
// It is thread-safe and suitable for use in environments where batching
// parameters need to change dynamically in response to system conditions.
//
// If values is nil, the default values are used.
func NewDynamicConfig(values *ConfigValues) *DynamicConfig {
	if values == nil {
		return &DynamicConfig{}
	}

	return &DynamicConfig{
		maxBatchSize: values.MaxBatchSize,
		maxLatency:   values.MaxLatency,
	}
}

// DynamicConfig implements the Config interface with values that can be
// modified at runtime.
//
// Unlike ConstantConfig, DynamicConfig allows changing batch parameters while
// the service is running. Batches that are already being collected keep the
// values they started with.
type DynamicConfig struct {
	mu           sync.RWMutex
	maxBatchSize int
	maxLatency   time.Duration
}

// Get implements the Config interface.
func (c *DynamicConfig) Get() ConfigValues {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ConfigValues{
		MaxBatchSize: c.maxBatchSize,
		MaxLatency:   c.maxLatency,
	}
}

// UpdateBatchSize updates the maximum batch size.
func (c *DynamicConfig) UpdateBatchSize(maxBatchSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxBatchSize = maxBatchSize
}

// UpdateLatency updates the maximum latency.
func (c *DynamicConfig) UpdateLatency(maxLatency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxLatency = maxLatency
}

// Update replaces all configuration values at once.
func (c *DynamicConfig) Update(config ConfigValues) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxBatchSize = config.MaxBatchSize
	c.maxLatency = config.MaxLatency
}
