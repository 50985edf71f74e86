package config

import "time"

// RegistryConfig configures the application's dependency registry.
type RegistryConfig struct {
	// Warm lists dependencies resolved and awaited during startup.
	Warm []string `yaml:"warm" mapstructure:"warm" validate:"dive,depname"`
	// CloseTimeout bounds closing the registry on shutdown.
	CloseTimeout time.Duration `yaml:"close_timeout" mapstructure:"close_timeout" validate:"gte=0"`
	// TraceResolutions records a span per factory invocation.
	TraceResolutions bool `yaml:"trace_resolutions" mapstructure:"trace_resolutions"`
	// Metrics reports resolution counters to the global meter provider.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults fills unset registry fields.
func (c *RegistryConfig) ApplyDefaults() {
	if c.CloseTimeout == 0 {
		c.CloseTimeout = 10 * time.Second
	}
}
