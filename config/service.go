package config

import (
	"fmt"

	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/observability"
	"github.com/kbukum/dirge/validation"
)

// ServiceConfig contains the fields every dirge application needs.
// Applications extend it by embedding it in their own config structs.
//
// Example:
//
//	type DemoConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
type ServiceConfig struct {
	Name        string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string               `yaml:"version" mapstructure:"version"`
	Debug       bool                 `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config        `yaml:"logging" mapstructure:"logging"`
	Registry    RegistryConfig       `yaml:"registry" mapstructure:"registry"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded, this method is promoted so the embedding struct
// satisfies bootstrap's Config interface.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills unset fields. Embedding structs that override it
// should call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	c.Registry.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks struct tags first, then the logging section.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
