package main

import (
	"fmt"

	"github.com/kbukum/dirge/config"
	"github.com/kbukum/dirge/server"
	"github.com/kbukum/dirge/validation"
)

// DemoConfig is the configuration of the demo service.
type DemoConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server   server.Config  `yaml:"server" mapstructure:"server"`
	Greeting GreetingConfig `yaml:"greeting" mapstructure:"greeting"`
}

// GreetingConfig feeds the greeting and counter dependencies.
type GreetingConfig struct {
	Text         string `yaml:"text" mapstructure:"text"`
	CounterStart int    `yaml:"counter_start" mapstructure:"counter_start" validate:"gte=0"`
}

// ApplyDefaults fills unset fields of every section.
func (c *DemoConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Greeting.Text == "" {
		c.Greeting.Text = "Hello from dirge"
	}
}

// Validate checks the service section and the server section.
func (c *DemoConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := validation.Validate(c.Greeting); err != nil {
		return fmt.Errorf("config.greeting: %w", err)
	}
	return nil
}
