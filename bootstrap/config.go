package bootstrap

import (
	"github.com/kbukum/dirge/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) satisfies
// it through promoted methods.
//
// Example:
//
//	type DemoConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
//
//	app, err := bootstrap.NewApp[*DemoConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
