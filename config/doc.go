// Package config loads dirge application configuration.
//
// LoadConfig searches the usual locations for config.yml and .env, reads
// them with Viper and godotenv, then lets environment variables override
// file values (REGISTRY_CLOSE_TIMEOUT overrides registry.close_timeout).
//
// # Usage
//
//	var cfg DemoConfig
//	if err := config.LoadConfig("dirge-demo", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
