// Package bootstrap orchestrates the lifecycle of a dirge application.
//
// An App owns a typed configuration, a logger, a component registry and a
// dependency registry. NewApp assigns the config, logger and component
// registry into the dependency registry and registers the dependency
// registry as a component, so configured warm dependencies are resolved
// during startup and instances are closed during shutdown.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil { ... }
//	app.Provide("clock", newClock)
//	app.RegisterComponent(srv)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
