package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/dirge/bootstrap"
	"github.com/kbukum/dirge/config"
	"github.com/kbukum/dirge/di"
	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/server"
	"github.com/kbukum/dirge/version"
)

const serviceName = "dirge-demo"

func main() {
	var (
		configFile  = flag.String("config", "", "Path to config.yml (searched in standard locations when empty)")
		envFile     = flag.String("env", "", "Path to a .env file (optional)")
		showVersion = flag.Bool("version", false, "Print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		version.Fprint(os.Stdout, serviceName)
		return
	}

	if err := run(context.Background(), *configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, envFile string) error {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg DemoConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	if err := setup(app); err != nil {
		return err
	}
	return app.Run(ctx)
}

// setup registers dependencies, builds the server and wires the lifecycle.
func setup(app *bootstrap.App[*DemoConfig]) error {
	cfg := app.Cfg
	if err := registerDependencies(app.Registry, cfg, app.Logger.WithComponent("demo")); err != nil {
		return err
	}

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyDefaults(app.Name, app.Components.HealthAll, app.Registry)
	app.Registry.Assign(di.Names.HTTPServer, srv)

	h, err := newHandlers(app.Registry)
	if err != nil {
		return err
	}
	h.register(srv.GinEngine())

	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	// greeting may already be warm here; the wrapper then applies to the
	// cached value as well as to future constructions.
	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*DemoConfig]) error {
		return a.Registry.Wrap("greeting", signed(a.Name))
	})

	app.OnReady(func(ctx context.Context) error {
		app.Logger.Info("Demo ready", logger.Fields(
			"url", "http://"+srv.Addr(),
			"dependencies", app.Registry.Len(),
		))
		return nil
	})
	return nil
}
