package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/ctxlog"
	"github.com/vk/itemforge/internal/registry"
	"github.com/vk/itemforge/internal/resolver"
	"github.com/vk/itemforge/internal/vanilla"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter
	resolver  *resolver.Resolver
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup faults (unloadable configuration, invalid handler registrations,
// broken inheritance) are programmer or configuration errors, so it panics;
// the entrypoint recovers and exits cleanly.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all item definitions into the format-agnostic model first.
	model, converter, err := loader.Load(ctx, appConfig.ItemsPath)
	if err != nil {
		panic(fmt.Errorf("failed to load item definitions: %w", err))
	}
	logger.Debug("Item definitions loaded into unified model.", "items", len(model.Order))

	// Create and populate the registry with Go handler modules.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go handler modules registered.", "count", len(modules))

	catalog := vanilla.Default()

	// Validate the integrity of the registry against the vanilla catalog.
	if err := reg.Validate(ctx, catalog); err != nil {
		// A mismatch between compiled handlers and the catalog is a
		// programmer error, so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	res, err := resolver.New(model, reg, converter, catalog)
	if err != nil {
		// Cyclic or dangling inheritance is a fatal configuration error.
		panic(fmt.Errorf("invalid item configuration: %w", err))
	}
	logger.Debug("Resolver constructed, inheritance graph validated.")

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		model:     model,
		converter: converter,
		resolver:  res,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Resolver returns the application's resolver. This is primarily for testing.
func (a *App) Resolver() *resolver.Resolver {
	return a.resolver
}

// Model returns the loaded item model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
