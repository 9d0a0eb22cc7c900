// Package container provides dependency injection for the application.
package container

import (
	"context"
	"log/slog"

	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/application/services"
	domainservices "github.com/multiboot-dev/mbpatch/internal/domain/services"
	"github.com/multiboot-dev/mbpatch/internal/infrastructure/output"
	"github.com/multiboot-dev/mbpatch/internal/infrastructure/patchengine"
	"github.com/multiboot-dev/mbpatch/internal/infrastructure/profilefile"
	"github.com/multiboot-dev/mbpatch/internal/infrastructure/prompt"
	"github.com/multiboot-dev/mbpatch/internal/infrastructure/system"
	"github.com/multiboot-dev/mbpatch/internal/profiles"
)

// Container holds all application dependencies.
type Container struct {
	systemConfig     ports.SystemConfigProvider
	catalogLoader    ports.ProfileCatalogLoader
	engine           *patchengine.ZipEngine
	registry         *domainservices.ProfileRegistry
	patchService     *services.PatchService
	formatterFactory *output.FormatterFactory
	systemCfg        *system.Config
	logger           *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger           *slog.Logger
	SystemConfigPath string

	// OutputDir overrides output.dir from the system config.
	OutputDir string

	// ProfileFiles are loaded after those listed in the system config.
	ProfileFiles []string

	// Force replaces existing outputs without asking.
	Force bool
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Load system config
	systemConfig := system.NewConfigLoader()
	systemCfg, err := systemConfig.LoadConfig(context.TODO(), opts.SystemConfigPath)
	if err != nil {
		opts.Logger.Warn("failed to load system config, using defaults", "path", opts.SystemConfigPath, "error", err)
		systemCfg = system.DefaultConfig()
	}

	// Command-line flags take precedence over the config file
	engineOpts := patchengine.Options{
		OutputDir: systemCfg.Output.Dir,
		Suffix:    systemCfg.Output.Suffix,
	}
	if opts.OutputDir != "" {
		engineOpts.OutputDir = opts.OutputDir
	}
	switch {
	case opts.Force || systemCfg.Output.GetOverwritePolicy() == system.OverwriteAlways:
		engineOpts.Overwrite = true
	case systemCfg.Output.GetOverwritePolicy() == system.OverwriteAsk:
		engineOpts.Confirmer = prompt.NewTerminalPrompter()
	}
	engine := patchengine.NewZipEngine(engineOpts, opts.Logger)

	catalogLoader, err := profilefile.NewLoader(engine)
	if err != nil {
		return nil, err
	}

	// Build phase: built-in profiles first, then catalogs in order
	registry := domainservices.NewProfileRegistry(opts.Logger)
	registry.RegisterSources(profiles.Builtin(engine)...)

	catalogs := append(append([]string{}, systemCfg.ProfileFiles...), opts.ProfileFiles...)
	for _, path := range catalogs {
		sources, err := catalogLoader.LoadSources(path)
		if err != nil {
			opts.Logger.Warn("skipping profile catalog", "path", path, "error", err)
			continue
		}
		registry.RegisterSources(sources...)
	}
	registry.Seal()
	opts.Logger.Debug("profile registry ready", "profiles", registry.Len(), "catalogs", len(catalogs))

	dispatcher := services.NewDispatcher(opts.Logger)
	patchService := services.NewPatchService(registry, dispatcher, opts.Logger)

	return &Container{
		systemConfig:     systemConfig,
		catalogLoader:    catalogLoader,
		engine:           engine,
		registry:         registry,
		patchService:     patchService,
		formatterFactory: output.NewFormatterFactory(),
		systemCfg:        systemCfg,
		logger:           opts.Logger,
	}, nil
}

// PatchService returns the patch use case.
func (c *Container) PatchService() *services.PatchService {
	return c.patchService
}

// Registry returns the sealed profile registry.
func (c *Container) Registry() *domainservices.ProfileRegistry {
	return c.registry
}

// Engine returns the patch engine.
func (c *Container) Engine() *patchengine.ZipEngine {
	return c.engine
}

// CatalogLoader returns the profile catalog loader port.
func (c *Container) CatalogLoader() ports.ProfileCatalogLoader {
	return c.catalogLoader
}

// FormatterFactory returns the output formatter factory.
func (c *Container) FormatterFactory() *output.FormatterFactory {
	return c.formatterFactory
}

// SystemConfig returns the system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
