package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization.
// Handles common setup: config loading, logger creation, dependency injection.
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		// Patch-only flags; absent on other commands
		outputDir, _ := cmd.Flags().GetString("output-dir")
		force, _ := cmd.Flags().GetBool("force")

		c, err := container.New(container.Options{
			Logger:           logger,
			SystemConfigPath: systemConfigPath(),
			OutputDir:        outputDir,
			ProfileFiles:     extraProfileFiles(cmd),
			Force:            force,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := &CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}
		if ctx.Context == nil {
			ctx.Context = context.Background()
		}

		return handler(ctx, cmd, args)
	}
}

// extraProfileFiles returns catalogs named on the command line. Catalogs
// listed in the config file are loaded by the container itself.
func extraProfileFiles(cmd *cobra.Command) []string {
	files, _ := cmd.Flags().GetStringSlice("profiles")
	return files
}

// targetDevice returns the device from --device, MBPATCH_DEVICE or the
// config file, in that order.
func targetDevice() string {
	return viper.GetString("device")
}

// newFormatter builds the formatter selected by opts for cmd's output.
func newFormatter(c *CommandContext, cmd *cobra.Command, opts CommonOptions) (ports.OutputFormatter, error) {
	return c.Container.FormatterFactory().Create(opts.Format, cmd.OutOrStdout(), ports.FormatterOptions{
		Indent: opts.Indent,
	})
}
