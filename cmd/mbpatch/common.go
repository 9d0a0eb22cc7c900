package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/multiboot-dev/mbpatch/internal/application/errors"
)

// CommonOptions contains flags shared across commands that render results.
type CommonOptions struct {
	// Output
	Format string

	// Execution
	Timeout time.Duration

	Indent bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 10 * time.Minute,
		Format:  "table",
		Indent:  true,
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for the whole command (0 to disable)")
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml")
	cmd.Flags().BoolVar(&opts.Indent, "indent", opts.Indent,
		"Indent JSON output")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	validFormats := map[string]bool{
		"table": true, "json": true, "yaml": true,
	}
	if !validFormats[opts.Format] {
		return apperrors.NewValidationError("format", "unsupported output format "+opts.Format, "valid: table, json, yaml")
	}
	if opts.Timeout < 0 {
		return apperrors.NewValidationError("timeout", "must not be negative")
	}

	return nil
}
