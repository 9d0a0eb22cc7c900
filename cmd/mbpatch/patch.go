package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
	apperrors "github.com/multiboot-dev/mbpatch/internal/application/errors"
)

func init() {
	rootCmd.AddCommand(newPatchCmd())
}

func newPatchCmd() *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:   "patch <file>...",
		Short: "Patch archives for multi-boot installation",
		Long: `Resolve each archive to its patch profile and write a patched copy.
Archives are processed concurrently; a failure affects only its own
archive. Inputs are never modified. Exits non-zero if any archive
failed.`,
		Example: `  mbpatch patch cm-11-20140101-NIGHTLY-jflte.zip
  mbpatch patch --device jflte --jobs 4 --output-dir out/ *.zip
  mbpatch patch --force --format json rom.zip`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}
			if viper.GetInt("jobs") < 0 {
				return apperrors.NewValidationError("jobs", "must not be negative")
			}
			return nil
		},
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			runCtx, cancel := opts.ApplyToContext(ctx.Context)
			defer cancel()

			device := targetDevice()
			reqs := make([]dto.PatchRequest, 0, len(args))
			for _, file := range args {
				reqs = append(reqs, dto.PatchRequest{ArchivePath: file, Device: device})
			}

			ctx.Logger.Debug("patching archives", "count", len(reqs), "device", device, "jobs", viper.GetInt("jobs"))
			results := ctx.Container.PatchService().PatchAll(runCtx, reqs, dto.PatchOptions{
				Jobs: viper.GetInt("jobs"),
			})

			formatter, err := newFormatter(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if err := formatter.FormatPatchResults(results); err != nil {
				return fmt.Errorf("failed to write results: %w", err)
			}

			failed := 0
			for _, r := range results {
				if r.Failed() {
					failed++
				}
			}
			if failed > 0 {
				return apperrors.NewBatchError(failed, len(results))
			}
			return nil
		}),
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().Int("jobs", 0, "maximum concurrent dispatches (0 = number of CPUs)")
	cmd.Flags().String("output-dir", "", "directory for patched archives (default: next to each input)")
	cmd.Flags().Bool("force", false, "replace existing outputs without asking")

	_ = viper.BindPFlag("jobs", cmd.Flags().Lookup("jobs"))

	return cmd
}
