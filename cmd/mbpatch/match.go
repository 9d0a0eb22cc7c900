package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
	apperrors "github.com/multiboot-dev/mbpatch/internal/application/errors"
)

func init() {
	rootCmd.AddCommand(newMatchCmd())
}

func newMatchCmd() *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:   "match <file>...",
		Short: "Show which profile handles each archive",
		Long: `Resolve archive file names against the registered profiles without
opening the archives. Exits non-zero if any file is unsupported or
ambiguous.`,
		Example: `  mbpatch match gapps-kk-20140105.zip
  mbpatch match --device jflte ~/Downloads/*.zip`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.ValidateFlags()
		},
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			device := targetDevice()
			svc := ctx.Container.PatchService()

			matches := make([]dto.MatchResult, 0, len(args))
			unresolved := 0
			for _, file := range args {
				m := svc.Match(file, device)
				if m.Error != "" {
					unresolved++
				}
				matches = append(matches, m)
			}

			formatter, err := newFormatter(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if err := formatter.FormatMatches(matches); err != nil {
				return fmt.Errorf("failed to write matches: %w", err)
			}

			if unresolved > 0 {
				return apperrors.NewBatchError(unresolved, len(args))
			}
			return nil
		}),
	}

	opts.RegisterFlags(cmd)

	return cmd
}
