package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	profilesCmd.AddCommand(newProfilesListCmd())
}

func newProfilesListCmd() *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered profiles",
		Long:  `List every registered patch profile ordered by identifier.`,
		Example: `  mbpatch profiles list
  mbpatch profiles list --format json --profiles extra.yaml`,
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.ValidateFlags()
		},
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			formatter, err := newFormatter(ctx, cmd, opts)
			if err != nil {
				return err
			}

			if err := formatter.FormatProfiles(ctx.Container.PatchService().ListProfiles()); err != nil {
				return fmt.Errorf("failed to write profiles: %w", err)
			}
			return nil
		}),
	}

	opts.RegisterFlags(cmd)

	return cmd
}
