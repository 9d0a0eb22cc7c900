package main

import (
	"github.com/spf13/cobra"
)

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect patch profiles",
	Long:  `Inspect the patch profiles known to mbpatch: built-in ones and those loaded from catalog files.`,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
