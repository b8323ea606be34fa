package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/stemline/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stemline %s\n", app.Version)
	},
}
