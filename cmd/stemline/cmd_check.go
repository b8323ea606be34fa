package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/stemline/internal/app"
	"github.com/handiism/stemline/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the external tools are installed",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(configPath())
	if err != nil {
		return err
	}

	report := app.CheckDependencies(settings)
	out := cmd.OutOrStdout()
	for _, line := range report.Lines() {
		fmt.Fprintln(out, line)
	}
	if err := report.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out, "DONE!")
	return nil
}
