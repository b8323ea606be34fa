package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/stemline/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file if none exists",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func settingsPath() string {
	if p := configPath(); p != "" {
		return p
	}
	return config.DefaultPath()
}

func runConfig(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(configPath())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", settingsPath())
	fmt.Fprintln(out, string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := settingsPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.DefaultSettings().Save(path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
