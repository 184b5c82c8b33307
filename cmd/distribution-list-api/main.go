// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Command distribution-list-api serves the distribution list displayer over
// NATS and offers a terminal browser for the same sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/config"
)

// cfg is loaded before any subcommand runs
var cfg *config.Config

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "distribution-list-api",
		Short: "Browse the distribution lists of a groupware account",
		Long: `distribution-list-api keeps displayer sessions for the distribution lists
a groupware account owns or belongs to. "serve" answers the displayer commands
over NATS, "browse" opens the terminal browser and "list" prints a list view.`,
		PersistentPreRunE: preRunConfigE,
		SilenceUsage:      true,
	}

	root.PersistentFlags().String("config", "", "path to the YAML configuration file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newListCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
