// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Natour CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "natour",
		Short: "Natour - tour booking member management backend",
		Long: `Natour is the member management backend of the tour booking
platform: role-based authorization, password credentials, and the
password reset lifecycle.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewMemberCmd())
	cmd.AddCommand(NewTourCmd())

	return cmd
}
