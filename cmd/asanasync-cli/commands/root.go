// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "asanasync-cli",
	Short: "Management cli",
	Long:  `The asanasync cli synchronizes the local database with Asana and manages the schema.`,
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}
