// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mirrorhq/asanasync/database"
	"github.com/mirrorhq/asanasync/shared"
)

func NewMigrateCommand() *cobra.Command {
	migrate := cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			config, err := shared.ConfigFromEnv()
			if err != nil {
				slog.Error("could not load configuration", "err", err)
				return
			}
			db, err := database.NewConnection(
				config.PostgresHost, config.PostgresUser, config.PostgresPassword,
				config.PostgresDB, config.PostgresPort)
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				return
			}
			if err := database.RunMigrations(db); err != nil {
				slog.Error("could not run migrations", "err", err)
				return
			}
			slog.Info("migrations applied")
		},
	}
	return &migrate
}
