// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database"
	"github.com/mirrorhq/asanasync/database/repositories"
	"github.com/mirrorhq/asanasync/shared"
	"github.com/mirrorhq/asanasync/sync"
)

func NewSyncCommand() *cobra.Command {
	var (
		workspaces    []string
		projects      []string
		models        []string
		modelsExclude []string
		archive       bool
		nocommit      bool
		noinput       bool
	)

	syncCmd := cobra.Command{
		Use:   "sync",
		Short: "Import data from Asana and insert/update local rows",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := sync.NewModelFilter(models, modelsExclude)
			if err != nil {
				return err
			}
			if !nocommit && !noinput {
				fmt.Println("WARNING: This will irreparably synchronize your local database from Asana.")
				if !confirm() {
					fmt.Println("No action taken.")
					return nil
				}
			}

			config, err := shared.ConfigFromEnv()
			if err != nil {
				return err
			}
			db, err := database.NewConnection(
				config.PostgresHost, config.PostgresUser, config.PostgresPassword,
				config.PostgresDB, config.PostgresPort)
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db); err != nil {
				return err
			}

			client, err := asana.NewClient(config.AccessToken)
			if err != nil {
				return err
			}
			service := sync.NewService(shared.NewRemoteAPI(client), repositories.NewRepositories(db), &config)

			return service.SyncAll(cmd.Context(), sync.Options{
				Workspaces:      workspaces,
				Projects:        projects,
				Filter:          filter,
				ProcessArchived: archive,
				DryRun:          nocommit,
			})
		},
	}

	syncCmd.Flags().StringArrayVarP(&workspaces, "workspace", "w", nil,
		"Sync only the named workspace (can be used multiple times). By default all workspaces will be updated from Asana.")
	syncCmd.Flags().StringArrayVarP(&projects, "project", "p", nil,
		"Sync only the named project (can be used multiple times). By default all projects will be updated from Asana.")
	syncCmd.Flags().StringArrayVarP(&models, "model", "m", nil,
		"Sync only the named model (can be used multiple times). By default all models will be updated from Asana.")
	syncCmd.Flags().StringArrayVar(&modelsExclude, "model-exclude", nil,
		"Exclude the named model (can be used multiple times).")
	syncCmd.Flags().BoolVarP(&archive, "archive", "a", false,
		"Sync project tasks even if the project is archived. The project row itself is always updated, perhaps becoming marked as archived.")
	syncCmd.Flags().BoolVar(&nocommit, "nocommit", false,
		"Will not commit changes to the database.")
	syncCmd.Flags().BoolVar(&noinput, "noinput", false,
		"If provided, no prompts will be issued to the user and the data will be synced.")

	return &syncCmd
}

func confirm() bool {
	fmt.Print("Are you sure you wish to continue? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		slog.Debug("could not read answer", "err", err)
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
}
