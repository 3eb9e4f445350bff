// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/controllers"
	"github.com/mirrorhq/asanasync/daemons"
	"github.com/mirrorhq/asanasync/database"
	"github.com/mirrorhq/asanasync/database/repositories"
	"github.com/mirrorhq/asanasync/middlewares"
	"github.com/mirrorhq/asanasync/router"
	"github.com/mirrorhq/asanasync/shared"
	"github.com/mirrorhq/asanasync/sync"
)

func main() {
	shared.InitLogger()
	if err := shared.LoadConfig(); err != nil {
		slog.Debug("no .env file found", "err", err)
	}
	config, err := shared.ConfigFromEnv()
	if err != nil {
		slog.Error("could not load configuration", "err", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(
		config.PostgresHost, config.PostgresUser, config.PostgresPassword,
		config.PostgresDB, config.PostgresPort)
	if err != nil {
		slog.Error("could not connect to database", "err", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db); err != nil {
		slog.Error("could not run migrations", "err", err)
		os.Exit(1)
	}

	repos := repositories.NewRepositories(db)
	client, err := asana.NewClient(config.AccessToken)
	if err != nil {
		slog.Error("could not create Asana client", "err", err)
		os.Exit(1)
	}
	service := sync.NewService(shared.NewRemoteAPI(client), repos, &config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval, _ := time.ParseDuration(os.Getenv("SYNC_INTERVAL"))
	go daemons.NewSyncDaemon(service, interval).Start(ctx)

	e := middlewares.Server()
	webhookController := controllers.NewWebhookController(service, repos.Projects, repos.Webhooks)
	router.Register(e, webhookController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("could not shut down server", "err", err)
		}
	}()
	if err := e.Start(":" + port); err != nil {
		slog.Error("server stopped", "err", err)
	}
}
