// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package shared

import (
	"os"

	"github.com/pkg/errors"
)

// Config carries everything the sync engine and the webhook receiver need.
// It is read once from the environment at startup and validated before any
// network or database activity happens.
type Config struct {
	AccessToken string `validate:"required"`
	// WebhookURL is the public base URL under which Asana can reach the
	// webhook receiver. If empty, no webhooks are registered.
	WebhookURL string `validate:"omitempty,url"`
	// Workspace optionally pins all syncs to a single workspace by name or gid.
	Workspace string

	PostgresHost     string `validate:"required"`
	PostgresPort     string `validate:"required"`
	PostgresUser     string `validate:"required"`
	PostgresPassword string `validate:"required"`
	PostgresDB       string `validate:"required"`
}

func ConfigFromEnv() (Config, error) {
	cfg := Config{
		AccessToken:      os.Getenv("ASANA_ACCESS_TOKEN"),
		WebhookURL:       os.Getenv("ASANA_WEBHOOK_URL"),
		Workspace:        os.Getenv("ASANA_WORKSPACE"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     os.Getenv("POSTGRES_PORT"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
	}
	if cfg.PostgresPort == "" {
		cfg.PostgresPort = "5432"
	}

	if err := V.Struct(cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
