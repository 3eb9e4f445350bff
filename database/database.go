// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mirrorhq/asanasync/database/models"
)

func NewConnection(host, user, password, dbname, port string) (*gorm.DB, error) {
	// https://github.com/go-gorm/postgres
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname),
	}), &gorm.Config{
		Logger: logger.Default,
	})

	if err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations brings the schema up to date for all mirrored models.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Workspace{},
		&models.Team{},
		&models.User{},
		&models.Tag{},
		&models.Project{},
		&models.ProjectStatus{},
		&models.Task{},
		&models.Story{},
		&models.Attachment{},
		&models.CustomField{},
		&models.CustomFieldSetting{},
		&models.Webhook{},
		&models.SyncToken{},
	)
}

func IsDuplicateKeyError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "ERROR: duplicate key value violates unique constraint")
}
