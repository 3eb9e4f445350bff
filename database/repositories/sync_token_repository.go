// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type syncTokenRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.SyncToken]
}

func NewSyncTokenRepository(db shared.DB) *syncTokenRepository {
	return &syncTokenRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.SyncToken](db),
	}
}

func (r *syncTokenRepository) GetByProject(projectRemoteID int64) (models.SyncToken, bool, error) {
	var token models.SyncToken
	err := r.db.Where("project_remote_id = ?", projectRemoteID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return token, false, nil
	}
	if err != nil {
		return token, false, err
	}
	return token, true, nil
}

// Set stores the newest event cursor for the project, one row per project.
func (r *syncTokenRepository) Set(tx shared.DB, projectRemoteID int64, sync string) error {
	return r.GetDB(tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_remote_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sync", "updated_at"}),
	}).Create(&models.SyncToken{
		ProjectRemoteID: projectRemoteID,
		Sync:            sync,
	}).Error
}
