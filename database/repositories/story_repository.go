// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type storyRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Story]
}

func NewStoryRepository(db shared.DB) *storyRepository {
	return &storyRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Story](db),
	}
}

// CreateIfAbsent inserts the story unless a row with its remote id exists.
// Stories are immutable on the Asana side, so the full sync never rewrites
// them.
func (r *storyRepository) CreateIfAbsent(tx shared.DB, story *models.Story) (bool, error) {
	db := r.GetDB(tx)
	var existing models.Story
	err := db.Where("remote_id = ?", story.RemoteID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, db.Create(story).Error
}

func (r *storyRepository) Upsert(tx shared.DB, story *models.Story) error {
	return upsertByRemoteID(r.GetDB(tx), story)
}

func (r *storyRepository) FindByTarget(targetRemoteID int64) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("target = ?", targetRemoteID).Order("created_at asc").Find(&stories).Error
	return stories, err
}
