// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type tagRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Tag]
}

func NewTagRepository(db shared.DB) *tagRepository {
	return &tagRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Tag](db),
	}
}

func (r *tagRepository) Upsert(tx shared.DB, tag *models.Tag) error {
	return upsertByRemoteID(r.GetDB(tx), tag)
}

func (r *tagRepository) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Tag, error) {
	stub := models.Tag{
		RemoteObject: models.RemoteObject{RemoteID: remoteID},
		Named:        models.Named{Name: name},
	}
	return getOrCreateByRemoteID(r.GetDB(tx), &stub)
}

func (r *tagRepository) ReplaceFollowers(tx shared.DB, tag *models.Tag, followers []models.User) error {
	return r.GetDB(tx).Model(tag).Association("Followers").Replace(followers)
}
