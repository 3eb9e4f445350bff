// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type projectStatusRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.ProjectStatus]
}

func NewProjectStatusRepository(db shared.DB) *projectStatusRepository {
	return &projectStatusRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.ProjectStatus](db),
	}
}

func (r *projectStatusRepository) Upsert(tx shared.DB, status *models.ProjectStatus) error {
	return upsertByRemoteID(r.GetDB(tx), status)
}
