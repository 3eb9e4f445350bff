// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type workspaceRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Workspace]
}

func NewWorkspaceRepository(db shared.DB) *workspaceRepository {
	return &workspaceRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Workspace](db),
	}
}

func (r *workspaceRepository) Upsert(tx shared.DB, workspace *models.Workspace) error {
	return upsertByRemoteID(r.GetDB(tx), workspace)
}

func (r *workspaceRepository) FindByRemoteID(remoteID int64) (models.Workspace, error) {
	return findByRemoteID[models.Workspace](r.db, remoteID)
}

func (r *workspaceRepository) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Workspace, error) {
	stub := models.Workspace{
		RemoteObject: models.RemoteObject{RemoteID: remoteID},
		Named:        models.Named{Name: name},
	}
	return getOrCreateByRemoteID(r.GetDB(tx), &stub)
}
