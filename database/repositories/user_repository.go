// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type userRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.User]
}

func NewUserRepository(db shared.DB) *userRepository {
	return &userRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.User](db),
	}
}

func (r *userRepository) Upsert(tx shared.DB, user *models.User) error {
	return upsertByRemoteID(r.GetDB(tx), user)
}

func (r *userRepository) FindByRemoteID(remoteID int64) (models.User, error) {
	return findByRemoteID[models.User](r.db, remoteID)
}

func (r *userRepository) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.User, error) {
	stub := models.User{
		RemoteObject: models.RemoteObject{RemoteID: remoteID},
		Named:        models.Named{Name: name},
	}
	return getOrCreateByRemoteID(r.GetDB(tx), &stub)
}

// AppendWorkspace records membership without touching the user's other
// workspaces.
func (r *userRepository) AppendWorkspace(tx shared.DB, user *models.User, workspace *models.Workspace) error {
	return r.GetDB(tx).Model(user).Association("Workspaces").Append(workspace)
}
