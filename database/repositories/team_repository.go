// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type teamRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Team]
}

func NewTeamRepository(db shared.DB) *teamRepository {
	return &teamRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Team](db),
	}
}

func (r *teamRepository) Upsert(tx shared.DB, team *models.Team) error {
	return upsertByRemoteID(r.GetDB(tx), team)
}

func (r *teamRepository) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Team, error) {
	stub := models.Team{
		RemoteObject: models.RemoteObject{RemoteID: remoteID},
		Named:        models.Named{Name: name},
	}
	return getOrCreateByRemoteID(r.GetDB(tx), &stub)
}
