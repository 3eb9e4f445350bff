// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type projectRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Project]
}

func NewProjectRepository(db shared.DB) *projectRepository {
	return &projectRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Project](db),
	}
}

func (r *projectRepository) Upsert(tx shared.DB, project *models.Project) error {
	return upsertByRemoteID(r.GetDB(tx), project)
}

func (r *projectRepository) FindByRemoteID(remoteID int64) (models.Project, error) {
	return findByRemoteID[models.Project](r.db, remoteID)
}

func (r *projectRepository) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Project, error) {
	stub := models.Project{
		RemoteObject: models.RemoteObject{RemoteID: remoteID},
		Named:        models.Named{Name: name},
	}
	return getOrCreateByRemoteID(r.GetDB(tx), &stub)
}

// DeleteByRemoteID removes the project row. Tasks keep their own lifecycle;
// only the join rows and dependent webhooks and tokens go with the project.
func (r *projectRepository) DeleteByRemoteID(tx shared.DB, remoteID int64) error {
	return r.GetDB(tx).Where("remote_id = ?", remoteID).Delete(&models.Project{}).Error
}

func (r *projectRepository) ReplaceFollowers(tx shared.DB, project *models.Project, followers []models.User) error {
	return r.GetDB(tx).Model(project).Association("Followers").Replace(followers)
}

func (r *projectRepository) AppendMembers(tx shared.DB, project *models.Project, members []models.User) error {
	return r.GetDB(tx).Model(project).Association("Members").Append(members)
}
