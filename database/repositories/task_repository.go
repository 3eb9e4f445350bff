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

type taskRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Task]
}

func NewTaskRepository(db shared.DB) *taskRepository {
	return &taskRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Task](db),
	}
}

func (r *taskRepository) Upsert(tx shared.DB, task *models.Task) error {
	return upsertByRemoteID(r.GetDB(tx), task)
}

func (r *taskRepository) FindByRemoteID(remoteID int64) (models.Task, error) {
	return findByRemoteID[models.Task](r.db, remoteID)
}

func (r *taskRepository) ExistsByRemoteID(remoteID int64) (bool, error) {
	_, err := findByRemoteID[models.Task](r.db, remoteID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (r *taskRepository) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.Task, error) {
	stub := models.Task{
		RemoteObject: models.RemoteObject{RemoteID: remoteID},
		Named:        models.Named{Name: name},
	}
	return getOrCreateByRemoteID(r.GetDB(tx), &stub)
}

func (r *taskRepository) DeleteByRemoteIDs(tx shared.DB, remoteIDs []int64) error {
	if len(remoteIDs) == 0 {
		return nil
	}
	return r.GetDB(tx).Where("remote_id IN ?", remoteIDs).Delete(&models.Task{}).Error
}

func (r *taskRepository) ReplaceFollowers(tx shared.DB, task *models.Task, followers []models.User) error {
	return r.GetDB(tx).Model(task).Association("Followers").Replace(followers)
}

func (r *taskRepository) ReplaceDependencies(tx shared.DB, task *models.Task, dependencies []*models.Task) error {
	return r.GetDB(tx).Model(task).Association("Dependencies").Replace(dependencies)
}

func (r *taskRepository) AppendTag(tx shared.DB, task *models.Task, tag *models.Tag) error {
	return r.GetDB(tx).Model(task).Association("Tags").Append(tag)
}

func (r *taskRepository) AppendProject(tx shared.DB, task *models.Task, project *models.Project) error {
	return r.GetDB(tx).Model(task).Association("Projects").Append(project)
}

// StaleRemoteIDsInProject lists tasks still attached to the project locally
// that a completed traversal did not observe. Those rows are gone upstream.
func (r *taskRepository) StaleRemoteIDsInProject(projectRemoteID int64, seen []int64) ([]int64, error) {
	var stale []int64
	query := r.db.Model(&models.Task{}).
		Joins("JOIN task_projects ON task_projects.task_remote_id = tasks.remote_id").
		Where("task_projects.project_remote_id = ?", projectRemoteID)
	if len(seen) > 0 {
		query = query.Where("tasks.remote_id NOT IN ?", seen)
	}
	err := query.Pluck("tasks.remote_id", &stale).Error
	return stale, err
}
