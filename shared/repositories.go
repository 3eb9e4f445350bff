// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package shared

import (
	"github.com/mirrorhq/asanasync/database/models"
)

type Tabler interface {
	TableName() string
}

// Repository is the generic persistence surface. Passing a nil tx runs the
// operation on the repository's own connection.
type Repository[ID comparable, T Tabler] interface {
	Create(tx DB, t *T) error
	CreateBatch(tx DB, ts []T) error
	Read(id ID) (T, error)
	Update(tx DB, t *T) error
	Delete(tx DB, id ID) error
	List(ids []ID) ([]T, error)
	All() ([]T, error)
	Transaction(fn func(tx DB) error) error
	GetDB(tx DB) DB

	Save(tx DB, t *T) error
	SaveBatch(tx DB, ts []T) error
}

type WorkspaceRepository interface {
	Upsert(tx DB, workspace *models.Workspace) error
	FindByRemoteID(remoteID int64) (models.Workspace, error)
	GetOrCreateStub(tx DB, remoteID int64, name string) (models.Workspace, error)
	All() ([]models.Workspace, error)
}

type TeamRepository interface {
	Upsert(tx DB, team *models.Team) error
	GetOrCreateStub(tx DB, remoteID int64, name string) (models.Team, error)
}

type UserRepository interface {
	Upsert(tx DB, user *models.User) error
	GetOrCreateStub(tx DB, remoteID int64, name string) (models.User, error)
	FindByRemoteID(remoteID int64) (models.User, error)
	AppendWorkspace(tx DB, user *models.User, workspace *models.Workspace) error
}

type TagRepository interface {
	Upsert(tx DB, tag *models.Tag) error
	GetOrCreateStub(tx DB, remoteID int64, name string) (models.Tag, error)
	ReplaceFollowers(tx DB, tag *models.Tag, followers []models.User) error
}

type ProjectRepository interface {
	Upsert(tx DB, project *models.Project) error
	FindByRemoteID(remoteID int64) (models.Project, error)
	GetOrCreateStub(tx DB, remoteID int64, name string) (models.Project, error)
	DeleteByRemoteID(tx DB, remoteID int64) error
	ReplaceFollowers(tx DB, project *models.Project, followers []models.User) error
	AppendMembers(tx DB, project *models.Project, members []models.User) error
	All() ([]models.Project, error)
}

type ProjectStatusRepository interface {
	Upsert(tx DB, status *models.ProjectStatus) error
}

type TaskRepository interface {
	Upsert(tx DB, task *models.Task) error
	FindByRemoteID(remoteID int64) (models.Task, error)
	ExistsByRemoteID(remoteID int64) (bool, error)
	GetOrCreateStub(tx DB, remoteID int64, name string) (models.Task, error)
	DeleteByRemoteIDs(tx DB, remoteIDs []int64) error
	ReplaceFollowers(tx DB, task *models.Task, followers []models.User) error
	ReplaceDependencies(tx DB, task *models.Task, dependencies []*models.Task) error
	AppendTag(tx DB, task *models.Task, tag *models.Tag) error
	AppendProject(tx DB, task *models.Task, project *models.Project) error
	StaleRemoteIDsInProject(projectRemoteID int64, seen []int64) ([]int64, error)
}

type StoryRepository interface {
	// CreateIfAbsent reports whether the story was inserted. An existing row
	// with the same remote id is left untouched.
	CreateIfAbsent(tx DB, story *models.Story) (bool, error)
	Upsert(tx DB, story *models.Story) error
	FindByTarget(targetRemoteID int64) ([]models.Story, error)
}

type AttachmentRepository interface {
	Upsert(tx DB, attachment *models.Attachment) error
}

type CustomFieldRepository interface {
	Upsert(tx DB, field *models.CustomField) error
	GetOrCreateStub(tx DB, remoteID int64, name string) (models.CustomField, error)
}

type CustomFieldSettingRepository interface {
	Upsert(tx DB, setting *models.CustomFieldSetting) error
}

type WebhookRepository interface {
	Create(tx DB, webhook *models.Webhook) error
	Save(tx DB, webhook *models.Webhook) error
	Delete(tx DB, webhook *models.Webhook) error
	// ListByProject returns the project's webhooks ordered oldest first.
	ListByProject(projectRemoteID int64) ([]models.Webhook, error)
}

type SyncTokenRepository interface {
	GetByProject(projectRemoteID int64) (models.SyncToken, bool, error)
	Set(tx DB, projectRemoteID int64, sync string) error
}

// Repositories bundles the per-entity persistence surfaces the sync engine
// consumes, mirroring RemoteAPI on the read side.
type Repositories struct {
	Workspaces          WorkspaceRepository
	Teams               TeamRepository
	Users               UserRepository
	Tags                TagRepository
	Projects            ProjectRepository
	ProjectStatuses     ProjectStatusRepository
	Tasks               TaskRepository
	Stories             StoryRepository
	Attachments         AttachmentRepository
	CustomFields        CustomFieldRepository
	CustomFieldSettings CustomFieldSettingRepository
	Webhooks            WebhookRepository
	SyncTokens          SyncTokenRepository
}
