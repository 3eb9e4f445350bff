// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/mirrorhq/asanasync/shared"
)

// NewRepositories wires all concrete gorm repositories onto one connection.
func NewRepositories(db shared.DB) shared.Repositories {
	return shared.Repositories{
		Workspaces:          NewWorkspaceRepository(db),
		Teams:               NewTeamRepository(db),
		Users:               NewUserRepository(db),
		Tags:                NewTagRepository(db),
		Projects:            NewProjectRepository(db),
		ProjectStatuses:     NewProjectStatusRepository(db),
		Tasks:               NewTaskRepository(db),
		Stories:             NewStoryRepository(db),
		Attachments:         NewAttachmentRepository(db),
		CustomFields:        NewCustomFieldRepository(db),
		CustomFieldSettings: NewCustomFieldSettingRepository(db),
		Webhooks:            NewWebhookRepository(db),
		SyncTokens:          NewSyncTokenRepository(db),
	}
}
