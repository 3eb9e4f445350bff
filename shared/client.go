// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package shared

import (
	"context"

	"github.com/mirrorhq/asanasync/asana"
)

// The sync engine consumes the remote API exclusively through these
// interfaces, so tests can script it and the HTTP client stays a black box.

type WorkspaceAPI interface {
	FindAll(ctx context.Context) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
}

type ProjectAPI interface {
	FindAll(ctx context.Context, workspaceGID string) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
}

type TaskAPI interface {
	FindAll(ctx context.Context, projectGID string) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
	Subtasks(ctx context.Context, gid string) ([]asana.Resource, error)
	Update(ctx context.Context, gid string, fields map[string]any) (asana.Resource, error)
	Delete(ctx context.Context, gid string) error
	AddComment(ctx context.Context, gid string, text string) (asana.Resource, error)
}

type AttachmentAPI interface {
	FindByTask(ctx context.Context, taskGID string) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
}

type StoryAPI interface {
	FindByTask(ctx context.Context, taskGID string) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
}

type TagAPI interface {
	FindByWorkspace(ctx context.Context, workspaceGID string) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
}

type TeamAPI interface {
	FindByOrganization(ctx context.Context, organizationGID string) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
}

type UserAPI interface {
	FindAll(ctx context.Context, workspaceGID string) ([]asana.Resource, error)
	FindByID(ctx context.Context, gid string) (asana.Resource, error)
}

type WebhookAPI interface {
	Create(ctx context.Context, resourceGID, target string) (asana.Resource, error)
	GetAll(ctx context.Context, workspaceGID, resourceGID string) ([]asana.Resource, error)
	DeleteByID(ctx context.Context, gid string) error
}

type EventAPI interface {
	Get(ctx context.Context, resourceGID, sync string) (asana.EventBatch, error)
}

// RemoteAPI bundles the per-resource clients. There is intentionally no
// ambient per-client state such as a current workspace; every call names its
// scope explicitly.
type RemoteAPI struct {
	Workspaces  WorkspaceAPI
	Projects    ProjectAPI
	Tasks       TaskAPI
	Attachments AttachmentAPI
	Stories     StoryAPI
	Tags        TagAPI
	Teams       TeamAPI
	Users       UserAPI
	Webhooks    WebhookAPI
	Events      EventAPI
}

// NewRemoteAPI wires the concrete HTTP client into the interface bundle.
func NewRemoteAPI(c *asana.Client) RemoteAPI {
	return RemoteAPI{
		Workspaces:  c.Workspaces,
		Projects:    c.Projects,
		Tasks:       c.Tasks,
		Attachments: c.Attachments,
		Stories:     c.Stories,
		Tags:        c.Tags,
		Teams:       c.Teams,
		Users:       c.Users,
		Webhooks:    c.Webhooks,
		Events:      c.Events,
	}
}
