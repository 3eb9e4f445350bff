// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package testutils provides in-memory stand-ins for the remote API and the
// persistence layer so the sync engine can be exercised without network or
// database.
package testutils

import (
	"context"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/shared"
)

// FakeRemote is a scripted Asana. Populate the maps with raw resources keyed
// by gid; missing entries come back as typed not-found errors, exactly like
// the real API. Every call is counted under "collection.Method:key".
type FakeRemote struct {
	WorkspaceList       []asana.Resource
	WorkspaceByID       map[string]asana.Resource
	ProjectsByWorkspace map[string][]asana.Resource
	ProjectByID         map[string]asana.Resource
	TasksByProject      map[string][]asana.Resource
	TaskByID            map[string]asana.Resource
	SubtasksByTask      map[string][]asana.Resource
	AttachmentsByTask   map[string][]asana.Resource
	AttachmentByID      map[string]asana.Resource
	StoriesByTask       map[string][]asana.Resource
	StoryByID           map[string]asana.Resource
	TagsByWorkspace     map[string][]asana.Resource
	TagByID             map[string]asana.Resource
	TeamsByOrganization map[string][]asana.Resource
	TeamByID            map[string]asana.Resource
	UsersByWorkspace    map[string][]asana.Resource
	UserByID            map[string]asana.Resource
	WebhooksByResource  map[string][]asana.Resource
	EventsByResource    map[string]asana.EventBatch
	// EventsErr scripts the events endpoint per resource gid, e.g. an
	// InvalidTokenError carrying a replacement token.
	EventsErr map[string]error
	// TaskErr forces a typed error for a task gid instead of a lookup.
	TaskErr map[string]error

	// NextCommentGID scripts the gid of the story AddComment returns.
	NextCommentGID string

	Calls           map[string]int
	CreatedWebhooks []CreatedWebhook
	DeletedWebhooks []string
	UpdatedTasks    map[string]map[string]any
	DeletedTasks    []string
	Comments        map[string][]string
}

type CreatedWebhook struct {
	Resource string
	Target   string
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		WorkspaceByID:       map[string]asana.Resource{},
		ProjectsByWorkspace: map[string][]asana.Resource{},
		ProjectByID:         map[string]asana.Resource{},
		TasksByProject:      map[string][]asana.Resource{},
		TaskByID:            map[string]asana.Resource{},
		SubtasksByTask:      map[string][]asana.Resource{},
		AttachmentsByTask:   map[string][]asana.Resource{},
		AttachmentByID:      map[string]asana.Resource{},
		StoriesByTask:       map[string][]asana.Resource{},
		StoryByID:           map[string]asana.Resource{},
		TagsByWorkspace:     map[string][]asana.Resource{},
		TagByID:             map[string]asana.Resource{},
		TeamsByOrganization: map[string][]asana.Resource{},
		TeamByID:            map[string]asana.Resource{},
		UsersByWorkspace:    map[string][]asana.Resource{},
		UserByID:            map[string]asana.Resource{},
		WebhooksByResource:  map[string][]asana.Resource{},
		EventsByResource:    map[string]asana.EventBatch{},
		EventsErr:           map[string]error{},
		TaskErr:             map[string]error{},
		Calls:               map[string]int{},
		UpdatedTasks:        map[string]map[string]any{},
		Comments:            map[string][]string{},
	}
}

// API bundles the fake into the interface set the sync engine consumes.
func (f *FakeRemote) API() shared.RemoteAPI {
	return shared.RemoteAPI{
		Workspaces:  (*fakeWorkspaces)(f),
		Projects:    (*fakeProjects)(f),
		Tasks:       (*fakeTasks)(f),
		Attachments: (*fakeAttachments)(f),
		Stories:     (*fakeStories)(f),
		Tags:        (*fakeTags)(f),
		Teams:       (*fakeTeams)(f),
		Users:       (*fakeUsers)(f),
		Webhooks:    (*fakeWebhooks)(f),
		Events:      (*fakeEvents)(f),
	}
}

func (f *FakeRemote) count(key string) {
	f.Calls[key]++
}

func (f *FakeRemote) lookup(m map[string]asana.Resource, resource, gid string) (asana.Resource, error) {
	if r, ok := m[gid]; ok {
		return r, nil
	}
	return nil, &asana.NotFoundError{Resource: resource, GID: gid}
}

type fakeWorkspaces FakeRemote

func (f *fakeWorkspaces) FindAll(ctx context.Context) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("workspaces.FindAll")
	return f.WorkspaceList, nil
}

func (f *fakeWorkspaces) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("workspaces.FindByID:" + gid)
	return (*FakeRemote)(f).lookup(f.WorkspaceByID, "workspaces", gid)
}

type fakeProjects FakeRemote

func (f *fakeProjects) FindAll(ctx context.Context, workspaceGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("projects.FindAll:" + workspaceGID)
	return f.ProjectsByWorkspace[workspaceGID], nil
}

func (f *fakeProjects) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("projects.FindByID:" + gid)
	return (*FakeRemote)(f).lookup(f.ProjectByID, "projects", gid)
}

type fakeTasks FakeRemote

func (f *fakeTasks) FindAll(ctx context.Context, projectGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("tasks.FindAll:" + projectGID)
	return f.TasksByProject[projectGID], nil
}

func (f *fakeTasks) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("tasks.FindByID:" + gid)
	if err, ok := f.TaskErr[gid]; ok {
		return nil, err
	}
	return (*FakeRemote)(f).lookup(f.TaskByID, "tasks", gid)
}

func (f *fakeTasks) Subtasks(ctx context.Context, gid string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("tasks.Subtasks:" + gid)
	return f.SubtasksByTask[gid], nil
}

func (f *fakeTasks) Update(ctx context.Context, gid string, fields map[string]any) (asana.Resource, error) {
	(*FakeRemote)(f).count("tasks.Update:" + gid)
	f.UpdatedTasks[gid] = fields
	return asana.Resource{"gid": gid}, nil
}

func (f *fakeTasks) Delete(ctx context.Context, gid string) error {
	(*FakeRemote)(f).count("tasks.Delete:" + gid)
	f.DeletedTasks = append(f.DeletedTasks, gid)
	return nil
}

func (f *fakeTasks) AddComment(ctx context.Context, gid string, text string) (asana.Resource, error) {
	(*FakeRemote)(f).count("tasks.AddComment:" + gid)
	f.Comments[gid] = append(f.Comments[gid], text)
	storyGID := f.NextCommentGID
	if storyGID == "" {
		storyGID = "9" + gid
	}
	return asana.Resource{"gid": storyGID, "text": text}, nil
}

type fakeAttachments FakeRemote

func (f *fakeAttachments) FindByTask(ctx context.Context, taskGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("attachments.FindByTask:" + taskGID)
	return f.AttachmentsByTask[taskGID], nil
}

func (f *fakeAttachments) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("attachments.FindByID:" + gid)
	return (*FakeRemote)(f).lookup(f.AttachmentByID, "attachments", gid)
}

type fakeStories FakeRemote

func (f *fakeStories) FindByTask(ctx context.Context, taskGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("stories.FindByTask:" + taskGID)
	return f.StoriesByTask[taskGID], nil
}

func (f *fakeStories) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("stories.FindByID:" + gid)
	return (*FakeRemote)(f).lookup(f.StoryByID, "stories", gid)
}

type fakeTags FakeRemote

func (f *fakeTags) FindByWorkspace(ctx context.Context, workspaceGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("tags.FindByWorkspace:" + workspaceGID)
	return f.TagsByWorkspace[workspaceGID], nil
}

func (f *fakeTags) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("tags.FindByID:" + gid)
	return (*FakeRemote)(f).lookup(f.TagByID, "tags", gid)
}

type fakeTeams FakeRemote

func (f *fakeTeams) FindByOrganization(ctx context.Context, organizationGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("teams.FindByOrganization:" + organizationGID)
	return f.TeamsByOrganization[organizationGID], nil
}

func (f *fakeTeams) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("teams.FindByID:" + gid)
	return (*FakeRemote)(f).lookup(f.TeamByID, "teams", gid)
}

type fakeUsers FakeRemote

func (f *fakeUsers) FindAll(ctx context.Context, workspaceGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("users.FindAll:" + workspaceGID)
	return f.UsersByWorkspace[workspaceGID], nil
}

func (f *fakeUsers) FindByID(ctx context.Context, gid string) (asana.Resource, error) {
	(*FakeRemote)(f).count("users.FindByID:" + gid)
	return (*FakeRemote)(f).lookup(f.UserByID, "users", gid)
}

type fakeWebhooks FakeRemote

func (f *fakeWebhooks) Create(ctx context.Context, resourceGID, target string) (asana.Resource, error) {
	(*FakeRemote)(f).count("webhooks.Create:" + resourceGID)
	f.CreatedWebhooks = append(f.CreatedWebhooks, CreatedWebhook{Resource: resourceGID, Target: target})
	return asana.Resource{"gid": "hook-" + resourceGID, "active": true}, nil
}

func (f *fakeWebhooks) GetAll(ctx context.Context, workspaceGID, resourceGID string) ([]asana.Resource, error) {
	(*FakeRemote)(f).count("webhooks.GetAll:" + resourceGID)
	return f.WebhooksByResource[resourceGID], nil
}

func (f *fakeWebhooks) DeleteByID(ctx context.Context, gid string) error {
	(*FakeRemote)(f).count("webhooks.DeleteByID:" + gid)
	f.DeletedWebhooks = append(f.DeletedWebhooks, gid)
	return nil
}

type fakeEvents FakeRemote

func (f *fakeEvents) Get(ctx context.Context, resourceGID, sync string) (asana.EventBatch, error) {
	(*FakeRemote)(f).count("events.Get:" + resourceGID)
	if err, ok := f.EventsErr[resourceGID]; ok {
		return asana.EventBatch{}, err
	}
	if batch, ok := f.EventsByResource[resourceGID]; ok {
		return batch, nil
	}
	// a fresh-token request never returns data, only the token error
	return asana.EventBatch{}, &asana.InvalidTokenError{Sync: "fresh-" + resourceGID}
}
