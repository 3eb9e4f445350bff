// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/testutils"
)

func TestHandleEvents(t *testing.T) {
	newProject := func(store *testutils.FakeStore) *models.Project {
		prj, err := store.Repositories().Projects.GetOrCreateStub(nil, 3, "Test Project")
		require.NoError(t, err)
		return &prj
	}

	t.Run("task change pulls the task in", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		prj := newProject(store)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "changed", Resource: asana.EventResource{GID: "4", ResourceType: "task"}},
		})
		require.NoError(t, err)

		require.Contains(t, store.Tasks, int64(4))
		assert.Equal(t, []int64{3}, testutils.Set(store.TaskProjects, 4))
	})

	t.Run("child delivery arriving before the parent's resolves the link", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		prj := newProject(store)

		child := testutils.TaskResource(5, "Child Task")
		child["parent"] = map[string]any(testutils.Ref(4, "Test Task"))
		remote.TaskByID["5"] = child

		svc := newTestService(remote, store, "")
		err := svc.HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "changed", Resource: asana.EventResource{GID: "5", ResourceType: "task"}},
		})
		require.NoError(t, err)

		// the child's delivery already pulled the unknown parent in
		require.Contains(t, store.Tasks, int64(4))
		require.NotNil(t, store.Tasks[5].ParentRemoteID)
		assert.Equal(t, int64(4), *store.Tasks[5].ParentRemoteID)

		err = svc.HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "changed", Resource: asana.EventResource{GID: "4", ResourceType: "task"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{3}, testutils.Set(store.TaskProjects, 4))
		assert.Equal(t, []int64{3}, testutils.Set(store.TaskProjects, 5))
	})

	t.Run("repeated task events in one batch keep the membership and fetch once", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		prj := newProject(store)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "changed", Resource: asana.EventResource{GID: "4", ResourceType: "task"}},
			{Action: "changed", Resource: asana.EventResource{GID: "4", ResourceType: "task"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, remote.Calls["tasks.FindByID:4"])
		assert.Equal(t, []int64{3}, testutils.Set(store.TaskProjects, 4))
	})

	t.Run("deleted carries no kind and is treated as a task", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		prj := newProject(store)
		_, err := store.Repositories().Tasks.GetOrCreateStub(nil, 4, "doomed")
		require.NoError(t, err)

		err = newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "deleted", Resource: asana.EventResource{GID: "4"}},
		})
		require.NoError(t, err)
		assert.NotContains(t, store.Tasks, int64(4))
	})

	t.Run("removed task is deleted", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		prj := newProject(store)
		_, err := store.Repositories().Tasks.GetOrCreateStub(nil, 4, "doomed")
		require.NoError(t, err)

		err = newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "removed", Resource: asana.EventResource{GID: "4", ResourceType: "task"}},
		})
		require.NoError(t, err)
		assert.NotContains(t, store.Tasks, int64(4))
	})

	t.Run("project change re-syncs the containing project", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		prj := newProject(store)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "changed", Resource: asana.EventResource{GID: "3", ResourceType: "project"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, remote.Calls["projects.FindByID:3"])
		assert.Equal(t, "Test Project", store.Projects[3].Name)
		assert.Contains(t, store.Tasks, int64(4))
	})

	t.Run("removed project is deleted", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		prj := newProject(store)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "removed", Resource: asana.EventResource{GID: "3", ResourceType: "project"}},
		})
		require.NoError(t, err)
		assert.NotContains(t, store.Projects, int64(3))
	})

	t.Run("story event mirrors the story", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		prj := newProject(store)
		remote.StoryByID["10"] = testutils.StoryResource(10, "looks good", 4, 7)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "added", Resource: asana.EventResource{GID: "10", ResourceType: "story"}},
		})
		require.NoError(t, err)

		story := store.Stories[10]
		assert.Equal(t, "looks good", story.Text)
		assert.Equal(t, int64(4), story.Target)
		require.NotNil(t, story.CreatedByRemoteID)
		assert.Equal(t, int64(7), *story.CreatedByRemoteID)
	})

	t.Run("overlong story text is cut to the column width", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		prj := newProject(store)
		remote.StoryByID["10"] = testutils.StoryResource(10, strings.Repeat("ä", 2000), 4, 7)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "added", Resource: asana.EventResource{GID: "10", ResourceType: "story"}},
		})
		require.NoError(t, err)

		story := store.Stories[10]
		assert.Equal(t, models.MaxStoryTextLength, utf8.RuneCountInString(story.Text))
		assert.Equal(t, models.MaxStoryTextLength, utf8.RuneCountInString(story.HTMLText))
	})

	t.Run("an existing story is never rewritten", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		prj := newProject(store)
		remote.StoryByID["10"] = testutils.StoryResource(10, "edited remotely", 4, 7)

		original := models.Story{Text: "first version", Target: 4}
		original.RemoteID = 10
		_, err := store.Repositories().Stories.CreateIfAbsent(nil, &original)
		require.NoError(t, err)

		err = newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "added", Resource: asana.EventResource{GID: "10", ResourceType: "story"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "first version", store.Stories[10].Text)
	})

	t.Run("sync_error and unknown kinds are harmless", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		prj := newProject(store)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "sync_error", Message: "replay window exceeded"},
			{Action: "changed", Resource: asana.EventResource{GID: "11", ResourceType: "portfolio"}},
		})
		require.NoError(t, err)
		assert.Empty(t, store.Tasks)
	})

	t.Run("legacy type field still routes the event", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		prj := newProject(store)

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "changed", Type: "task", Resource: asana.EventResource{GID: "4"}},
		})
		require.NoError(t, err)
		assert.Contains(t, store.Tasks, int64(4))
	})

	t.Run("one failing event does not block its siblings", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		prj := newProject(store)
		remote.TaskErr["99"] = &asana.InvalidRequestError{Message: "boom"}

		err := newTestService(remote, store, "").HandleEvents(context.Background(), prj, []asana.Event{
			{Action: "changed", Resource: asana.EventResource{GID: "99", ResourceType: "task"}},
			{Action: "changed", Resource: asana.EventResource{GID: "4", ResourceType: "task"}},
		})
		require.NoError(t, err)
		assert.Contains(t, store.Tasks, int64(4))
	})
}
