// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/shared"
	"github.com/mirrorhq/asanasync/testutils"
)

func newTestService(remote *testutils.FakeRemote, store *testutils.FakeStore, webhookURL string) *Service {
	return NewService(remote.API(), store.Repositories(), &shared.Config{
		WebhookURL: webhookURL,
	})
}

// smallWorkspace scripts one workspace holding one project with one task.
func smallWorkspace(remote *testutils.FakeRemote) {
	remote.WorkspaceList = []asana.Resource{testutils.Ref(1, "New Workspace")}
	remote.WorkspaceByID["1"] = testutils.WorkspaceResource(1, "New Workspace")
	remote.ProjectsByWorkspace["1"] = []asana.Resource{testutils.Ref(3, "Test Project")}
	remote.ProjectByID["3"] = testutils.ProjectResource(3, "Test Project", 1, 2)
	remote.TasksByProject["3"] = []asana.Resource{testutils.Ref(4, "Test Task")}
	remote.TaskByID["4"] = testutils.TaskResource(4, "Test Task")
}

func TestSyncAll(t *testing.T) {
	t.Run("mirrors workspace, project and task exactly once", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		require.Len(t, store.Workspaces, 1)
		assert.Equal(t, "New Workspace", store.Workspaces[1].Name)
		assert.True(t, store.Workspaces[1].IsOrganization)

		require.Len(t, store.Projects, 1)
		prj := store.Projects[3]
		assert.Equal(t, "Test Project", prj.Name)
		assert.Equal(t, int64(1), prj.WorkspaceRemoteID)
		require.NotNil(t, prj.TeamRemoteID)
		assert.Equal(t, int64(2), *prj.TeamRemoteID)

		// the team referenced by the project exists as a stub row
		require.Contains(t, store.Teams, int64(2))

		require.Len(t, store.Tasks, 1)
		assert.Equal(t, "Test Task", store.Tasks[4].Name)
		assert.Equal(t, []int64{3}, testutils.Set(store.TaskProjects, 4))
	})

	t.Run("is idempotent across repeated runs", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		svc := newTestService(remote, store, "")

		require.NoError(t, svc.SyncAll(context.Background(), Options{}))
		firstTaskID := store.Tasks[4].ID
		firstProjectID := store.Projects[3].ID

		require.NoError(t, svc.SyncAll(context.Background(), Options{}))

		assert.Len(t, store.Workspaces, 1)
		assert.Len(t, store.Projects, 1)
		assert.Len(t, store.Tasks, 1)
		// local uuids survive upserts
		assert.Equal(t, firstTaskID, store.Tasks[4].ID)
		assert.Equal(t, firstProjectID, store.Projects[3].ID)
	})

	t.Run("upsert carries changed remote values onto the same row", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		svc := newTestService(remote, store, "")

		require.NoError(t, svc.SyncAll(context.Background(), Options{}))
		before := store.Tasks[4]

		renamed := testutils.TaskResource(4, "Renamed Task")
		renamed["completed"] = true
		remote.TaskByID["4"] = renamed
		require.NoError(t, svc.SyncAll(context.Background(), Options{}))

		require.Len(t, store.Tasks, 1)
		after := store.Tasks[4]
		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, "Renamed Task", after.Name)
		assert.True(t, after.Completed)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{DryRun: true})
		require.NoError(t, err)

		assert.Empty(t, store.Workspaces)
		assert.Empty(t, store.Projects)
		assert.Empty(t, store.Tasks)
		assert.Empty(t, store.SyncTokens)
	})

	t.Run("rejects an unknown workspace selector before any write", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{
			Workspaces: []string{"No Such Space"},
		})
		require.Error(t, err)
		assert.Equal(t, "No Such Space is not an Asana workspace", err.Error())
		assert.Empty(t, store.Workspaces)
	})

	t.Run("lists all invalid project selectors in one error", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{
			Projects: []string{"ghost", "phantom"},
		})
		require.Error(t, err)
		assert.Equal(t, "specified projects are not valid: ghost, phantom", err.Error())
	})

	t.Run("selectors accept names and gids alike", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{
			Workspaces: []string{"New Workspace"},
			Projects:   []string{"3"},
		})
		require.NoError(t, err)
		assert.Len(t, store.Projects, 1)
	})
}

func TestMatchSelectors(t *testing.T) {
	all := []asana.Resource{
		testutils.Ref(1, "older"),
		testutils.Ref(2, "newer"),
	}

	t.Run("unfiltered keeps everything, newest id first", func(t *testing.T) {
		gids, err := matchSelectors(all, nil, "workspace")
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1"}, gids)
	})

	t.Run("matches by name", func(t *testing.T) {
		gids, err := matchSelectors(all, []string{"older"}, "workspace")
		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, gids)
	})

	t.Run("single bad name", func(t *testing.T) {
		_, err := matchSelectors(all, []string{"missing"}, "project")
		require.Error(t, err)
		assert.Equal(t, "missing is not an Asana project", err.Error())
	})
}

func TestSyncTaskGraph(t *testing.T) {
	t.Run("parent is synced before its child", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		child := testutils.TaskResource(5, "Child Task")
		child["parent"] = map[string]any(testutils.Ref(4, "Test Task"))
		remote.TaskByID["5"] = child
		remote.TasksByProject["3"] = []asana.Resource{testutils.Ref(5, "Child Task")}

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		require.Contains(t, store.Tasks, int64(4))
		require.Contains(t, store.Tasks, int64(5))
		require.NotNil(t, store.Tasks[5].ParentRemoteID)
		assert.Equal(t, int64(4), *store.Tasks[5].ParentRemoteID)
	})

	t.Run("task in two projects is a member of both", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		remote.ProjectsByWorkspace["1"] = []asana.Resource{
			testutils.Ref(3, "Test Project"),
			testutils.Ref(5, "Second Project"),
		}
		remote.ProjectByID["5"] = testutils.ProjectResource(5, "Second Project", 1, 2)
		remote.TasksByProject["5"] = []asana.Resource{testutils.Ref(4, "Test Task")}

		svc := newTestService(remote, store, "")
		require.NoError(t, svc.SyncAll(context.Background(), Options{}))

		assert.Equal(t, []int64{3, 5}, testutils.Set(store.TaskProjects, 4))
		// the second membership must not cost a second fetch
		assert.Equal(t, 1, remote.Calls["tasks.FindByID:4"])

		require.NoError(t, svc.SyncAll(context.Background(), Options{}))
		assert.Equal(t, []int64{3, 5}, testutils.Set(store.TaskProjects, 4))
	})

	t.Run("cyclic subtasks terminate with one fetch per task", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		remote.TaskByID["5"] = testutils.TaskResource(5, "Subtask")
		remote.SubtasksByTask["4"] = []asana.Resource{testutils.Ref(5, "Subtask")}
		remote.SubtasksByTask["5"] = []asana.Resource{testutils.Ref(4, "Test Task")}

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		assert.Len(t, store.Tasks, 2)
		assert.Equal(t, 1, remote.Calls["tasks.FindByID:4"])
		assert.Equal(t, 1, remote.Calls["tasks.FindByID:5"])
	})

	t.Run("dependencies are synced and fully replaced", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		task := testutils.TaskResource(4, "Test Task")
		task["dependencies"] = testutils.RefList(testutils.Ref(6, "Blocker"))
		remote.TaskByID["4"] = task
		remote.TaskByID["6"] = testutils.TaskResource(6, "Blocker")
		// a dependency edge from an earlier run that no longer exists upstream
		store.TaskDependencies[4] = map[int64]struct{}{99: {}}

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		require.Contains(t, store.Tasks, int64(6))
		assert.Equal(t, []int64{6}, testutils.Set(store.TaskDependencies, 4))
	})

	t.Run("vanished task is deleted locally", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		remote.TaskErr["4"] = &asana.NotFoundError{Resource: "tasks", GID: "4"}
		row, err := store.Repositories().Tasks.GetOrCreateStub(nil, 4, "Test Task")
		require.NoError(t, err)
		require.NotZero(t, row.RemoteID)

		require.NoError(t, newTestService(remote, store, "").SyncAll(context.Background(), Options{}))
		assert.NotContains(t, store.Tasks, int64(4))
	})

	t.Run("stale rows of the project are pruned", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		for _, id := range []int64{4, 7, 8} {
			_, err := store.Repositories().Tasks.GetOrCreateStub(nil, id, "old")
			require.NoError(t, err)
			store.TaskProjects[id] = map[int64]struct{}{3: {}}
		}
		// remote only knows task 4 now

		require.NoError(t, newTestService(remote, store, "").SyncAll(context.Background(), Options{}))

		assert.Contains(t, store.Tasks, int64(4))
		assert.NotContains(t, store.Tasks, int64(7))
		assert.NotContains(t, store.Tasks, int64(8))
	})
}

func TestSyncCollections(t *testing.T) {
	t.Run("users, tags and teams of the workspace", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		remote.UsersByWorkspace["1"] = []asana.Resource{testutils.Ref(7, "Ada")}
		remote.UserByID["7"] = testutils.UserResource(7, "Ada", "ada@example.com")
		remote.TagsByWorkspace["1"] = []asana.Resource{testutils.Ref(8, "urgent")}
		tag := testutils.TagResource(8, "urgent", 1)
		tag["followers"] = testutils.RefList(testutils.Ref(7, "Ada"))
		remote.TagByID["8"] = tag
		remote.TeamsByOrganization["1"] = []asana.Resource{testutils.Ref(2, "Core Team")}
		remote.TeamByID["2"] = testutils.TeamResource(2, "Core Team", 1)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		user := store.Users[7]
		require.NotNil(t, user.Email)
		assert.Equal(t, "ada@example.com", *user.Email)
		require.NotNil(t, user.Photo)
		assert.Equal(t, "https://example.com/7.png", *user.Photo)
		assert.Equal(t, []int64{1}, testutils.Set(store.UserWorkspaces, 7))

		tagRow := store.Tags[8]
		assert.Equal(t, "urgent", tagRow.Name)
		require.NotNil(t, tagRow.WorkspaceRemoteID)
		assert.Equal(t, int64(1), *tagRow.WorkspaceRemoteID)
		assert.Equal(t, []int64{7}, testutils.Set(store.TagFollowers, 8))

		team := store.Teams[2]
		assert.Equal(t, "Core Team", team.Name)
		require.NotNil(t, team.OrganizationID)
		assert.Equal(t, int64(1), *team.OrganizationID)
	})

	t.Run("one broken user does not sink the rest", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		remote.UsersByWorkspace["1"] = []asana.Resource{
			testutils.Ref(7, "Ada"),
			testutils.Ref(9, "Grace"),
		}
		// user 7 is listed but not fetchable
		remote.UserByID["9"] = testutils.UserResource(9, "Grace", "grace@example.com")

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		assert.NotContains(t, store.Users, int64(7))
		assert.Contains(t, store.Users, int64(9))
	})
}

func TestModelFilterGating(t *testing.T) {
	t.Run("task-only run leaves the other kinds alone", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		remote.UsersByWorkspace["1"] = []asana.Resource{testutils.Ref(7, "Ada")}
		remote.UserByID["7"] = testutils.UserResource(7, "Ada", "ada@example.com")

		filter, err := NewModelFilter([]string{"project", "task"}, nil)
		require.NoError(t, err)

		err = newTestService(remote, store, "").SyncAll(context.Background(), Options{Filter: filter})
		require.NoError(t, err)

		assert.Len(t, store.Tasks, 1)
		// the workspace only exists as the stub the project points at
		assert.False(t, store.Workspaces[1].IsOrganization)
		assert.Empty(t, store.Users)
		// no user listing was even attempted
		assert.Zero(t, remote.Calls["users.FindAll:1"])
	})

	t.Run("excluded custom field settings ride along on no project", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		prj := testutils.ProjectResource(3, "Test Project", 1, 2)
		prj["custom_field_settings"] = testutils.RefList(asana.Resource{
			"gid":          "20",
			"custom_field": map[string]any(testutils.Ref(21, "Priority")),
		})
		remote.ProjectByID["3"] = prj

		filter, err := NewModelFilter(nil, []string{"customfieldsetting"})
		require.NoError(t, err)

		err = newTestService(remote, store, "").SyncAll(context.Background(), Options{Filter: filter})
		require.NoError(t, err)

		require.Contains(t, store.Projects, int64(3))
		assert.Empty(t, store.CustomFieldSettings)
		assert.Empty(t, store.CustomFields)
	})
}
