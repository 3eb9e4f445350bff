// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/testutils"
)

func TestSyncTokens(t *testing.T) {
	t.Run("first contact stores the fresh token after the poll", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		token, found, err := store.Repositories().SyncTokens.GetByProject(3)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "fresh-3", token.Sync)
		// the poll actually ran
		assert.Equal(t, 1, remote.Calls["projects.FindByID:3"])
	})

	t.Run("first contact survives an events endpoint failure", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)
		remote.EventsErr["3"] = errors.New("connection reset")

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		// the poll still runs, just without a token to store
		assert.Equal(t, 1, remote.Calls["projects.FindByID:3"])
		assert.Contains(t, store.Tasks, int64(4))
		assert.Empty(t, store.SyncTokens)
	})

	t.Run("valid token replays events instead of polling", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		repos := store.Repositories()
		_, err := repos.Projects.GetOrCreateStub(nil, 3, "Test Project")
		require.NoError(t, err)
		require.NoError(t, repos.SyncTokens.Set(nil, 3, "tok-1"))

		remote.EventsByResource["3"] = asana.EventBatch{
			Sync: "tok-2",
			Data: []asana.Event{{
				Action:   "changed",
				Resource: asana.EventResource{GID: "4", ResourceType: "task"},
			}},
		}

		err = newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		// the event pulled the task in
		assert.Contains(t, store.Tasks, int64(4))
		// no full poll of the project
		assert.Zero(t, remote.Calls["projects.FindByID:3"])
		// the stored token is only advanced on rejection
		token, _, err := repos.SyncTokens.GetByProject(3)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token.Sync)
	})

	t.Run("expired token stores the replacement and falls back to a poll", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		repos := store.Repositories()
		require.NoError(t, repos.SyncTokens.Set(nil, 3, "tok-stale"))
		remote.EventsErr["3"] = &asana.InvalidTokenError{Sync: "tok-replacement"}

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{})
		require.NoError(t, err)

		token, _, err := repos.SyncTokens.GetByProject(3)
		require.NoError(t, err)
		assert.Equal(t, "tok-replacement", token.Sync)
		assert.Equal(t, 1, remote.Calls["projects.FindByID:3"])
		assert.Contains(t, store.Tasks, int64(4))
	})

	t.Run("dry run never persists a token", func(t *testing.T) {
		remote := testutils.NewFakeRemote()
		store := testutils.NewFakeStore()
		smallWorkspace(remote)

		err := newTestService(remote, store, "").SyncAll(context.Background(), Options{DryRun: true})
		require.NoError(t, err)
		assert.Empty(t, store.SyncTokens)
	})
}
