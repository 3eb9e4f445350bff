// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteObject(t *testing.T) {
	t.Run("gid is filled from the remote id on save", func(t *testing.T) {
		obj := RemoteObject{RemoteID: 123}
		require.NoError(t, obj.BeforeSave(nil))
		assert.Equal(t, "123", obj.GID)
	})

	t.Run("an explicit gid is kept", func(t *testing.T) {
		obj := RemoteObject{RemoteID: 123, GID: "123"}
		require.NoError(t, obj.BeforeSave(nil))
		assert.Equal(t, "123", obj.GID)
	})

	t.Run("adopting an identity only moves the local key", func(t *testing.T) {
		existing := RemoteObject{ID: uuid.New(), RemoteID: 123}
		fresh := RemoteObject{RemoteID: 123}
		fresh.AdoptIdentity(existing)
		assert.Equal(t, existing.ID, fresh.ID)
		assert.Equal(t, int64(123), fresh.RemoteID)
	})

	t.Run("permalink", func(t *testing.T) {
		obj := RemoteObject{RemoteID: 42}
		assert.Equal(t, "https://app.asana.com/0/42", obj.AsanaURL())
	})
}

func TestNextColor(t *testing.T) {
	seen := map[string]bool{}
	for range len(Colors) {
		color := NextColor()
		assert.Contains(t, Colors, color)
		seen[color] = true
	}
	// a full rotation touches the whole palette
	assert.Len(t, seen, len(Colors))
}
