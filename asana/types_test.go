// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package asana

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGID(t *testing.T) {
	assert.Equal(t, "42", GID(Resource{"gid": "42"}))
	// legacy responses carry a numeric id instead
	assert.Equal(t, "42", GID(Resource{"id": float64(42)}))
	assert.Equal(t, "42", GID(Resource{"id": "42"}))
	// gid wins when both are present
	assert.Equal(t, "1", GID(Resource{"gid": "1", "id": float64(2)}))
	assert.Equal(t, "", GID(Resource{}))
}

func TestRemoteID(t *testing.T) {
	assert.Equal(t, int64(42), RemoteID(Resource{"gid": "42"}))
	assert.Equal(t, int64(0), RemoteID(Resource{"gid": "not-a-number"}))
	assert.Equal(t, int64(0), RemoteID(Resource{}))
}

func TestRefs(t *testing.T) {
	raw := Resource{
		"assignee": map[string]any{"gid": "7", "name": "Ada"},
		"broken":   "not an object",
		"followers": []any{
			map[string]any{"gid": "7"},
			"garbage entry",
			map[string]any{"gid": "8"},
		},
	}

	t.Run("single reference", func(t *testing.T) {
		assignee, ok := Ref(raw, "assignee")
		require.True(t, ok)
		assert.Equal(t, "Ada", Name(assignee))

		_, ok = Ref(raw, "broken")
		assert.False(t, ok)
		_, ok = Ref(raw, "absent")
		assert.False(t, ok)
	})

	t.Run("collection skips malformed entries", func(t *testing.T) {
		followers := Refs(raw, "followers")
		require.Len(t, followers, 2)
		assert.Equal(t, "8", GID(followers[1]))
		assert.Nil(t, Refs(raw, "absent"))
	})
}

func TestEventKind(t *testing.T) {
	assert.Equal(t, "task", Event{Resource: EventResource{ResourceType: "task"}}.Kind())
	// the polling endpoint still emits the legacy shape
	assert.Equal(t, "story", Event{Type: "story"}.Kind())
	assert.Equal(t, "task", Event{Type: "story", Resource: EventResource{ResourceType: "task"}}.Kind())
}

func TestWebhookPayloadDecoding(t *testing.T) {
	var payload WebhookPayload
	err := json.Unmarshal([]byte(`{
		"events": [{
			"action": "changed",
			"resource": {"gid": "4", "resource_type": "task", "name": "a task"},
			"parent": {"gid": "3", "resource_type": "project"},
			"created_at": "2026-08-30T12:00:00.000Z"
		}]
	}`), &payload)
	require.NoError(t, err)
	require.Len(t, payload.Events, 1)

	event := payload.Events[0]
	assert.Equal(t, "changed", event.Action)
	assert.Equal(t, int64(4), event.Resource.RemoteID())
	require.NotNil(t, event.Parent)
	assert.Equal(t, "project", event.Parent.ResourceType)
	assert.False(t, event.CreatedAt.IsZero())
}
