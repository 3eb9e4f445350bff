// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package asana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient("test-token")
	require.NoError(t, err)
	client.SetBaseURL(server.URL)
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
}

func TestClientRequests(t *testing.T) {
	t.Run("sends the bearer token and decodes the envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "/tasks/4", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":{"gid":"4","name":"a task"}}`))
		})

		task, err := client.Tasks.FindByID(context.Background(), "4")
		require.NoError(t, err)
		assert.Equal(t, "4", GID(task))
		assert.Equal(t, "a task", Name(task))
	})

	t.Run("collection requests carry their scope in the query", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("project"))
			_, _ = w.Write([]byte(`{"data":[{"gid":"4","name":"a"},{"gid":"5","name":"b"}]}`))
		})

		tasks, err := client.Tasks.FindAll(context.Background(), "3")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "5", GID(tasks[1]))
	})

	t.Run("request bodies are wrapped in a data envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, true, body["data"]["completed"])
			_, _ = w.Write([]byte(`{"data":{"gid":"4"}}`))
		})

		_, err := client.Tasks.Update(context.Background(), "4", map[string]any{"completed": true})
		require.NoError(t, err)
	})
}

func TestClientErrorMapping(t *testing.T) {
	t.Run("404 becomes a typed not-found error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[{"message":"task: Not Found"}]}`))
		})

		_, err := client.Tasks.FindByID(context.Background(), "4")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.True(t, IsGone(err))
	})

	t.Run("403 becomes a typed forbidden error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := client.Tasks.FindByID(context.Background(), "4")
		require.Error(t, err)
		assert.True(t, IsForbidden(err))
		assert.True(t, IsGone(err))
	})

	t.Run("412 carries the replacement sync token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPreconditionFailed)
			_, _ = w.Write([]byte(`{"sync":"fresh-token","errors":[{"message":"Sync token invalid"}]}`))
		})

		_, err := client.Events.Get(context.Background(), "3", "stale")
		require.Error(t, err)
		var invalid *InvalidTokenError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "fresh-token", invalid.Sync)
	})

	t.Run("other 4xx become invalid request errors", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"target url not reachable"}]}`))
		})

		_, err := client.Webhooks.Create(context.Background(), "3", "https://unreachable.example.com")
		require.Error(t, err)
		var invalid *InvalidRequestError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "target url not reachable", invalid.Message)
	})

	t.Run("server errors are retried", func(t *testing.T) {
		attempts := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"data":{"gid":"4"}}`))
		})

		task, err := client.Tasks.FindByID(context.Background(), "4")
		require.NoError(t, err)
		assert.Equal(t, "4", GID(task))
		assert.Equal(t, 2, attempts)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		attempts := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.Tasks.FindByID(context.Background(), "4")
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestEventsGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("resource"))
		assert.Equal(t, "tok-1", r.URL.Query().Get("sync"))
		_, _ = w.Write([]byte(`{
			"data":[{"action":"changed","resource":{"gid":"4","resource_type":"task"}}],
			"sync":"tok-2"
		}`))
	})

	batch, err := client.Events.Get(context.Background(), "3", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", batch.Sync)
	require.Len(t, batch.Data, 1)
	assert.Equal(t, "task", batch.Data[0].Kind())
	assert.Equal(t, int64(4), batch.Data[0].Resource.RemoteID())
}
