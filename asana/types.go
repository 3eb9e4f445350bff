// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package asana

import (
	"strconv"
	"time"
)

// Resource is a raw remote resource exactly as Asana returned it. The sync
// engine works on the untyped form so field projection can diff the incoming
// key set against the local schema and survive remote schema drift.
type Resource = map[string]any

// GID returns the string id of a raw resource, tolerating both the modern
// "gid" field and the legacy numeric "id".
func GID(r Resource) string {
	if gid, ok := r["gid"].(string); ok && gid != "" {
		return gid
	}
	switch id := r["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	}
	return ""
}

// RemoteID returns the immutable numeric id of a raw resource, or 0 if the
// resource carries no parseable id.
func RemoteID(r Resource) int64 {
	id, err := strconv.ParseInt(GID(r), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Name returns the display name of a raw resource.
func Name(r Resource) string {
	name, _ := r["name"].(string)
	return name
}

// Ref returns a nested single-valued reference, e.g. a task's "assignee".
// The second return is false when the key is absent or null.
func Ref(r Resource, key string) (Resource, bool) {
	nested, ok := r[key].(map[string]any)
	return nested, ok && nested != nil
}

// Refs returns a nested collection-valued reference, e.g. "followers".
func Refs(r Resource, key string) []Resource {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Resource, 0, len(raw))
	for _, item := range raw {
		if nested, ok := item.(map[string]any); ok {
			out = append(out, nested)
		}
	}
	return out
}

// EventResource identifies the subject of a change event.
type EventResource struct {
	GID          string `json:"gid"`
	ResourceType string `json:"resource_type"`
	Name         string `json:"name"`
}

func (r EventResource) RemoteID() int64 {
	id, _ := strconv.ParseInt(r.GID, 10, 64)
	return id
}

// Event is one entry of an event batch, delivered either by the events
// endpoint or inside a webhook payload.
type Event struct {
	Action    string         `json:"action"`
	CreatedAt time.Time      `json:"created_at"`
	Resource  EventResource  `json:"resource"`
	Parent    *EventResource `json:"parent"`
	// Type is the legacy event shape still emitted on the polling endpoint.
	Type string `json:"type"`
	// Message is only set on sync_error events.
	Message string `json:"message"`
}

// Kind returns the resource kind of the event subject, preferring the modern
// resource_type over the legacy top-level type.
func (e Event) Kind() string {
	if e.Resource.ResourceType != "" {
		return e.Resource.ResourceType
	}
	return e.Type
}

// EventBatch is the response of the events-since-token endpoint.
type EventBatch struct {
	Data []Event `json:"data"`
	Sync string  `json:"sync"`
}

// WebhookPayload is the body of a signed webhook delivery.
type WebhookPayload struct {
	Events []Event `json:"events"`
}
