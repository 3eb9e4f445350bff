// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"encoding/json"
	"maps"

	"github.com/pkg/errors"

	"github.com/mirrorhq/asanasync/asana"
)

// Engagement and back-reference fields present on most resources that are
// never persisted directly.
var unpersistedKeys = []string{
	"id", "gid", "hearts", "liked", "likes", "num_likes",
	"memberships", "dependents",
}

// pop removes the named keys from the raw resource. Unknown keys are fine.
func pop(r asana.Resource, keys ...string) {
	for _, key := range keys {
		delete(r, key)
	}
}

// decodeInto projects the remaining raw fields onto the model struct by a
// JSON round trip. Fields the schema does not know are dropped on the floor,
// which is what keeps the sync forward compatible with remote schema drift.
func decodeInto(r asana.Resource, out any) error {
	buf, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "could not re-encode remote resource")
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return errors.Wrap(err, "could not decode remote resource")
	}
	return nil
}

// projectOnto copies the raw resource, strips the always-unpersisted keys
// plus any caller-specific ones, and decodes the rest onto the model.
func projectOnto(r asana.Resource, out any, extraKeys ...string) error {
	clone := maps.Clone(r)
	pop(clone, unpersistedKeys...)
	pop(clone, extraKeys...)
	return decodeInto(clone, out)
}

// coerceArchived normalizes the string forms of the archived flag some API
// paths return.
func coerceArchived(r asana.Resource) {
	if archived, ok := r["archived"].(string); ok {
		r["archived"] = archived == "true"
	}
}

func isArchived(r asana.Resource) bool {
	coerceArchived(r)
	archived, _ := r["archived"].(bool)
	return archived
}

// truncate shortens free-form text fields to the column width, counted in
// characters to match the varchar limit. Lossy on purpose.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
