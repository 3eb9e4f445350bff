// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind names one mirrored entity kind. The values double as the user-facing
// spelling accepted by the include and exclude filters.
type Kind string

const (
	KindWorkspace          Kind = "workspace"
	KindTeam               Kind = "team"
	KindUser               Kind = "user"
	KindTag                Kind = "tag"
	KindProject            Kind = "project"
	KindProjectStatus      Kind = "projectstatus"
	KindTask               Kind = "task"
	KindStory              Kind = "story"
	KindAttachment         Kind = "attachment"
	KindCustomField        Kind = "customfield"
	KindCustomFieldSetting Kind = "customfieldsetting"
	KindWebhook            Kind = "webhook"
	KindSyncToken          Kind = "synctoken"
)

var allKinds = []Kind{
	KindWorkspace, KindTeam, KindUser, KindTag, KindProject, KindProjectStatus,
	KindTask, KindStory, KindAttachment, KindCustomField, KindCustomFieldSetting,
	KindWebhook, KindSyncToken,
}

// ModelFilter gates which entity kinds get persisted during a run. Kinds not
// selected are still traversed where the graph requires it, just never
// written.
type ModelFilter struct {
	enabled map[Kind]bool
}

// NewModelFilter builds a filter from user-supplied include and exclude
// lists. Unknown names are a configuration error and surface before any
// network activity.
func NewModelFilter(include, exclude []string) (ModelFilter, error) {
	known := make(map[Kind]bool, len(allKinds))
	for _, kind := range allKinds {
		known[kind] = true
	}

	enabled := make(map[Kind]bool, len(allKinds))
	if len(include) == 0 {
		for _, kind := range allKinds {
			enabled[kind] = true
		}
	} else {
		var bad []string
		for _, name := range include {
			kind := Kind(strings.ToLower(name))
			if !known[kind] {
				bad = append(bad, name)
				continue
			}
			enabled[kind] = true
		}
		if err := badNamesError(bad, "model"); err != nil {
			return ModelFilter{}, err
		}
	}

	var bad []string
	for _, name := range exclude {
		kind := Kind(strings.ToLower(name))
		if !known[kind] {
			bad = append(bad, name)
			continue
		}
		delete(enabled, kind)
	}
	if err := badNamesError(bad, "model"); err != nil {
		return ModelFilter{}, err
	}

	return ModelFilter{enabled: enabled}, nil
}

// Enabled reports whether the kind should be written. The zero filter allows
// everything so internal callers such as the webhook receiver need no setup.
func (f ModelFilter) Enabled(kind Kind) bool {
	if f.enabled == nil {
		return true
	}
	return f.enabled[kind]
}

func badNamesError(bad []string, noun string) error {
	switch len(bad) {
	case 0:
		return nil
	case 1:
		return errors.Errorf("%s is not an Asana %s", bad[0], noun)
	default:
		return errors.Errorf("specified %ss are not valid: %s", noun, strings.Join(bad, ", "))
	}
}
