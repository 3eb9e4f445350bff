// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutils

import (
	"strconv"

	"github.com/mirrorhq/asanasync/asana"
)

// Raw resource builders with the shape the Asana API actually delivers.
// Everything is map-based because that is what the sync engine consumes.

func GIDOf(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Ref is a compact resource reference as it appears nested inside another
// resource, e.g. an assignee or follower entry.
func Ref(id int64, name string) asana.Resource {
	return asana.Resource{"gid": GIDOf(id), "name": name}
}

func RefList(refs ...asana.Resource) []any {
	out := make([]any, 0, len(refs))
	for _, ref := range refs {
		out = append(out, map[string]any(ref))
	}
	return out
}

func WorkspaceResource(id int64, name string) asana.Resource {
	return asana.Resource{
		"gid":             GIDOf(id),
		"name":            name,
		"is_organization": true,
		"email_domains":   []any{"example.com"},
	}
}

func ProjectResource(id int64, name string, workspaceID, teamID int64) asana.Resource {
	return asana.Resource{
		"gid":       GIDOf(id),
		"name":      name,
		"archived":  false,
		"color":     "dark-pink",
		"notes":     "",
		"public":    true,
		"layout":    "list",
		"workspace": map[string]any(Ref(workspaceID, "workspace")),
		"team":      map[string]any(Ref(teamID, "team")),
		"followers": []any{},
		"members":   []any{},
	}
}

func TaskResource(id int64, name string) asana.Resource {
	return asana.Resource{
		"gid":              GIDOf(id),
		"name":             name,
		"completed":        false,
		"notes":            "",
		"assignee_status":  "inbox",
		"resource_subtype": "default_task",
		"followers":        []any{},
		"tags":             []any{},
		"projects":         []any{},
		"dependencies":     []any{},
		"num_likes":        float64(0),
		"hearts":           []any{},
	}
}

func UserResource(id int64, name, email string) asana.Resource {
	return asana.Resource{
		"gid":   GIDOf(id),
		"name":  name,
		"email": email,
		"photo": map[string]any{
			"image_128x128": "https://example.com/" + GIDOf(id) + ".png",
		},
		"workspaces": []any{},
	}
}

func TagResource(id int64, name string, workspaceID int64) asana.Resource {
	return asana.Resource{
		"gid":       GIDOf(id),
		"name":      name,
		"color":     "light-green",
		"notes":     "",
		"workspace": map[string]any(Ref(workspaceID, "workspace")),
		"followers": []any{},
	}
}

func TeamResource(id int64, name string, organizationID int64) asana.Resource {
	return asana.Resource{
		"gid":          GIDOf(id),
		"name":         name,
		"organization": map[string]any(Ref(organizationID, "organization")),
	}
}

func StoryResource(id int64, text string, targetID, authorID int64) asana.Resource {
	return asana.Resource{
		"gid":        GIDOf(id),
		"type":       "comment",
		"text":       text,
		"html_text":  "<body>" + text + "</body>",
		"target":     map[string]any(Ref(targetID, "target")),
		"created_by": map[string]any(Ref(authorID, "author")),
	}
}

func AttachmentResource(id int64, name string, parentID int64) asana.Resource {
	return asana.Resource{
		"gid":          GIDOf(id),
		"name":         name,
		"host":         "asana",
		"download_url": "https://example.com/" + name,
		"view_url":     "https://example.com/view/" + name,
		"parent":       map[string]any(Ref(parentID, "task")),
	}
}
