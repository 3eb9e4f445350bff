// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/monitoring"
	"github.com/mirrorhq/asanasync/shared"
)

// syncWorkspace mirrors one workspace and everything under it. Users, tags
// and teams are flat collections; projects carry the task traversal.
func (r *run) syncWorkspace(ctx context.Context, workspaceGID string) error {
	raw, err := r.remote.Workspaces.FindByID(ctx, workspaceGID)
	if err != nil {
		return errors.Wrapf(err, "could not fetch workspace %s", workspaceGID)
	}
	slog.Debug("syncing workspace", "name", asana.Name(raw))

	var workspace *models.Workspace
	if r.opts.Filter.Enabled(KindWorkspace) && r.commit() {
		row := models.Workspace{RemoteObject: models.RemoteObject{RemoteID: asana.RemoteID(raw)}}
		if err := projectOnto(raw, &row, "email_domains"); err != nil {
			return err
		}
		if err := r.repos.Workspaces.Upsert(nil, &row); err != nil {
			return errors.Wrapf(err, "could not persist workspace %s", workspaceGID)
		}
		monitoring.SyncedResourcesAmount.WithLabelValues("workspace").Inc()
		workspace = &row
	}

	projectGIDs, err := r.resolveProjectGIDs(ctx, workspaceGID)
	if err != nil {
		return err
	}

	if r.opts.Filter.Enabled(KindUser) {
		users, err := r.remote.Users.FindAll(ctx, workspaceGID)
		if err != nil {
			return errors.Wrapf(err, "could not list users of workspace %s", workspaceGID)
		}
		for _, user := range users {
			if err := r.syncUser(ctx, user, workspace); err != nil {
				slog.Error("skipping a user sync", "user", asana.GID(user), "err", err)
				monitoring.SyncErrorsAmount.WithLabelValues("user").Inc()
			}
		}
	}

	if r.opts.Filter.Enabled(KindTag) {
		tags, err := r.remote.Tags.FindByWorkspace(ctx, workspaceGID)
		if err != nil {
			return errors.Wrapf(err, "could not list tags of workspace %s", workspaceGID)
		}
		for _, tag := range tags {
			if err := r.syncTag(ctx, tag, workspace); err != nil {
				slog.Error("skipping a tag sync", "tag", asana.GID(tag), "err", err)
				monitoring.SyncErrorsAmount.WithLabelValues("tag").Inc()
			}
		}
	}

	if r.opts.Filter.Enabled(KindTeam) {
		teams, err := r.remote.Teams.FindByOrganization(ctx, workspaceGID)
		if err != nil {
			return errors.Wrapf(err, "could not list teams of organization %s", workspaceGID)
		}
		for _, team := range teams {
			if err := r.syncTeam(ctx, team); err != nil {
				slog.Error("skipping a team sync", "team", asana.GID(team), "err", err)
				monitoring.SyncErrorsAmount.WithLabelValues("team").Inc()
			}
		}
	}

	if r.opts.Filter.Enabled(KindProject) {
		for _, projectGID := range projectGIDs {
			if err := r.checkSyncProject(ctx, workspace, projectGID); err != nil {
				slog.Error("skipping a project sync check", "project", projectGID, "err", err)
				monitoring.SyncErrorsAmount.WithLabelValues("project").Inc()
			}
		}
	}

	if workspace != nil {
		slog.Info("synced workspace", "name", workspace.Name)
	}
	return nil
}

func (r *run) syncUser(ctx context.Context, summary asana.Resource, workspace *models.Workspace) error {
	raw, err := r.remote.Users.FindByID(ctx, asana.GID(summary))
	if err != nil {
		return err
	}
	slog.Debug("syncing user", "name", asana.Name(raw))
	if !r.commit() {
		return nil
	}

	flattenPhoto(raw)
	user := models.User{RemoteObject: models.RemoteObject{RemoteID: asana.RemoteID(raw)}}
	if err := projectOnto(raw, &user, "workspaces"); err != nil {
		return err
	}
	if err := r.repos.Users.Upsert(nil, &user); err != nil {
		return err
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("user").Inc()
	if workspace != nil {
		return r.repos.Users.AppendWorkspace(nil, &user, workspace)
	}
	return nil
}

// flattenPhoto reduces the size-keyed photo object to one usable url.
func flattenPhoto(raw asana.Resource) {
	if photo, ok := asana.Ref(raw, "photo"); ok {
		raw["photo"] = photo["image_128x128"]
	}
}

func (r *run) syncTag(ctx context.Context, summary asana.Resource, workspace *models.Workspace) error {
	raw, err := r.remote.Tags.FindByID(ctx, asana.GID(summary))
	if err != nil {
		return err
	}
	slog.Debug("syncing tag", "name", asana.Name(raw))
	if !r.commit() {
		return nil
	}

	tag := models.Tag{RemoteObject: models.RemoteObject{RemoteID: asana.RemoteID(raw)}}
	if workspace != nil {
		tag.WorkspaceRemoteID = shared.Ptr(workspace.RemoteID)
	}
	followers := asana.Refs(raw, "followers")
	if err := projectOnto(raw, &tag, "followers", "workspace"); err != nil {
		return err
	}
	if err := r.repos.Tags.Upsert(nil, &tag); err != nil {
		return err
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("tag").Inc()

	rows, err := r.stubUsers(followers)
	if err != nil {
		return err
	}
	return r.repos.Tags.ReplaceFollowers(nil, &tag, rows)
}

func (r *run) syncTeam(ctx context.Context, summary asana.Resource) error {
	raw, err := r.remote.Teams.FindByID(ctx, asana.GID(summary))
	if err != nil {
		return err
	}
	slog.Debug("syncing team", "name", asana.Name(raw))
	if !r.commit() {
		return nil
	}

	team := models.Team{RemoteObject: models.RemoteObject{RemoteID: asana.RemoteID(raw)}}
	if organization, ok := asana.Ref(raw, "organization"); ok {
		team.OrganizationID = shared.Ptr(asana.RemoteID(organization))
		team.OrganizationName = asana.Name(organization)
	}
	if err := projectOnto(raw, &team, "organization"); err != nil {
		return err
	}
	if err := r.repos.Teams.Upsert(nil, &team); err != nil {
		return err
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("team").Inc()
	return nil
}

// stubUsers materializes shadow rows for every referenced user so the
// association write that follows always has rows to point at.
func (r *run) stubUsers(refs []asana.Resource) ([]models.User, error) {
	rows := make([]models.User, 0, len(refs))
	for _, ref := range refs {
		row, err := r.repos.Users.GetOrCreateStub(nil, asana.RemoteID(ref), asana.Name(ref))
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
