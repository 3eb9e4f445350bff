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

// syncProjectByID polls one project: the row itself, its tasks, and finally
// the stale-row pruning that makes the pass convergent. Returns whether the
// project is archived upstream.
func (r *run) syncProjectByID(ctx context.Context, projectGID string) (bool, error) {
	raw, err := r.remote.Projects.FindByID(ctx, projectGID)
	if err != nil {
		return false, errors.Wrapf(err, "could not fetch project %s", projectGID)
	}
	slog.Debug("syncing project", "name", asana.Name(raw))
	archived := isArchived(raw)

	var prj *models.Project
	if r.commit() {
		prj, err = r.persistProject(raw)
		if err != nil {
			return archived, err
		}
	}

	if r.opts.Filter.Enabled(KindTask) && (!archived || r.opts.ProcessArchived) {
		tasks, err := r.remote.Tasks.FindAll(ctx, projectGID)
		if err != nil {
			return archived, errors.Wrapf(err, "could not list tasks of project %s", projectGID)
		}
		for _, task := range tasks {
			if err := r.syncTask(ctx, task, prj, false); err != nil {
				slog.Error("skipping a task sync", "task", asana.GID(task), "err", err)
				monitoring.SyncErrorsAmount.WithLabelValues("task").Inc()
			}
		}
		if prj != nil {
			if err := r.pruneStaleTasks(prj); err != nil {
				return archived, err
			}
		}
	}

	if prj != nil {
		slog.Info("synced project", "name", prj.Name)
	}
	return archived, nil
}

// persistProject writes the project row plus the nested pieces that ride
// along on the project payload: current status and custom field settings.
func (r *run) persistProject(raw asana.Resource) (*models.Project, error) {
	coerceArchived(raw)
	prj := models.Project{RemoteObject: models.RemoteObject{RemoteID: asana.RemoteID(raw)}}

	if owner, ok := asana.Ref(raw, "owner"); ok {
		stub, err := r.repos.Users.GetOrCreateStub(nil, asana.RemoteID(owner), asana.Name(owner))
		if err != nil {
			return nil, err
		}
		prj.OwnerRemoteID = shared.Ptr(stub.RemoteID)
	}
	if team, ok := asana.Ref(raw, "team"); ok {
		stub, err := r.repos.Teams.GetOrCreateStub(nil, asana.RemoteID(team), asana.Name(team))
		if err != nil {
			return nil, err
		}
		prj.TeamRemoteID = shared.Ptr(stub.RemoteID)
	}
	if workspace, ok := asana.Ref(raw, "workspace"); ok {
		stub, err := r.repos.Workspaces.GetOrCreateStub(nil, asana.RemoteID(workspace), asana.Name(workspace))
		if err != nil {
			return nil, err
		}
		prj.WorkspaceRemoteID = stub.RemoteID
	}

	members := asana.Refs(raw, "members")
	followers := asana.Refs(raw, "followers")
	status, hasStatus := asana.Ref(raw, "current_status")
	settings := asana.Refs(raw, "custom_field_settings")

	err := projectOnto(raw, &prj,
		"owner", "team", "workspace", "members", "followers", "current_status", "custom_field_settings")
	if err != nil {
		return nil, err
	}
	if err := r.repos.Projects.Upsert(nil, &prj); err != nil {
		return nil, errors.Wrapf(err, "could not persist project %d", prj.RemoteID)
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("project").Inc()

	if hasStatus && r.opts.Filter.Enabled(KindProjectStatus) {
		if err := r.persistCurrentStatus(status, &prj); err != nil {
			return nil, err
		}
	}
	if r.opts.Filter.Enabled(KindCustomFieldSetting) {
		for _, setting := range settings {
			if err := r.persistCustomFieldSetting(setting, &prj); err != nil {
				return nil, err
			}
		}
	}

	memberRows, err := r.stubUsers(members)
	if err != nil {
		return nil, err
	}
	if err := r.repos.Projects.AppendMembers(nil, &prj, memberRows); err != nil {
		return nil, err
	}
	followerRows, err := r.stubUsers(followers)
	if err != nil {
		return nil, err
	}
	if err := r.repos.Projects.ReplaceFollowers(nil, &prj, followerRows); err != nil {
		return nil, err
	}
	return &prj, nil
}

// persistCurrentStatus stores the latest status row and points the project at
// it. The project row must already exist because the status references it.
func (r *run) persistCurrentStatus(raw asana.Resource, prj *models.Project) error {
	status := models.ProjectStatus{
		RemoteObject:    models.RemoteObject{RemoteID: asana.RemoteID(raw)},
		ProjectRemoteID: shared.Ptr(prj.RemoteID),
	}
	if createdBy, ok := asana.Ref(raw, "created_by"); ok {
		stub, err := r.repos.Users.GetOrCreateStub(nil, asana.RemoteID(createdBy), asana.Name(createdBy))
		if err != nil {
			return err
		}
		status.CreatedByRemoteID = shared.Ptr(stub.RemoteID)
	}
	if err := projectOnto(raw, &status, "created_by", "project"); err != nil {
		return err
	}
	if err := r.repos.ProjectStatuses.Upsert(nil, &status); err != nil {
		return err
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("project_status").Inc()
	prj.CurrentStatusRemoteID = shared.Ptr(status.RemoteID)
	return r.repos.Projects.Upsert(nil, prj)
}

func (r *run) persistCustomFieldSetting(raw asana.Resource, prj *models.Project) error {
	field, ok := asana.Ref(raw, "custom_field")
	if !ok {
		return nil
	}
	stub, err := r.repos.CustomFields.GetOrCreateStub(nil, asana.RemoteID(field), asana.Name(field))
	if err != nil {
		return err
	}
	setting := models.CustomFieldSetting{
		RemoteObject:        models.RemoteObject{RemoteID: asana.RemoteID(raw)},
		CustomFieldRemoteID: stub.RemoteID,
		ProjectRemoteID:     prj.RemoteID,
		WorkspaceRemoteID:   prj.WorkspaceRemoteID,
	}
	if err := projectOnto(raw, &setting, "custom_field", "project", "workspace"); err != nil {
		return err
	}
	if err := r.repos.CustomFieldSettings.Upsert(nil, &setting); err != nil {
		return err
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("custom_field_setting").Inc()
	return nil
}

// pruneStaleTasks deletes local tasks of the project that the traversal did
// not observe. After this the local task set strictly mirrors the remote one.
func (r *run) pruneStaleTasks(prj *models.Project) error {
	stale, err := r.repos.Tasks.StaleRemoteIDsInProject(prj.RemoteID, r.synced)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	if err := r.repos.Tasks.DeleteByRemoteIDs(nil, stale); err != nil {
		return err
	}
	monitoring.PrunedTasksAmount.Add(float64(len(stale)))
	slog.Info("deleted tasks no longer present", "count", len(stale), "remoteIDs", stale)
	return nil
}
