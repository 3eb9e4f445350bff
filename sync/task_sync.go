// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/monitoring"
	"github.com/mirrorhq/asanasync/shared"
)

// syncTask mirrors one task together with its parent, subtasks, dependencies,
// attachments and stories.
//
// The parent is synced first, flagged with skipSubtasks so a task and its
// child cannot recurse into each other forever. Subtask and dependency
// expansion consults the run's visited set, which bounds the recursion on
// cyclic graphs and keeps every remote id to a single fetch per run.
func (r *run) syncTask(ctx context.Context, summary asana.Resource, prj *models.Project, skipSubtasks bool) error {
	taskGID := asana.GID(summary)
	remoteID := asana.RemoteID(summary)
	if r.seen(remoteID) {
		// already fetched this run, but the task may also live in the
		// project currently being traversed
		if prj != nil && r.opts.Filter.Enabled(KindTask) && r.commit() {
			row, err := r.repos.Tasks.GetOrCreateStub(nil, remoteID, asana.Name(summary))
			if err != nil {
				return err
			}
			return r.repos.Tasks.AppendProject(nil, &row, prj)
		}
		return nil
	}

	raw, err := r.remote.Tasks.FindByID(ctx, taskGID)
	if err != nil {
		if asana.IsGone(err) {
			// no longer visible upstream, drop the shadow row
			if r.commit() {
				return r.repos.Tasks.DeleteByRemoteIDs(nil, []int64{remoteID})
			}
			return nil
		}
		return errors.Wrapf(err, "could not fetch task %s", taskGID)
	}
	slog.Debug("syncing task", "name", asana.Name(raw))

	if !r.opts.Filter.Enabled(KindTask) || !r.commit() {
		return nil
	}

	task := models.Task{RemoteObject: models.RemoteObject{RemoteID: remoteID}}

	if parent, ok := asana.Ref(raw, "parent"); ok {
		parentID := asana.RemoteID(parent)
		if !r.seen(parentID) {
			exists, err := r.repos.Tasks.ExistsByRemoteID(parentID)
			if err != nil {
				return err
			}
			if !exists {
				if err := r.syncTask(ctx, parent, prj, true); err != nil {
					return err
				}
			}
		}
		task.ParentRemoteID = shared.Ptr(parentID)
	}
	if assignee, ok := asana.Ref(raw, "assignee"); ok {
		stub, err := r.repos.Users.GetOrCreateStub(nil, asana.RemoteID(assignee), asana.Name(assignee))
		if err != nil {
			return err
		}
		task.AssigneeRemoteID = shared.Ptr(stub.RemoteID)
	}

	followers := asana.Refs(raw, "followers")
	tags := asana.Refs(raw, "tags")
	dependencies := asana.Refs(raw, "dependencies")

	err = projectOnto(raw, &task,
		"assignee", "parent", "dependencies", "followers", "tags", "projects", "workspace")
	if err != nil {
		return err
	}
	if err := r.repos.Tasks.Upsert(nil, &task); err != nil {
		return errors.Wrapf(err, "could not persist task %d", remoteID)
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("task").Inc()
	r.mark(remoteID)

	followerRows, err := r.stubUsers(followers)
	if err != nil {
		return err
	}
	if err := r.repos.Tasks.ReplaceFollowers(nil, &task, followerRows); err != nil {
		return err
	}
	if r.opts.Filter.Enabled(KindTag) {
		for _, tagRef := range tags {
			stub, err := r.repos.Tags.GetOrCreateStub(nil, asana.RemoteID(tagRef), asana.Name(tagRef))
			if err != nil {
				return err
			}
			if err := r.repos.Tasks.AppendTag(nil, &task, &stub); err != nil {
				return err
			}
		}
	}
	if prj != nil {
		if err := r.repos.Tasks.AppendProject(nil, &task, prj); err != nil {
			return err
		}
	}

	if !skipSubtasks {
		subtasks, err := r.remote.Tasks.Subtasks(ctx, taskGID)
		if err != nil {
			return errors.Wrapf(err, "could not list subtasks of %s", taskGID)
		}
		for _, subtask := range subtasks {
			if !r.seen(asana.RemoteID(subtask)) {
				if err := r.syncTask(ctx, subtask, prj, false); err != nil {
					return err
				}
			}
		}
		if len(dependencies) > 0 {
			if err := r.syncDependencies(ctx, &task, dependencies, prj); err != nil {
				return err
			}
		}
	}

	if r.opts.Filter.Enabled(KindAttachment) {
		if err := r.syncTaskAttachments(ctx, &task, taskGID); err != nil {
			return err
		}
	}
	if r.opts.Filter.Enabled(KindStory) {
		if err := r.syncTaskStories(ctx, taskGID); err != nil {
			return err
		}
	}
	return nil
}

// syncDependencies syncs each dependency not yet visited, then replaces the
// task's dependency set with local rows matching the remote list.
func (r *run) syncDependencies(ctx context.Context, task *models.Task, dependencies []asana.Resource, prj *models.Project) error {
	rows := make([]*models.Task, 0, len(dependencies))
	for _, dependency := range dependencies {
		if !r.seen(asana.RemoteID(dependency)) {
			if err := r.syncTask(ctx, dependency, prj, false); err != nil {
				return err
			}
		}
		row, err := r.repos.Tasks.GetOrCreateStub(nil, asana.RemoteID(dependency), asana.Name(dependency))
		if err != nil {
			return err
		}
		rows = append(rows, &row)
	}
	return r.repos.Tasks.ReplaceDependencies(nil, task, rows)
}

func (r *run) syncTaskAttachments(ctx context.Context, task *models.Task, taskGID string) error {
	attachments, err := r.remote.Attachments.FindByTask(ctx, taskGID)
	if err != nil {
		return errors.Wrapf(err, "could not list attachments of task %s", taskGID)
	}
	for _, attachment := range attachments {
		if err := r.syncAttachment(ctx, task, asana.GID(attachment)); err != nil {
			slog.Error("skipping an attachment sync", "attachment", asana.GID(attachment), "err", err)
			monitoring.SyncErrorsAmount.WithLabelValues("attachment").Inc()
		}
	}
	return nil
}

func (r *run) syncTaskStories(ctx context.Context, taskGID string) error {
	stories, err := r.remote.Stories.FindByTask(ctx, taskGID)
	if err != nil {
		return errors.Wrapf(err, "could not list stories of task %s", taskGID)
	}
	for _, story := range stories {
		if err := r.syncStory(ctx, asana.GID(story)); err != nil {
			slog.Error("skipping a story sync", "story", asana.GID(story), "err", err)
			monitoring.SyncErrorsAmount.WithLabelValues("story").Inc()
		}
	}
	return nil
}

// syncTaskByID drives a task sync from a bare remote id, as delivered by
// change events.
func (r *run) syncTaskByID(ctx context.Context, taskGID string, prj *models.Project) error {
	return r.syncTask(ctx, asana.Resource{"gid": taskGID}, prj, false)
}

func (r *run) syncAttachment(ctx context.Context, task *models.Task, attachmentGID string) error {
	raw, err := r.remote.Attachments.FindByID(ctx, attachmentGID)
	if err != nil {
		return err
	}
	attachment := models.Attachment{
		RemoteObject:   models.RemoteObject{RemoteID: asana.RemoteID(raw)},
		ParentRemoteID: task.RemoteID,
	}
	if err := projectOnto(raw, &attachment, "parent"); err != nil {
		return err
	}
	if err := r.repos.Attachments.Upsert(nil, &attachment); err != nil {
		return err
	}
	monitoring.SyncedResourcesAmount.WithLabelValues("attachment").Inc()
	return nil
}

func (r *run) syncStory(ctx context.Context, storyGID string) error {
	raw, err := r.remote.Stories.FindByID(ctx, storyGID)
	if err != nil {
		if asana.IsNotFound(err) {
			slog.Info("story vanished before sync", "story", storyGID)
			return nil
		}
		return err
	}
	if !r.commit() {
		return nil
	}

	story := models.Story{RemoteObject: models.RemoteObject{RemoteID: asana.RemoteID(raw)}}
	if createdBy, ok := asana.Ref(raw, "created_by"); ok {
		stub, err := r.repos.Users.GetOrCreateStub(nil, asana.RemoteID(createdBy), asana.Name(createdBy))
		if err != nil {
			return err
		}
		story.CreatedByRemoteID = shared.Ptr(stub.RemoteID)
	}
	if target, ok := asana.Ref(raw, "target"); ok {
		story.Target = asana.RemoteID(target)
	}
	if err := projectOnto(raw, &story, "created_by", "target"); err != nil {
		return err
	}
	story.Text = truncate(story.Text, models.MaxStoryTextLength)
	story.HTMLText = truncate(story.HTMLText, models.MaxStoryTextLength)

	created, err := r.repos.Stories.CreateIfAbsent(nil, &story)
	if err != nil {
		return err
	}
	if created {
		monitoring.SyncedResourcesAmount.WithLabelValues("story").Inc()
	}
	return nil
}

func formatRemoteID(remoteID int64) string {
	return strconv.FormatInt(remoteID, 10)
}

func parseRemoteID(gid string) int64 {
	remoteID, _ := strconv.ParseInt(gid, 10, 64)
	return remoteID
}
