// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database/models"
)

// RefreshTask re-fetches one task from Asana and rewrites the local row,
// outside of any full sync run.
func (s *Service) RefreshTask(ctx context.Context, remoteID int64) (*models.Task, error) {
	r := s.newRun(Options{})
	if err := r.syncTaskByID(ctx, formatRemoteID(remoteID), nil); err != nil {
		return nil, err
	}
	task, err := s.repos.Tasks.FindByRemoteID(remoteID)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// PushTask updates Asana with the local values of the named task fields.
// Defaults to the completed flag.
func (s *Service) PushTask(ctx context.Context, task *models.Task, fields []string) error {
	if len(fields) == 0 {
		fields = []string{"completed"}
	}
	data := make(map[string]any, len(fields))
	for _, field := range fields {
		value, err := taskFieldValue(task, field)
		if err != nil {
			return err
		}
		data[field] = value
	}
	if _, err := s.remote.Tasks.Update(ctx, formatRemoteID(task.RemoteID), data); err != nil {
		return errors.Wrapf(err, "could not update remote task %d", task.RemoteID)
	}
	slog.Debug("updated remote task", "name", task.Name, "fields", fields)
	return nil
}

// AddComment posts a comment on the task at Asana and mirrors the resulting
// story locally.
func (s *Service) AddComment(ctx context.Context, task *models.Task, text string) (asana.Resource, error) {
	story, err := s.remote.Tasks.AddComment(ctx, formatRemoteID(task.RemoteID), text)
	if err != nil {
		return nil, errors.Wrapf(err, "could not comment on remote task %d", task.RemoteID)
	}
	slog.Debug("added comment", "task", task.Name)
	r := s.newRun(Options{})
	if err := r.syncStory(ctx, asana.GID(story)); err != nil {
		slog.Warn("comment created remotely but not mirrored", "story", asana.GID(story), "err", err)
	}
	return story, nil
}

// DeleteTask deletes the task at Asana and then drops the local row.
func (s *Service) DeleteTask(ctx context.Context, task *models.Task) error {
	if err := s.remote.Tasks.Delete(ctx, formatRemoteID(task.RemoteID)); err != nil {
		return errors.Wrapf(err, "could not delete remote task %d", task.RemoteID)
	}
	slog.Debug("deleted remote task", "name", task.Name)
	return s.repos.Tasks.DeleteByRemoteIDs(nil, []int64{task.RemoteID})
}

func taskFieldValue(task *models.Task, field string) (any, error) {
	switch field {
	case "completed":
		return task.Completed, nil
	case "name":
		return task.Name, nil
	case "notes":
		return task.Notes, nil
	case "html_notes":
		return task.HTMLNotes, nil
	case "due_on":
		if task.DueOn == nil {
			return nil, nil
		}
		return task.DueOn.String(), nil
	case "due_at":
		if task.DueAt == nil {
			return nil, nil
		}
		return task.DueAt, nil
	case "assignee":
		if task.AssigneeRemoteID == nil {
			return nil, nil
		}
		return formatRemoteID(*task.AssigneeRemoteID), nil
	default:
		return nil, errors.Errorf("cannot push task field %s", field)
	}
}
