// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"log/slog"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/monitoring"
)

// HandleEvents applies a webhook event batch for a project. Every kind is
// enabled and writes are committed; webhook deliveries carry no run options.
func (s *Service) HandleEvents(ctx context.Context, prj *models.Project, events []asana.Event) error {
	return s.newRun(Options{}).processEvents(ctx, prj, events)
}

// processEvents dispatches each event by resource kind and action. Events are
// applied best effort: one failing event is logged and does not block its
// siblings, and reprocessing a batch is safe because every write is an upsert
// keyed by remote id.
func (r *run) processEvents(ctx context.Context, prj *models.Project, events []asana.Event) error {
	ignored := 0
	for _, event := range events {
		if err := r.applyEvent(ctx, prj, event, &ignored); err != nil {
			slog.Error("skipping an event", "action", event.Action, "kind", event.Kind(), "err", err)
			monitoring.SyncErrorsAmount.WithLabelValues("event").Inc()
			continue
		}
		monitoring.EventsProcessedAmount.WithLabelValues(event.Action).Inc()
	}
	slog.Info("processed events",
		"project", prj.Name, "count", len(events)-ignored, "ignored", ignored)
	return nil
}

func (r *run) applyEvent(ctx context.Context, prj *models.Project, event asana.Event, ignored *int) error {
	switch {
	case event.Action == "deleted":
		// deletions carry no kind; assume a task
		if r.commit() {
			return r.repos.Tasks.DeleteByRemoteIDs(nil, []int64{event.Resource.RemoteID()})
		}
		return nil
	case event.Action == "sync_error":
		slog.Warn("remote reported a sync error", "message", event.Message)
		return nil
	}

	switch event.Kind() {
	case "project":
		if !r.opts.Filter.Enabled(KindProject) {
			*ignored++
			return nil
		}
		if event.Action == "removed" {
			return r.repos.Projects.DeleteByRemoteID(nil, event.Resource.RemoteID())
		}
		_, err := r.syncProjectByID(ctx, formatRemoteID(prj.RemoteID))
		return err
	case "task":
		if !r.opts.Filter.Enabled(KindTask) {
			*ignored++
			return nil
		}
		if event.Action == "removed" {
			return r.repos.Tasks.DeleteByRemoteIDs(nil, []int64{event.Resource.RemoteID()})
		}
		return r.syncTaskByID(ctx, event.Resource.GID, prj)
	case "story":
		if !r.opts.Filter.Enabled(KindStory) {
			*ignored++
			return nil
		}
		return r.syncStory(ctx, event.Resource.GID)
	default:
		slog.Debug("ignoring event for unhandled kind", "kind", event.Kind())
		return nil
	}
}
