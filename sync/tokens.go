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

// checkSyncProject decides between event replay and a full poll for one
// project.
//
// With a stored token the events endpoint is tried first; a valid token
// yields a batch that is replayed in place of the poll. A rejected token
// carries a replacement, which is persisted for the next cycle while this
// cycle falls back to polling, since the missed window is not retrievable.
// Without a token, one is requested up front and stored after the poll
// succeeds.
func (r *run) checkSyncProject(ctx context.Context, workspace *models.Workspace, projectGID string) error {
	remoteID := parseRemoteID(projectGID)

	token, found, err := r.repos.SyncTokens.GetByProject(remoteID)
	if err != nil {
		return err
	}

	var freshSync string
	if found {
		batch, err := r.remote.Events.Get(ctx, projectGID, token.Sync)
		if err == nil {
			if replayErr := r.replayEvents(ctx, remoteID, batch.Data); replayErr != nil {
				return replayErr
			}
			return r.ensureWebhook(ctx, workspace, projectGID)
		}
		var invalid *asana.InvalidTokenError
		if !errors.As(err, &invalid) {
			return errors.Wrapf(err, "could not fetch events for project %s", projectGID)
		}
		slog.Debug("sync token expired, falling back to poll", "project", projectGID)
		if r.commit() {
			if err := r.repos.SyncTokens.Set(nil, remoteID, invalid.Sync); err != nil {
				return err
			}
		}
	} else {
		// first contact issues a token via the invalid-token error
		_, err := r.remote.Events.Get(ctx, projectGID, "")
		var invalid *asana.InvalidTokenError
		if errors.As(err, &invalid) {
			freshSync = invalid.Sync
		} else if err != nil {
			slog.Warn("could not obtain a sync token, polling without one", "project", projectGID, "err", err)
		}
	}

	archived, err := r.syncProjectByID(ctx, projectGID)
	if err != nil {
		return err
	}
	if !archived {
		if err := r.ensureWebhook(ctx, workspace, projectGID); err != nil {
			return err
		}
	}
	if freshSync != "" && r.commit() {
		return r.repos.SyncTokens.Set(nil, remoteID, freshSync)
	}
	return nil
}

// replayEvents applies an event batch against the project's local state.
func (r *run) replayEvents(ctx context.Context, projectRemoteID int64, events []asana.Event) error {
	prj, err := r.repos.Projects.FindByRemoteID(projectRemoteID)
	if err != nil {
		return errors.Wrapf(err, "could not load project %d for event replay", projectRemoteID)
	}
	return r.processEvents(ctx, &prj, events)
}
