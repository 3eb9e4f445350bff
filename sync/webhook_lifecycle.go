// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database/models"
)

// WebhookPath returns the relative endpoint path Asana pushes a project's
// events to.
func WebhookPath(projectRemoteID int64) string {
	return fmt.Sprintf("/webhooks/project/%d/", projectRemoteID)
}

// ensureWebhook converges the project to exactly one active remote
// registration and one local shadow row.
//
// Steady state (one remote, one local, remote active) is left alone. Anything
// else, including duplicates left behind by a crash, is torn down remotely,
// trimmed locally to the oldest row, and re-registered from scratch.
func (r *run) ensureWebhook(ctx context.Context, workspace *models.Workspace, projectGID string) error {
	if !r.commit() || r.webhookURL == "" || workspace == nil {
		return nil
	}
	projectRemoteID := parseRemoteID(projectGID)

	remoteHooks, err := r.remote.Webhooks.GetAll(ctx, formatRemoteID(workspace.RemoteID), projectGID)
	if err != nil {
		return errors.Wrapf(err, "could not list webhooks of project %s", projectGID)
	}
	if len(remoteHooks) > 0 {
		local, err := r.repos.Webhooks.ListByProject(projectRemoteID)
		if err != nil {
			return err
		}
		active, _ := remoteHooks[0]["active"].(bool)
		if len(remoteHooks) == 1 && len(local) == 1 && active {
			return nil
		}
		for _, hook := range remoteHooks {
			if err := r.remote.Webhooks.DeleteByID(ctx, asana.GID(hook)); err != nil {
				slog.Warn("could not delete remote webhook", "webhook", asana.GID(hook), "err", err)
			}
		}
		for i := range local[1:] {
			if err := r.repos.Webhooks.Delete(nil, &local[i+1]); err != nil {
				return err
			}
		}
	}

	target := strings.TrimRight(r.webhookURL, "/") + WebhookPath(projectRemoteID)
	slog.Debug("registering webhook", "target", target)
	if _, err := r.remote.Webhooks.Create(ctx, projectGID, target); err != nil {
		var invalid *asana.InvalidRequestError
		if errors.As(err, &invalid) {
			slog.Warn("webhook registration rejected", "target", target, "err", err)
			return nil
		}
		return errors.Wrapf(err, "could not register webhook for project %s", projectGID)
	}
	return nil
}
