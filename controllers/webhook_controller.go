// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/monitoring"
	"github.com/mirrorhq/asanasync/shared"
	"github.com/mirrorhq/asanasync/sync"
)

const (
	secretHeader    = "X-Hook-Secret"
	signatureHeader = "X-Hook-Signature"
)

// WebhookController receives authenticated pushes from Asana on changes to
// projects, tasks, and stories.
type WebhookController struct {
	service           *sync.Service
	projectRepository shared.ProjectRepository
	webhookRepository shared.WebhookRepository
}

func NewWebhookController(service *sync.Service, projectRepository shared.ProjectRepository, webhookRepository shared.WebhookRepository) *WebhookController {
	return &WebhookController{
		service:           service,
		projectRepository: projectRepository,
		webhookRepository: webhookRepository,
	}
}

// Receive handles POST /webhooks/project/:remoteID/. A request carrying the
// secret header is the one-time handshake; everything else must present a
// valid payload signature.
func (c *WebhookController) Receive(ctx shared.Context) error {
	remoteID, err := strconv.ParseInt(ctx.Param("remoteID"), 10, 64)
	if err != nil {
		return ctx.NoContent(http.StatusNotFound)
	}
	prj, err := c.projectRepository.FindByRemoteID(remoteID)
	if err != nil {
		return ctx.NoContent(http.StatusNotFound)
	}

	if secret := ctx.Request().Header.Get(secretHeader); secret != "" {
		return c.handshake(ctx, remoteID, secret)
	}

	signature := ctx.Request().Header.Get(signatureHeader)
	if signature == "" {
		slog.Debug("webhook delivery without signature", "project", remoteID)
		monitoring.WebhookRejectedAmount.Inc()
		return ctx.NoContent(http.StatusForbidden)
	}
	if len(signature) != 64 {
		slog.Debug("webhook signature of bad length", "length", len(signature))
		monitoring.WebhookRejectedAmount.Inc()
		return ctx.NoContent(http.StatusForbidden)
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil || len(body) == 0 {
		slog.Debug("webhook delivery without payload", "project", remoteID)
		monitoring.WebhookRejectedAmount.Inc()
		return ctx.NoContent(http.StatusForbidden)
	}

	webhooks, err := c.webhookRepository.ListByProject(remoteID)
	if err != nil || len(webhooks) == 0 {
		slog.Debug("no webhook registered for project", "project", remoteID)
		monitoring.WebhookRejectedAmount.Inc()
		return ctx.NoContent(http.StatusForbidden)
	}
	// the newest secret wins if duplicates survived a crash
	webhook := webhooks[len(webhooks)-1]

	if !sync.ValidSignature(webhook.Secret, body, signature) {
		slog.Debug("webhook signature mismatch", "project", remoteID)
		monitoring.WebhookRejectedAmount.Inc()
		return ctx.NoContent(http.StatusForbidden)
	}

	var payload asana.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Debug("webhook payload is not json", "project", remoteID)
		monitoring.WebhookRejectedAmount.Inc()
		return ctx.NoContent(http.StatusForbidden)
	}
	if len(payload.Events) > 0 {
		if err := c.service.HandleEvents(ctx.Request().Context(), &prj, payload.Events); err != nil {
			slog.Error("could not process webhook events", "project", remoteID, "err", err)
			return ctx.NoContent(http.StatusInternalServerError)
		}
	}
	return ctx.NoContent(http.StatusOK)
}

// handshake validates and stores the secret Asana proposes, echoing it back
// to complete the subscription.
func (c *WebhookController) handshake(ctx shared.Context, remoteID int64, secret string) error {
	if len(secret) != 32 && len(secret) != 64 {
		slog.Debug("webhook secret of bad length", "length", len(secret))
		return ctx.NoContent(http.StatusForbidden)
	}
	webhooks, err := c.webhookRepository.ListByProject(remoteID)
	if err != nil {
		return ctx.NoContent(http.StatusInternalServerError)
	}
	if len(webhooks) == 0 {
		err = c.webhookRepository.Create(nil, &models.Webhook{
			ProjectRemoteID: remoteID,
			Secret:          secret,
		})
	} else if latest := webhooks[len(webhooks)-1]; latest.Secret != secret {
		latest.Secret = secret
		err = c.webhookRepository.Save(nil, &latest)
	}
	if err != nil {
		return ctx.NoContent(http.StatusInternalServerError)
	}
	slog.Debug("webhook secret accepted", "project", remoteID)
	ctx.Response().Header().Set(secretHeader, secret)
	return ctx.NoContent(http.StatusOK)
}
