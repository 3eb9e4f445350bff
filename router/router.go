// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mirrorhq/asanasync/controllers"
)

// Register wires the public routes: the webhook receiver plus health and
// metrics.
func Register(e *echo.Echo, webhookController *controllers.WebhookController) {
	e.GET("/health/", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "ok")
	})
	e.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))

	e.POST("/webhooks/project/:remoteID/", webhookController.Receive)
}
