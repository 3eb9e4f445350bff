// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package daemons

import (
	"context"
	"log/slog"
	"time"

	"github.com/mirrorhq/asanasync/sync"
)

const defaultSyncInterval = 15 * time.Minute

// SyncDaemon periodically runs a full reconciliation pass so projects whose
// webhooks were missed or never registered still converge.
type SyncDaemon struct {
	service  *sync.Service
	interval time.Duration
}

func NewSyncDaemon(service *sync.Service, interval time.Duration) *SyncDaemon {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &SyncDaemon{
		service:  service,
		interval: interval,
	}
}

// Start blocks, running one pass immediately and then one per interval until
// the context is canceled. Failed passes are logged and retried next tick.
func (d *SyncDaemon) Start(ctx context.Context) {
	slog.Info("starting sync daemon", "interval", d.interval)
	d.runOnce(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("sync daemon stopped")
			return
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

func (d *SyncDaemon) runOnce(ctx context.Context) {
	start := time.Now()
	if err := d.service.SyncAll(ctx, sync.Options{}); err != nil {
		slog.Error("full sync failed", "err", err)
		return
	}
	slog.Info("full sync finished", "duration", time.Since(start))
}
