// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var FullSyncAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "asanasync_full_sync_amount",
	Help: "The total number of full sync runs",
})

var FullSyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "asanasync_full_sync_duration_minutes",
	Help:    "Duration of full sync runs in minutes",
	Buckets: prometheus.DefBuckets,
})

var SyncedResourcesAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asanasync_synced_resources_amount",
	Help: "The total number of resources written by the sync engine",
}, []string{"resource"})

var SyncErrorsAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asanasync_sync_errors_amount",
	Help: "The total number of per-resource sync failures",
}, []string{"resource"})

var PrunedTasksAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "asanasync_pruned_tasks_amount",
	Help: "The total number of local tasks deleted because the remote no longer has them",
})

var EventsProcessedAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asanasync_events_processed_amount",
	Help: "The total number of change events processed, from polling or webhooks",
}, []string{"action"})

var WebhookRejectedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "asanasync_webhook_rejected_amount",
	Help: "The total number of webhook deliveries rejected for a bad signature",
})
