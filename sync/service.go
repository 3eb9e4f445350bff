// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sync reconciles the remote Asana resource graph against the local
// database, either by full polling traversal or by replaying change events.
package sync

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/mirrorhq/asanasync/asana"
	"github.com/mirrorhq/asanasync/monitoring"
	"github.com/mirrorhq/asanasync/shared"
)

type Service struct {
	remote shared.RemoteAPI
	repos  shared.Repositories
	// webhookURL is the externally reachable base url Asana pushes to. Empty
	// disables webhook registration.
	webhookURL       string
	defaultWorkspace string
}

func NewService(remote shared.RemoteAPI, repos shared.Repositories, config *shared.Config) *Service {
	return &Service{
		remote:           remote,
		repos:            repos,
		webhookURL:       config.WebhookURL,
		defaultWorkspace: config.Workspace,
	}
}

// Options select what a run touches. The zero value syncs everything,
// committing writes.
type Options struct {
	// Workspaces and Projects hold names or gids. Empty means all.
	Workspaces []string
	Projects   []string
	Filter     ModelFilter
	// ProcessArchived expands tasks of archived projects too. The project row
	// itself is always updated regardless.
	ProcessArchived bool
	// DryRun traverses without writing anything.
	DryRun bool
}

// run is the state of one sync invocation. The visited set is what bounds
// recursion on cyclic task graphs and keeps every remote id to one fetch.
type run struct {
	*Service
	opts    Options
	visited map[int64]struct{}
	// synced lists every task remote id persisted so far, in order. Stale-row
	// pruning diffs a project's local tasks against it.
	synced []int64
}

func (s *Service) newRun(opts Options) *run {
	return &run{
		Service: s,
		opts:    opts,
		visited: map[int64]struct{}{},
	}
}

func (r *run) commit() bool {
	return !r.opts.DryRun
}

func (r *run) seen(remoteID int64) bool {
	_, ok := r.visited[remoteID]
	return ok
}

func (r *run) mark(remoteID int64) {
	r.visited[remoteID] = struct{}{}
	r.synced = append(r.synced, remoteID)
}

// SyncAll performs one full reconciliation pass over the selected workspaces.
// Bad workspace or project selectors abort before any write; per-entity
// failures inside the traversal are logged and skipped.
func (s *Service) SyncAll(ctx context.Context, opts Options) error {
	monitoring.FullSyncAmount.Inc()
	start := time.Now()
	defer func() {
		monitoring.FullSyncDuration.Observe(time.Since(start).Minutes())
	}()

	names := append([]string{}, opts.Workspaces...)
	if s.defaultWorkspace != "" {
		names = append(names, s.defaultWorkspace)
	}
	workspaceGIDs, err := s.resolveWorkspaceGIDs(ctx, names)
	if err != nil {
		return err
	}

	slog.Info("synchronizing data from Asana", "workspaces", len(workspaceGIDs), "dryRun", opts.DryRun)
	r := s.newRun(opts)
	for _, workspaceGID := range workspaceGIDs {
		if err := r.syncWorkspace(ctx, workspaceGID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) resolveWorkspaceGIDs(ctx context.Context, names []string) ([]string, error) {
	all, err := s.remote.Workspaces.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list workspaces")
	}
	return matchSelectors(all, names, "workspace")
}

func (r *run) resolveProjectGIDs(ctx context.Context, workspaceGID string) ([]string, error) {
	all, err := r.remote.Projects.FindAll(ctx, workspaceGID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list projects of workspace %s", workspaceGID)
	}
	return matchSelectors(all, r.opts.Projects, "project")
}

// matchSelectors maps user-supplied names or gids onto the remote listing.
// Newer ids sort first so the freshest data gets synced earliest.
func matchSelectors(all []asana.Resource, wanted []string, noun string) ([]string, error) {
	var gids []string
	if len(wanted) == 0 {
		for _, resource := range all {
			gids = append(gids, asana.GID(resource))
		}
	} else {
		var bad []string
		for _, name := range wanted {
			found := false
			for _, resource := range all {
				if name == asana.GID(resource) || name == asana.Name(resource) {
					gids = append(gids, asana.GID(resource))
					found = true
					break
				}
			}
			if !found {
				bad = append(bad, name)
			}
		}
		if err := badNamesError(bad, noun); err != nil {
			return nil, err
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(gids)))
	return gids, nil
}
