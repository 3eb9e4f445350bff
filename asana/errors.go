// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package asana

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when the remote resource does not exist (anymore).
type NotFoundError struct {
	Resource string
	GID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asana: %s %s not found", e.Resource, e.GID)
}

// ForbiddenError is returned when the resource is no longer visible to the
// authenticated token. For tasks this is treated as an authoritative delete
// signal by the sync engine.
type ForbiddenError struct {
	Resource string
	GID      string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("asana: %s %s forbidden", e.Resource, e.GID)
}

// InvalidTokenError is raised by the events endpoint when the supplied sync
// token is stale or missing. Asana always attaches a replacement token.
type InvalidTokenError struct {
	// Sync is the replacement token to use on the next cycle.
	Sync string
}

func (e *InvalidTokenError) Error() string {
	return "asana: sync token invalid or expired"
}

// InvalidRequestError is returned for requests Asana rejects as malformed,
// e.g. a webhook target URL it cannot reach.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("asana: invalid request: %s", e.Message)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsForbidden(err error) bool {
	var fb *ForbiddenError
	return errors.As(err, &fb)
}

// IsGone reports whether the error means the resource is no longer
// visible to us, either because it was deleted or access was revoked.
func IsGone(err error) bool {
	return IsNotFound(err) || IsForbidden(err)
}
