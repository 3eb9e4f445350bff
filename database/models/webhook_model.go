// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"time"

	"github.com/google/uuid"
)

// Webhook stores the secret negotiated with Asana for pushing changes to a
// project. After a reconciliation pass at most one row per project remains.
type Webhook struct {
	ID        uuid.UUID `json:"id" gorm:"primarykey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"createdAt"`
	// Secret is 32 or 64 ASCII characters, chosen by Asana during the
	// handshake.
	Secret string `json:"-" gorm:"type:varchar(64);not null"`

	ProjectRemoteID int64    `json:"projectRemoteId" gorm:"not null;index"`
	Project         *Project `json:"-" gorm:"foreignKey:ProjectRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`
}

func (Webhook) TableName() string {
	return "webhooks"
}

// SyncToken is the most recent event cursor received from Asana for a
// project. The token is opaque; it is stored and round-tripped verbatim.
type SyncToken struct {
	ID        uuid.UUID `json:"id" gorm:"primarykey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Sync      string    `json:"sync" gorm:"type:varchar(36);not null"`

	ProjectRemoteID int64    `json:"projectRemoteId" gorm:"not null;uniqueIndex"`
	Project         *Project `json:"-" gorm:"foreignKey:ProjectRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`
}

func (SyncToken) TableName() string {
	return "sync_tokens"
}
