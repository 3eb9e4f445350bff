// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const asanaBaseURL = "https://app.asana.com/0/"

// RemoteObject identifies a mirrored row by its immutable Asana id. The
// numeric remote_id is the sole stable external key; the local uuid primary
// key is never exposed and never assumed equal to it. gid mirrors remote_id
// in string form and is filled in on save when empty.
type RemoteObject struct {
	ID       uuid.UUID `json:"-" gorm:"primarykey;type:uuid;default:gen_random_uuid()"`
	RemoteID int64     `json:"-" gorm:"uniqueIndex;not null"`
	GID      string    `json:"-" gorm:"uniqueIndex;type:varchar(31)"`
}

func (r *RemoteObject) BeforeSave(tx *gorm.DB) error {
	if r.GID == "" {
		r.GID = strconv.FormatInt(r.RemoteID, 10)
	}
	return nil
}

func (r *RemoteObject) RemoteIdentity() int64 {
	return r.RemoteID
}

func (r *RemoteObject) Identity() RemoteObject {
	return *r
}

// AdoptIdentity takes over the local identity of an already persisted row so
// a full-field save replaces it instead of inserting a duplicate.
func (r *RemoteObject) AdoptIdentity(existing RemoteObject) {
	r.ID = existing.ID
}

// AsanaURL returns the permalink of this object at Asana.
func (r *RemoteObject) AsanaURL() string {
	return fmt.Sprintf("%s%d", asanaBaseURL, r.RemoteID)
}

// Named is embedded by every model that carries a display name.
type Named struct {
	Name string `json:"name" gorm:"type:varchar(1024)"`
}

// Hearted records like/heart engagement counts where Asana exposes them.
type Hearted struct {
	Hearted   bool `json:"hearted"`
	NumHearts int  `json:"num_hearts"`
}

var Colors = []string{
	"dark-pink", "dark-green", "dark-blue", "dark-red", "dark-teal", "dark-brown",
	"dark-orange", "dark-purple", "dark-warm-gray", "light-pink", "light-green",
	"light-blue", "light-red", "light-teal", "light-yellow", "light-orange",
	"light-purple", "light-warm-gray",
}

var (
	colorMu   sync.Mutex
	colorNext int
)

// NextColor rotates through the Asana color palette. For assigning to newly
// created projects.
func NextColor() string {
	colorMu.Lock()
	defer colorMu.Unlock()
	color := Colors[colorNext%len(Colors)]
	colorNext++
	return color
}
