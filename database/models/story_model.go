// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import "time"

// MaxStoryTextLength is the hard cap on persisted story text. Longer remote
// text is truncated before storage, not rejected.
const MaxStoryTextLength = 1024

// Story is the immutable log of a change to an Asana object. Target is a
// bare remote id rather than a typed relation: stories can point at tasks,
// projects or other kinds, and Asana never tells us which. Resolving a
// target back to an entity therefore requires guessing the kind; this is a
// known limitation inherited from the upstream data model.
type Story struct {
	RemoteObject
	Named
	Hearted
	CreatedAt       *time.Time `json:"created_at"`
	HTMLText        string     `json:"html_text" gorm:"type:varchar(1024)"`
	IsEdited        bool       `json:"is_edited"`
	IsPinned        bool       `json:"is_pinned"`
	ResourceSubtype string     `json:"resource_subtype" gorm:"type:varchar(48)"`
	ResourceType    string     `json:"resource_type" gorm:"type:varchar(24);default:story"`
	Source          string     `json:"source" gorm:"type:varchar(16)"`
	Target          int64      `json:"-" gorm:"index"`
	Text            string     `json:"text" gorm:"type:varchar(1024)"`

	CreatedByRemoteID *int64 `json:"-"`
	CreatedBy         *User  `json:"-" gorm:"foreignKey:CreatedByRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`
}

func (Story) TableName() string {
	return "stories"
}

// Attachment is a remote file owned by exactly one task. Rows are dropped
// together with their parent task.
type Attachment struct {
	RemoteObject
	Named
	CreatedAt    *time.Time `json:"created_at"`
	DownloadURL  string     `json:"download_url" gorm:"type:varchar(1024)"`
	Host         string     `json:"host" gorm:"type:varchar(24)"`
	PermanentURL string     `json:"permanent_url" gorm:"type:varchar(1024)"`
	ViewURL      string     `json:"view_url" gorm:"type:varchar(1024)"`
	Type         string     `json:"type" gorm:"type:varchar(24)"`
	ResourceType string     `json:"resource_type" gorm:"type:varchar(24);default:attachment"`

	ParentRemoteID int64 `json:"-" gorm:"not null"`
	Parent         *Task `json:"-" gorm:"foreignKey:ParentRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// AsanaURL returns the permanent url Asana serves the file under.
func (a *Attachment) AsanaURL() string {
	return a.PermanentURL
}
