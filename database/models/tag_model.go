// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

// Tag is a label within a workspace that can be attached to tasks.
type Tag struct {
	RemoteObject
	Named
	Color             string     `json:"color" gorm:"type:varchar(16)"`
	Notes             string     `json:"notes"`
	ResourceType      string     `json:"resource_type" gorm:"type:varchar(24);default:tag"`
	WorkspaceRemoteID *int64     `json:"-"`
	Workspace         *Workspace `json:"-" gorm:"foreignKey:WorkspaceRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`
	Followers         []User     `json:"-" gorm:"many2many:tag_followers;foreignKey:RemoteID;joinForeignKey:TagRemoteID;references:RemoteID;joinReferences:UserRemoteID"`
}

func (Tag) TableName() string {
	return "tags"
}
