// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

// User is an Asana user. Rows are frequently created as shadow stubs
// (remote_id + name only) while resolving foreign references; the full
// record is filled in when the user synchronizer reaches them.
type User struct {
	RemoteObject
	Named
	Email        *string     `json:"email" gorm:"type:varchar(254)"`
	Photo        *string     `json:"photo" gorm:"type:varchar(255)"`
	ResourceType string      `json:"resource_type" gorm:"type:varchar(24);default:user"`
	Workspaces   []Workspace `json:"-" gorm:"many2many:user_workspaces;foreignKey:RemoteID;joinForeignKey:UserRemoteID;references:RemoteID;joinReferences:WorkspaceRemoteID"`
}

func (User) TableName() string {
	return "users"
}
