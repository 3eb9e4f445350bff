// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

// Workspace is the root of a project/user/tag/team namespace.
type Workspace struct {
	RemoteObject
	Named
	IsOrganization bool   `json:"is_organization"`
	ResourceType   string `json:"resource_type" gorm:"type:varchar(24);default:workspace"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

// Team owns projects inside an organization workspace.
type Team struct {
	RemoteObject
	Named
	OrganizationID   *int64 `json:"-"`
	OrganizationName string `json:"-" gorm:"type:varchar(50)"`
	Description      string `json:"description" gorm:"type:varchar(1024)"`
	HTMLDescription  string `json:"html_description" gorm:"type:varchar(1024)"`
	ResourceType     string `json:"resource_type" gorm:"type:varchar(24);default:team"`
}

func (Team) TableName() string {
	return "teams"
}
