// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import "time"

// CustomField is the metadata for attaching custom data to tasks.
type CustomField struct {
	RemoteObject
	Named
	Description     string `json:"description" gorm:"type:varchar(1024)"`
	EnumOptions     string `json:"-" gorm:"type:varchar(1024)"`
	Precision       *int16 `json:"precision"`
	ResourceSubtype string `json:"resource_subtype" gorm:"type:varchar(24)"`
	ResourceType    string `json:"resource_type" gorm:"type:varchar(24);default:custom_field"`
	// Type is deprecated upstream; resource_subtype supersedes it.
	Type string `json:"type" gorm:"type:varchar(24)"`
}

func (CustomField) TableName() string {
	return "custom_fields"
}

// CustomFieldSetting attaches a custom field to a project within a workspace.
type CustomFieldSetting struct {
	RemoteObject
	CreatedAt    time.Time `json:"-" gorm:"autoCreateTime"`
	IsImportant  bool      `json:"is_important"`
	ResourceType string    `json:"resource_type" gorm:"type:varchar(24);default:custom_field_setting"`

	CustomFieldRemoteID int64        `json:"-" gorm:"not null"`
	CustomField         *CustomField `json:"-" gorm:"foreignKey:CustomFieldRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`

	ProjectRemoteID int64    `json:"-" gorm:"not null"`
	Project         *Project `json:"-" gorm:"foreignKey:ProjectRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`

	WorkspaceRemoteID int64      `json:"-" gorm:"not null"`
	Workspace         *Workspace `json:"-" gorm:"foreignKey:WorkspaceRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`
}

func (CustomFieldSetting) TableName() string {
	return "custom_field_settings"
}
