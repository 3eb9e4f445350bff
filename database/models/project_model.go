// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"fmt"
	"time"
)

// Project is an Asana project in a workspace holding a collection of tasks.
type Project struct {
	RemoteObject
	Named
	Archived     bool       `json:"archived"`
	Color        string     `json:"color" gorm:"type:varchar(16)"`
	CreatedAt    time.Time  `json:"-" gorm:"autoCreateTime"`
	DueDate      *Date      `json:"due_date"`
	StartOn      *Date      `json:"start_on"`
	HTMLNotes    string     `json:"html_notes"`
	Notes        string     `json:"notes"`
	Layout       string     `json:"layout" gorm:"type:varchar(16)"`
	ModifiedAt   *time.Time `json:"modified_at"`
	Public       bool       `json:"public"`
	ResourceType string     `json:"resource_type" gorm:"type:varchar(24);default:project"`

	OwnerRemoteID *int64 `json:"-"`
	Owner         *User  `json:"-" gorm:"foreignKey:OwnerRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`

	TeamRemoteID *int64 `json:"-"`
	Team         *Team  `json:"-" gorm:"foreignKey:TeamRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`

	WorkspaceRemoteID int64      `json:"-" gorm:"not null"`
	Workspace         *Workspace `json:"-" gorm:"foreignKey:WorkspaceRemoteID;references:RemoteID;constraint:OnDelete:CASCADE"`

	// CurrentStatusRemoteID references the latest ProjectStatus, if any.
	CurrentStatusRemoteID *int64         `json:"-"`
	CurrentStatus         *ProjectStatus `json:"-" gorm:"foreignKey:CurrentStatusRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`

	Members   []User `json:"-" gorm:"many2many:project_members;foreignKey:RemoteID;joinForeignKey:ProjectRemoteID;references:RemoteID;joinReferences:UserRemoteID"`
	Followers []User `json:"-" gorm:"many2many:project_followers;foreignKey:RemoteID;joinForeignKey:ProjectRemoteID;references:RemoteID;joinReferences:UserRemoteID"`
}

func (Project) TableName() string {
	return "projects"
}

// AsanaURL returns the list view permalink of this project at Asana.
func (p *Project) AsanaURL() string {
	return fmt.Sprintf("%s%d/list", asanaBaseURL, p.RemoteID)
}

// ProjectStatus is a point-in-time update on the progress of a project.
type ProjectStatus struct {
	RemoteObject
	Color        string     `json:"color" gorm:"type:varchar(16)"`
	CreatedAt    *time.Time `json:"created_at"`
	HTMLText     string     `json:"html_text"`
	Text         string     `json:"text"`
	Title        string     `json:"title" gorm:"type:varchar(1024)"`
	ResourceType string     `json:"resource_type" gorm:"type:varchar(24);default:project_status"`

	CreatedByRemoteID *int64 `json:"-"`
	CreatedBy         *User  `json:"-" gorm:"foreignKey:CreatedByRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`

	ProjectRemoteID *int64   `json:"-"`
	Project         *Project `json:"-" gorm:"foreignKey:ProjectRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`
}

func (ProjectStatus) TableName() string {
	return "project_statuses"
}
