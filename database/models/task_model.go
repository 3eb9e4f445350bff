// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Task is something that needs doing. Tasks form a tree through parent and a
// directed graph through dependencies; both edges reference remote ids.
type Task struct {
	RemoteObject
	Named
	Hearted
	AssigneeStatus  string         `json:"assignee_status" gorm:"type:varchar(16)"`
	Completed       bool           `json:"completed"`
	CompletedAt     *time.Time     `json:"completed_at"`
	CreatedAt       time.Time      `json:"-" gorm:"autoCreateTime"`
	CustomFields    datatypes.JSON `json:"custom_fields"`
	DueAt           *time.Time     `json:"due_at"`
	DueOn           *Date          `json:"due_on"`
	StartOn         *Date          `json:"start_on"`
	HTMLNotes       string         `json:"html_notes"`
	Notes           string         `json:"notes"`
	ModifiedAt      *time.Time     `json:"modified_at"`
	ResourceSubtype string         `json:"resource_subtype" gorm:"type:varchar(24);default:default_task"`
	ResourceType    string         `json:"resource_type" gorm:"type:varchar(24);default:task"`

	AssigneeRemoteID *int64 `json:"-"`
	Assignee         *User  `json:"-" gorm:"foreignKey:AssigneeRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`

	ParentRemoteID *int64 `json:"-"`
	Parent         *Task  `json:"-" gorm:"foreignKey:ParentRemoteID;references:RemoteID;constraint:OnDelete:SET NULL"`

	// Dependencies is asymmetric; the reverse direction is "dependents".
	Dependencies []*Task   `json:"-" gorm:"many2many:task_dependencies;foreignKey:RemoteID;joinForeignKey:TaskRemoteID;references:RemoteID;joinReferences:DependencyRemoteID"`
	Followers    []User    `json:"-" gorm:"many2many:task_followers;foreignKey:RemoteID;joinForeignKey:TaskRemoteID;references:RemoteID;joinReferences:UserRemoteID"`
	Projects     []Project `json:"-" gorm:"many2many:task_projects;foreignKey:RemoteID;joinForeignKey:TaskRemoteID;references:RemoteID;joinReferences:ProjectRemoteID"`
	Tags         []Tag     `json:"-" gorm:"many2many:task_tags;foreignKey:RemoteID;joinForeignKey:TaskRemoteID;references:RemoteID;joinReferences:TagRemoteID"`
}

func (Task) TableName() string {
	return "tasks"
}

// Due returns the most precise due timestamp available.
func (t *Task) Due() *time.Time {
	if t.DueAt != nil {
		return t.DueAt
	}
	if t.DueOn != nil {
		due := t.DueOn.Time()
		return &due
	}
	return nil
}

type customFieldValue struct {
	Name            string  `json:"name"`
	ResourceSubtype string  `json:"resource_subtype"`
	Precision       int     `json:"precision"`
	TextValue       *string `json:"text_value"`
	NumberValue     *string `json:"number_value"`
	EnumValue       *struct {
		Name string `json:"name"`
	} `json:"enum_value"`
}

// CustomFieldValues decodes the opaque custom field blob into a map of field
// name to typed value (enum option name, json.Number, or text).
func (t *Task) CustomFieldValues() (map[string]any, error) {
	if len(t.CustomFields) == 0 {
		return nil, nil
	}
	var fields []customFieldValue
	if err := json.Unmarshal(t.CustomFields, &fields); err != nil {
		return nil, err
	}
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		switch field.ResourceSubtype {
		case "enum":
			if field.EnumValue != nil {
				values[field.Name] = field.EnumValue.Name
			}
		case "number":
			if field.NumberValue != nil {
				values[field.Name] = json.Number(*field.NumberValue)
			}
		default:
			if field.TextValue != nil {
				values[field.Name] = *field.TextValue
			}
		}
	}
	return values, nil
}
