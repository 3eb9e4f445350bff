// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type customFieldRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.CustomField]
}

func NewCustomFieldRepository(db shared.DB) *customFieldRepository {
	return &customFieldRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.CustomField](db),
	}
}

func (r *customFieldRepository) Upsert(tx shared.DB, field *models.CustomField) error {
	return upsertByRemoteID(r.GetDB(tx), field)
}

func (r *customFieldRepository) GetOrCreateStub(tx shared.DB, remoteID int64, name string) (models.CustomField, error) {
	stub := models.CustomField{
		RemoteObject: models.RemoteObject{RemoteID: remoteID},
		Named:        models.Named{Name: name},
	}
	return getOrCreateByRemoteID(r.GetDB(tx), &stub)
}

type customFieldSettingRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.CustomFieldSetting]
}

func NewCustomFieldSettingRepository(db shared.DB) *customFieldSettingRepository {
	return &customFieldSettingRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.CustomFieldSetting](db),
	}
}

func (r *customFieldSettingRepository) Upsert(tx shared.DB, setting *models.CustomFieldSetting) error {
	return upsertByRemoteID(r.GetDB(tx), setting)
}
