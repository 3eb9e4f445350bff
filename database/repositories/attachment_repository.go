// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type attachmentRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Attachment]
}

func NewAttachmentRepository(db shared.DB) *attachmentRepository {
	return &attachmentRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Attachment](db),
	}
}

func (r *attachmentRepository) Upsert(tx shared.DB, attachment *models.Attachment) error {
	return upsertByRemoteID(r.GetDB(tx), attachment)
}
