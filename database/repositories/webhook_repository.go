// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"github.com/google/uuid"

	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type webhookRepository struct {
	db shared.DB
	shared.Repository[uuid.UUID, models.Webhook]
}

func NewWebhookRepository(db shared.DB) *webhookRepository {
	return &webhookRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Webhook](db),
	}
}

func (r *webhookRepository) Create(tx shared.DB, webhook *models.Webhook) error {
	return r.GetDB(tx).Create(webhook).Error
}

func (r *webhookRepository) Save(tx shared.DB, webhook *models.Webhook) error {
	return r.GetDB(tx).Save(webhook).Error
}

func (r *webhookRepository) Delete(tx shared.DB, webhook *models.Webhook) error {
	return r.GetDB(tx).Delete(webhook).Error
}

func (r *webhookRepository) ListByProject(projectRemoteID int64) ([]models.Webhook, error) {
	var webhooks []models.Webhook
	err := r.db.Where("project_remote_id = ?", projectRemoteID).Order("created_at asc").Find(&webhooks).Error
	return webhooks, err
}
