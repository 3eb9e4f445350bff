// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mirrorhq/asanasync/database"
	"github.com/mirrorhq/asanasync/database/models"
	"github.com/mirrorhq/asanasync/shared"
)

type gormRepository[ID comparable, T shared.Tabler] struct {
	db shared.DB
}

func newGormRepository[ID comparable, T shared.Tabler](db shared.DB) *gormRepository[ID, T] {
	return &gormRepository[ID, T]{
		db: db,
	}
}

func (g *gormRepository[ID, T]) GetDB(tx shared.DB) shared.DB {
	if tx != nil {
		return tx
	}

	return g.db
}

func (g *gormRepository[ID, T]) Transaction(fn func(tx shared.DB) error) error {
	tx := g.db.Begin()
	err := fn(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (g *gormRepository[ID, T]) Save(tx shared.DB, t *T) error {
	return g.GetDB(tx).Save(t).Error
}

func (g *gormRepository[ID, T]) SaveBatch(tx shared.DB, ts []T) error {
	return g.GetDB(tx).Save(ts).Error
}

func (g *gormRepository[ID, T]) Create(tx shared.DB, t *T) error {
	return g.GetDB(tx).Create(t).Error
}

func (g *gormRepository[ID, T]) CreateBatch(tx shared.DB, ts []T) error {
	return g.GetDB(tx).Create(ts).Error
}

func (g *gormRepository[ID, T]) Read(id ID) (T, error) {
	var t T
	err := g.db.First(&t, "id = ?", id).Error

	return t, err
}

func (g *gormRepository[ID, T]) Update(tx shared.DB, t *T) error {
	return g.GetDB(tx).Save(t).Error
}

func (g *gormRepository[ID, T]) Delete(tx shared.DB, id ID) error {
	var t T
	return g.GetDB(tx).Delete(&t, "id = ?", id).Error
}

func (g *gormRepository[ID, T]) List(ids []ID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var ts []T

	err := g.db.Find(&ts, "id IN ?", ids).Error
	if err != nil {
		return ts, err
	}
	return ts, nil
}

func (g *gormRepository[ID, T]) All() ([]T, error) {
	var ts []T
	err := g.db.Find(&ts).Error
	return ts, err
}

// remoteRecord is satisfied by pointers to every model embedding RemoteObject.
type remoteRecord interface {
	RemoteIdentity() int64
	Identity() models.RemoteObject
	AdoptIdentity(existing models.RemoteObject)
}

// upsertByRemoteID writes t keyed by its immutable remote id. If a row with
// the same remote id already exists, t takes over its local identity and a
// full-field save replaces it. Associations are never written here; they are
// replaced explicitly after the row is persisted.
func upsertByRemoteID[T any, PT interface {
	*T
	remoteRecord
}](db shared.DB, t PT) error {
	var existing T
	err := db.Where("remote_id = ?", t.RemoteIdentity()).First(&existing).Error
	switch {
	case err == nil:
		t.AdoptIdentity(PT(&existing).Identity())
		return db.Omit(clause.Associations).Save(t).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		createErr := db.Omit(clause.Associations).Create(t).Error
		if database.IsDuplicateKeyError(createErr) {
			// lost a race against a concurrent insert, retry as update
			if err := db.Where("remote_id = ?", t.RemoteIdentity()).First(&existing).Error; err != nil {
				return err
			}
			t.AdoptIdentity(PT(&existing).Identity())
			return db.Omit(clause.Associations).Save(t).Error
		}
		return createErr
	default:
		return err
	}
}

// getOrCreateByRemoteID returns the row matching stub's remote id, inserting
// the stub when no such row exists yet. Used to materialize referenced objects
// before their own sync pass has run.
func getOrCreateByRemoteID[T any, PT interface {
	*T
	remoteRecord
}](db shared.DB, stub PT) (T, error) {
	var existing T
	err := db.Where("remote_id = ?", stub.RemoteIdentity()).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return existing, err
	}

	createErr := db.Omit(clause.Associations).Create(stub).Error
	if database.IsDuplicateKeyError(createErr) {
		err = db.Where("remote_id = ?", stub.RemoteIdentity()).First(&existing).Error
		return existing, err
	}
	if createErr != nil {
		return existing, createErr
	}
	return *stub, nil
}

func findByRemoteID[T any](db shared.DB, remoteID int64) (T, error) {
	var t T
	err := db.Where("remote_id = ?", remoteID).First(&t).Error
	return t, err
}
