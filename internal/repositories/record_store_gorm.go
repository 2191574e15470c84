package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecordStore is a GORM implementation of RecordStore. Each collection
// is one row of the records table.
type GORMRecordStore struct {
	db *gorm.DB
	// SQLite allows a single writer; serialize writes in process as well.
	mu   sync.Mutex
	feed changeFeed
}

// NewGORMRecordStore creates a new GORMRecordStore and migrates its table.
func NewGORMRecordStore(db *gorm.DB) (*GORMRecordStore, error) {
	if err := db.AutoMigrate(&models.Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &GORMRecordStore{db: db}, nil
}

// Get retrieves a collection from the database.
func (r *GORMRecordStore) Get(ctx context.Context, namespace string, collection Collection) (Snapshot, error) {
	var rec models.Record
	err := r.db.WithContext(ctx).First(&rec, "namespace = ? AND collection = ?", namespace, string(collection)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to get %s/%s: %w", namespace, collection, err)
	}
	return Snapshot{Data: []byte(rec.Data), Version: rec.Version}, nil
}

// Set overwrites a collection.
func (r *GORMRecordStore) Set(ctx context.Context, namespace string, collection Collection, data []byte) (int64, error) {
	return r.Update(ctx, namespace, collection, func([]byte) ([]byte, error) {
		return data, nil
	})
}

// Update runs fn inside a transaction holding the row.
func (r *GORMRecordStore) Update(ctx context.Context, namespace string, collection Collection, fn UpdateFunc) (int64, error) {
	r.mu.Lock()
	var version int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var rec models.Record
		var current []byte
		err := query.First(&rec, "namespace = ? AND collection = ?", namespace, string(collection)).Error
		switch {
		case err == nil:
			current = []byte(rec.Data)
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = models.Record{Namespace: namespace, Collection: string(collection)}
		default:
			return fmt.Errorf("failed to read %s/%s: %w", namespace, collection, err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		rec.Data = string(next)
		rec.Version++
		rec.UpdatedAt = time.Now()
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "collection"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "version", "updated_at"}),
		}).Create(&rec).Error
		if err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", namespace, collection, err)
		}
		version = rec.Version
		return nil
	})
	r.mu.Unlock()

	if err != nil {
		if errors.Is(err, ErrSkipWrite) {
			snap, getErr := r.Get(ctx, namespace, collection)
			return snap.Version, getErr
		}
		return 0, err
	}

	r.feed.publish(ChangeEvent{Namespace: namespace, Collection: collection, Version: version})
	return version, nil
}

// Delete removes a collection row.
func (r *GORMRecordStore) Delete(ctx context.Context, namespace string, collection Collection) error {
	r.mu.Lock()
	res := r.db.WithContext(ctx).Delete(&models.Record{}, "namespace = ? AND collection = ?", namespace, string(collection))
	r.mu.Unlock()

	if res.Error != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, collection, res.Error)
	}
	if res.RowsAffected > 0 {
		r.feed.publish(ChangeEvent{Namespace: namespace, Collection: collection, Deleted: true})
	}
	return nil
}

// Subscribe registers a change listener.
func (r *GORMRecordStore) Subscribe(listener ChangeListener) func() {
	return r.feed.subscribe(listener)
}
