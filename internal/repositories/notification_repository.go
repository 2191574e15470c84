package repositories

import (
	"context"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for the activity feed.
type NotificationRepository interface {
	// GetAll returns notifications newest first.
	GetAll(ctx context.Context) ([]models.Notification, error)
	// Push prepends a notification, filling ID and Timestamp when empty.
	Push(ctx context.Context, n *models.Notification) error
	// MarkAllRead flags every notification as read and reports how many changed.
	MarkAllRead(ctx context.Context) (int, error)
	SeedIfAbsent(ctx context.Context, notifications []models.Notification) (bool, error)
}

// RecordNotificationRepository is a RecordStore implementation of NotificationRepository.
type RecordNotificationRepository struct {
	store     RecordStore
	namespace string
}

// NewRecordNotificationRepository creates a new instance of RecordNotificationRepository.
func NewRecordNotificationRepository(store RecordStore, namespace string) *RecordNotificationRepository {
	return &RecordNotificationRepository{store: store, namespace: namespace}
}

// GetAll returns the feed.
func (r *RecordNotificationRepository) GetAll(ctx context.Context) ([]models.Notification, error) {
	return loadList[models.Notification](ctx, r.store, r.namespace, CollectionNotifications)
}

// Push adds a notification at the front of the feed.
func (r *RecordNotificationRepository) Push(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	return updateList(ctx, r.store, r.namespace, CollectionNotifications, func(feed []models.Notification) ([]models.Notification, error) {
		return append([]models.Notification{*n}, feed...), nil
	})
}

// MarkAllRead marks the whole feed as read.
func (r *RecordNotificationRepository) MarkAllRead(ctx context.Context) (int, error) {
	changed := 0
	err := updateList(ctx, r.store, r.namespace, CollectionNotifications, func(feed []models.Notification) ([]models.Notification, error) {
		for i := range feed {
			if !feed[i].IsRead {
				feed[i].IsRead = true
				changed++
			}
		}
		if changed == 0 {
			return nil, ErrSkipWrite
		}
		return feed, nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// SeedIfAbsent seeds the feed.
func (r *RecordNotificationRepository) SeedIfAbsent(ctx context.Context, notifications []models.Notification) (bool, error) {
	return seedList(ctx, r.store, r.namespace, CollectionNotifications, notifications)
}
