package services

import (
	"context"
	"time"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// NotificationService manages the admin activity feed.
type NotificationService struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
		now:  time.Now,
	}
}

// Notify prepends an entry to the feed. The feed is a side channel, so a
// failed write is logged and otherwise ignored.
func (s *NotificationService) Notify(ctx context.Context, message, icon, kind string) {
	n := &models.Notification{
		Message:   message,
		Icon:      icon,
		Timestamp: s.now(),
		Type:      kind,
	}
	if err := s.repo.Push(ctx, n); err != nil {
		logger.Logger.Warn("failed to record notification", zap.String("message", message), zap.Error(err))
	}
}

// List returns the feed, newest first.
func (s *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	return s.repo.GetAll(ctx)
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	feed, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, n := range feed {
		if !n.IsRead {
			unread++
		}
	}
	return unread, nil
}

// MarkAllRead marks every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	return s.repo.MarkAllRead(ctx)
}

// SeedWelcome adds the welcome notification when the feed was never written.
func (s *NotificationService) SeedWelcome(ctx context.Context) error {
	_, err := s.repo.SeedIfAbsent(ctx, []models.Notification{{
		ID:        "1",
		Message:   "Welcome to our store!",
		Icon:      "fa-bell",
		Timestamp: s.now(),
		Type:      models.NotificationTypeSystem,
	}})
	return err
}
