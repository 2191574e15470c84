package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler serves the admin activity feed.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/notifications", h.HandleList)
	router.Post("/notifications/read", h.HandleMarkAllRead)
}

// HandleList returns the feed, newest first, with the unread count.
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	feed, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve notifications")
	}
	unread := 0
	for _, n := range feed {
		if !n.IsRead {
			unread++
		}
	}
	return c.JSON(fiber.Map{
		"notifications": feed,
		"unread":        unread,
	})
}

// HandleMarkAllRead marks every notification as read.
func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	marked, err := h.service.MarkAllRead(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not update notifications")
	}
	return c.JSON(fiber.Map{
		"marked": marked,
	})
}
