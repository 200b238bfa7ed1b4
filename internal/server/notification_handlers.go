package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the newest 50 notifications plus the unread count.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page, err := s.notificationService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetUnreadNotificationCount returns the unread notification count.
func (s *Server) GetUnreadNotificationCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"unread_count": count})
}

// MarkAllNotificationsRead marks the inbox read and reports how many
// notifications were unread beforehand.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	marked, err := s.notificationService.MarkAllRead(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"marked": marked})
}
