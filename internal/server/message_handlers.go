package server

import (
	"pulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage delivers a direct message to another user.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	receiverID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.messageService.Send(c.UserContext(), currentUserID(c), receiverID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversation returns the messages with another user. A since_message_id
// query parameter switches to incremental polling: only newer messages are
// returned. Reading marks the other side's messages as read.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	sinceID := c.QueryInt("since_message_id", 0)
	if sinceID < 0 {
		sinceID = 0
	}

	messages, err := s.messageService.Conversation(c.UserContext(), currentUserID(c), otherID, uint(sinceID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}

// GetConversations lists every conversation with its last message and unread count.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	summaries, err := s.messageService.Conversations(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summaries)
}

// GetUnreadMessageCount returns the viewer's unread message total.
func (s *Server) GetUnreadMessageCount(c *fiber.Ctx) error {
	count, err := s.messageService.UnreadTotal(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"unread_count": count})
}
