package models

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestErrorConstructors(t *testing.T) {
	notFound := NewNotFoundError("Post not found")
	assert.Equal(t, "NOT_FOUND", notFound.Code)
	assert.Equal(t, "Post not found", notFound.Message)
	assert.Equal(t, "Post not found", notFound.Error())

	cause := errors.New("bcrypt: cost out of range")
	internal := NewInternalError("Failed to hash password", cause)
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
	assert.Equal(t, "Failed to hash password: bcrypt: cost out of range", internal.Error())
	assert.ErrorIs(t, internal, cause)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NewNotFoundError("Post not found"), fiber.StatusNotFound},
		{"validation", NewValidationError("Content is required"), fiber.StatusBadRequest},
		{"forbidden", NewForbiddenError("Not yours"), fiber.StatusForbidden},
		{"unauthorized", NewUnauthorizedError("Invalid credentials"), fiber.StatusUnauthorized},
		{"conflict", NewConflictError("Username already taken"), fiber.StatusConflict},
		{"internal", NewInternalError("Failed to sign token", errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("driver: bad connection"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusForError(tt.err))
		})
	}
}
