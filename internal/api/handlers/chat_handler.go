package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/responder"
	"github.com/scheme-assist/backend/pkg/logger"
)

type ChatHandler struct {
	registry *responder.Registry
}

func NewChatHandler(registry *responder.Registry) *ChatHandler {
	return &ChatHandler{
		registry: registry,
	}
}

// Send posts one user message and waits for the bot reply. A new session is
// started when session_id is empty.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	conv := h.registry.Get(req.SessionID)

	reply, err := conv.Send(c.UserContext(), req.Message)
	switch {
	case errors.Is(err, responder.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	case errors.Is(err, responder.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      "A reply is still being prepared",
			"session_id": req.SessionID,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{
			"error": "Request cancelled",
		})
	case err != nil:
		logger.Error("Failed to answer chat message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to answer message",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": req.SessionID,
		"reply":      reply,
	})
}

func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	id := c.Params("session")
	conv, ok := h.registry.Lookup(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": id,
		"messages":   conv.Messages(),
		"processing": conv.IsProcessing(),
	})
}
