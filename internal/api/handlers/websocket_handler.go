package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/responder"
	"github.com/scheme-assist/backend/pkg/logger"
)

// WebSocketHandler gives every connection its own conversation. Clients send
// {"type":"message","content":"..."} and receive status, message and error
// frames.
type WebSocketHandler struct {
	opts responder.Options
}

func NewWebSocketHandler(opts responder.Options) *WebSocketHandler {
	return &WebSocketHandler{
		opts: opts,
	}
}

// Upgrade rejects plain HTTP requests on the websocket route.
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	conv := responder.NewConversation(h.opts)
	for _, m := range conv.Messages() {
		if err := h.sendMessage(c, m); err != nil {
			return
		}
	}

	for {
		var msg struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("Failed to read WebSocket message", zap.Error(err))
			}
			break
		}

		if msg.Type != "message" {
			continue
		}

		if err := h.reply(ctx, c, conv, msg.Content); err != nil {
			logger.Error("Failed to write WebSocket message", zap.Error(err))
			break
		}
	}
}

// frameWriter is the part of *websocket.Conn the reply path writes to.
type frameWriter interface {
	WriteJSON(v interface{}) error
}

func (h *WebSocketHandler) reply(ctx context.Context, c frameWriter, conv *responder.Conversation, text string) error {
	// Empty input is refused without a typing status.
	if strings.TrimSpace(text) == "" {
		return h.sendError(c, "Message is required")
	}
	if err := h.sendStatus(c, "typing"); err != nil {
		return err
	}

	reply, err := conv.Send(ctx, text)
	switch {
	case errors.Is(err, responder.ErrEmptyMessage):
		if err := h.sendError(c, "Message is required"); err != nil {
			return err
		}
		return h.sendStatus(c, "idle")
	case errors.Is(err, responder.ErrBusy):
		return h.sendError(c, "A reply is still being prepared")
	case err != nil:
		return err
	}

	msgs := conv.Messages()
	// The user message sits right before the reply.
	if len(msgs) >= 2 {
		if err := h.sendMessage(c, msgs[len(msgs)-2]); err != nil {
			return err
		}
	}
	if err := h.sendMessage(c, reply); err != nil {
		return err
	}
	return h.sendStatus(c, "idle")
}

func (h *WebSocketHandler) sendStatus(c frameWriter, status string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    "status",
		"content": status,
	})
}

func (h *WebSocketHandler) sendMessage(c frameWriter, m responder.Message) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    "message",
		"message": m,
	})
}

func (h *WebSocketHandler) sendError(c frameWriter, errorMsg string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}
