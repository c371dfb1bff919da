package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/bookmarks"
	"github.com/scheme-assist/backend/internal/catalog"
	"github.com/scheme-assist/backend/internal/i18n"
	"github.com/scheme-assist/backend/internal/middleware/ratelimit"
	"github.com/scheme-assist/backend/pkg/logger"
)

type BookmarksHandler struct {
	manager *bookmarks.Manager
}

func NewBookmarksHandler(manager *bookmarks.Manager) *BookmarksHandler {
	return &BookmarksHandler{
		manager: manager,
	}
}

func (h *BookmarksHandler) store(c *fiber.Ctx) (*bookmarks.Store, error) {
	owner := c.Get(ratelimit.ClientHeader)
	if owner == "" {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ratelimit.ClientHeader + " header is required",
		})
	}
	return h.manager.For(c.UserContext(), owner), nil
}

func (h *BookmarksHandler) List(c *fiber.Ctx) error {
	s, err := h.store(c)
	if s == nil {
		return err
	}

	items := s.List()
	return c.JSON(fiber.Map{
		"bookmarks": items,
		"count":     len(items),
	})
}

func (h *BookmarksHandler) Add(c *fiber.Ctx) error {
	s, err := h.store(c)
	if s == nil {
		return err
	}

	var req struct {
		ID int `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	scheme, ok := catalog.ByID(req.ID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scheme not found",
		})
	}

	added, err := s.Add(c.UserContext(), bookmarks.FromScheme(scheme))
	if err != nil {
		logger.Error("Failed to add bookmark", zap.Int("scheme_id", req.ID), zap.Error(err))
		return saveFailed(c, err)
	}

	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"added":     added,
		"bookmarks": s.List(),
	})
}

func (h *BookmarksHandler) Remove(c *fiber.Ctx) error {
	s, err := h.store(c)
	if s == nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Scheme id must be a number",
		})
	}

	removed, err := s.Remove(c.UserContext(), id)
	if err != nil {
		logger.Error("Failed to remove bookmark", zap.Int("scheme_id", id), zap.Error(err))
		return saveFailed(c, err)
	}

	return c.JSON(fiber.Map{
		"removed":   removed,
		"bookmarks": s.List(),
	})
}

func (h *BookmarksHandler) bookmarked(c *fiber.Ctx) (bookmarks.Item, bool, error) {
	s, err := h.store(c)
	if s == nil {
		return bookmarks.Item{}, false, err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return bookmarks.Item{}, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Scheme id must be a number",
		})
	}

	item, ok := s.Get(id)
	if !ok {
		return bookmarks.Item{}, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scheme is not bookmarked",
		})
	}
	return item, true, nil
}

func (h *BookmarksHandler) Share(c *fiber.Ctx) error {
	item, ok, err := h.bookmarked(c)
	if !ok {
		return err
	}

	return c.JSON(fiber.Map{
		"title": item.Name,
		"text":  bookmarks.ShareText(item),
	})
}

func (h *BookmarksHandler) Export(c *fiber.Ctx) error {
	item, ok, err := h.bookmarked(c)
	if !ok {
		return err
	}

	lang := i18n.Default()
	if id := c.Query("lang"); id != "" {
		if lang, ok = i18n.ByID(id); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unsupported language",
			})
		}
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, bookmarks.ExportFilename(item.Name)))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(bookmarks.ExportText(item, i18n.Stub{Language: lang}))
}

// saveFailed answers 503 while the saved list could not be read and 500 when
// the write itself failed.
func saveFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, bookmarks.ErrUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Bookmark storage is unavailable, try again later",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to save bookmarks",
	})
}
