package validation

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const profileSchema = `{
	"type": "object",
	"properties": {
		"state": {"type": "string", "maxLength": 64},
		"age": {"type": "integer", "minimum": 0, "maximum": 150},
		"gender": {"enum": ["", "male", "female", "other"]},
		"income": {"enum": ["", "below-1l", "1l-3l", "3l-5l", "5l-10l", "above-10l"]},
		"occupation": {"enum": ["", "farmer", "business", "service", "self-employed", "student", "unemployed"]},
		"education": {"enum": ["", "below-10th", "10th-pass", "12th-pass", "graduate", "post-graduate"]},
		"category": {"enum": ["", "general", "obc", "sc", "st"]},
		"disability": {"type": "boolean"},
		"maritalStatus": {"enum": ["", "single", "married", "widowed", "divorced"]},
		"interests": {
			"type": "array",
			"uniqueItems": true,
			"items": {"enum": ["agriculture", "education", "health", "housing", "skill-development", "financial-aid", "family-welfare", "pension"]}
		}
	}
}`

const bookmarkSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "integer", "minimum": 1}
	}
}`

const chatSchemaTemplate = `{
	"type": "object",
	"required": ["message"],
	"properties": {
		"session_id": {"type": "string", "maxLength": 128},
		"message": {"type": "string", "maxLength": %d}
	}
}`

type Config struct {
	MaxMessageLength    int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

type route struct {
	match  func(path string) bool
	schema *gojsonschema.Schema
}

func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxMessageLength == 0 {
		cfg.MaxMessageLength = 1000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	routes := []route{
		{
			match: func(p string) bool {
				return strings.HasSuffix(p, "/eligibility") || strings.Contains(p, "/eligibility/steps/")
			},
			schema: mustSchema(profileSchema),
		},
		{
			match:  func(p string) bool { return strings.HasSuffix(p, "/bookmarks") },
			schema: mustSchema(bookmarkSchema),
		},
		{
			match:  func(p string) bool { return strings.HasSuffix(p, "/chat") },
			schema: mustSchema(fmt.Sprintf(chatSchemaTemplate, cfg.MaxMessageLength)),
		},
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !allowedType(contentType, cfg.AllowedContentTypes) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Unsupported content type",
			})
		}

		path := c.Path()
		for _, r := range routes {
			if !r.match(path) {
				continue
			}

			body := sanitize(c.Body())
			result, err := r.schema.Validate(gojsonschema.NewBytesLoader(body))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}
			if !result.Valid() {
				details := make([]string, len(result.Errors()))
				for i, desc := range result.Errors() {
					details[i] = desc.String()
				}
				cfg.Logger.Debug("Request failed validation",
					zap.String("path", path),
					zap.Strings("errors", details),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":   "Invalid request",
					"details": details,
				})
			}
			c.Request().SetBody(body)
			break
		}

		return c.Next()
	}
}

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return s
}

func allowedType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

// sanitize strips NUL bytes, which are never meaningful in a JSON body.
func sanitize(body []byte) []byte {
	if !strings.ContainsRune(string(body), 0) {
		return body
	}
	return []byte(strings.ReplaceAll(string(body), "\x00", ""))
}
