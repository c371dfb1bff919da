package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/eligibility"
	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/pkg/logger"
)

type EligibilityHandler struct{}

func NewEligibilityHandler() *EligibilityHandler {
	return &EligibilityHandler{}
}

// Check runs the rule engine once the location and personal steps are filled.
func (h *EligibilityHandler) Check(c *fiber.Ctx) error {
	var profile eligibility.Profile
	if err := c.BodyParser(&profile); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := eligibility.Complete(profile); err != nil {
		metrics.EligibilityChecks.WithLabelValues("incomplete").Inc()
		var inc *eligibility.IncompleteError
		if errors.As(err, &inc) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Profile is incomplete",
				"step":    inc.Step,
				"missing": inc.Missing,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	matches := eligibility.Explain(profile)
	metrics.EligibilityChecks.WithLabelValues("ok").Inc()
	metrics.EligibilityMatches.Observe(float64(len(matches)))

	logger.Debug("Eligibility evaluated",
		zap.String("state", profile.State),
		zap.Int("matches", len(matches)),
	)

	return c.JSON(fiber.Map{
		"schemes": matches,
		"count":   len(matches),
	})
}

// CheckStep reports whether the questionnaire may advance past a step.
func (h *EligibilityHandler) CheckStep(c *fiber.Ctx) error {
	step, err := c.ParamsInt("step")
	if err != nil || step < eligibility.StepLocation || step > eligibility.StepResults {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown questionnaire step",
		})
	}

	var profile eligibility.Profile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	missing := eligibility.RequiredFields(step, profile)
	if missing == nil {
		missing = []string{}
	}

	return c.JSON(fiber.Map{
		"step":     step,
		"complete": len(missing) == 0,
		"missing":  missing,
	})
}
