package handlers

import (
	"errors"

	"bazaar/internal/apperr"
	applog "bazaar/internal/log"

	"github.com/gofiber/fiber/v2"
)

// fail renders err with the status its kind maps to.
func fail(c *fiber.Ctx, action string, err error) error {
	status := apperr.HTTPStatus(err)
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		applog.Error(c, action+".fail", err, nil)
		return c.Status(status).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}
	switch ae.Kind {
	case apperr.KindValidation:
		applog.Security(c, "validation.fail", map[string]any{"action": action, "fields": ae.Fields})
	case apperr.KindAccessDenied, apperr.KindUnauthorized:
		applog.Security(c, "access.denied", map[string]any{"action": action})
	}
	body := fiber.Map{"message": ae.Msg}
	if len(ae.Fields) > 0 {
		body["details"] = ae.Fields
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx, action string) error {
	return fail(c, action, apperr.Validation("invalid JSON body"))
}

// ErrorHandler renders errors that escape handlers, including fiber's own (404s,
// body limit) as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			applog.Error(c, "server.error", err, nil)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
}
