package handlers

import (
	"errors"
	"strings"

	"github.com/designdesk/backend/internal/services"
	"github.com/designdesk/backend/pkg/logger"
	"github.com/designdesk/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// serviceError maps the service error taxonomy onto transport status codes.
// Every handler funnels service failures through here.
func serviceError(c *fiber.Ctx, err error, resource string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return utils.Error(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.Is(err, services.ErrForbidden):
		return utils.Error(c, fiber.StatusForbidden, "access denied")
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, resource+" not found")
	case errors.Is(err, services.ErrStorage):
		return utils.Error(c, fiber.StatusBadGateway, "storage operation failed")
	default:
		logger.Error("unexpected_service_error", err, map[string]interface{}{
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
