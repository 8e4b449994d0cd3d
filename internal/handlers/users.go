package handlers

import (
	"github.com/designdesk/backend/internal/middleware"
	"github.com/designdesk/backend/internal/services"
	"github.com/designdesk/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	Projects *services.ProjectService
}

func NewUsersHandler(projects *services.ProjectService) *UsersHandler {
	return &UsersHandler{Projects: projects}
}

// Designers lists DESIGNER-role users for the assignment picklist. The
// service rejects anyone but a project manager.
func (h *UsersHandler) Designers(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	designers, err := h.Projects.Designers(c.Context(), currentUser)
	if err != nil {
		return serviceError(c, err, "user")
	}

	return utils.Success(c, fiber.StatusOK, designers)
}
