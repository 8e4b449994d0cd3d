package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/designdesk/backend/internal/middleware"
	"github.com/designdesk/backend/internal/services"
	"github.com/designdesk/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type ProjectsHandler struct {
	Projects *services.ProjectService
	Uploads  *services.UploadService
}

func NewProjectsHandler(projects *services.ProjectService, uploads *services.UploadService) *ProjectsHandler {
	return &ProjectsHandler{Projects: projects, Uploads: uploads}
}

type createProjectRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Files       []services.FileUpload `json:"files"`
}

type updateProjectRequest struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	AssignedToID *string               `json:"assignedToID"`
	Files        []services.FileUpload `json:"files"`
}

func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	projects, err := h.Projects.ListForUser(c.Context(), currentUser)
	if err != nil {
		return serviceError(c, err, "project")
	}

	return utils.Success(c, fiber.StatusOK, projects)
}

// Create accepts either a JSON body carrying file metadata for blobs
// uploaded out of band, or a multipart form whose files are moved into the
// object store first.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.CreateProjectInput
	var uploaded []services.FileUpload

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid multipart form")
		}

		uploaded, err = h.Uploads.UploadMany(c.Context(), currentUser.ID, formFiles(form))
		if err != nil {
			return serviceError(c, err, "project")
		}

		input = services.CreateProjectInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Files:       uploaded,
		}
	} else {
		var req createProjectRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
		input = services.CreateProjectInput{
			Title:       req.Title,
			Description: req.Description,
			Files:       req.Files,
		}
	}

	project, err := h.Projects.Create(c.Context(), currentUser, input)
	if err != nil {
		if len(uploaded) > 0 {
			h.Uploads.RemoveMany(c.Context(), uploaded)
		}
		return serviceError(c, err, "project")
	}

	return utils.Success(c, fiber.StatusCreated, project)
}

func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	projectID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid project id")
	}

	project, err := h.Projects.GetByID(c.Context(), currentUser, projectID)
	if err != nil {
		return serviceError(c, err, "project")
	}

	return utils.Success(c, fiber.StatusOK, project)
}

func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	projectID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid project id")
	}

	var req updateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, err := h.Projects.Update(c.Context(), currentUser, projectID, services.UpdateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		Files:        req.Files,
	})
	if err != nil {
		return serviceError(c, err, "project")
	}

	return utils.Success(c, fiber.StatusOK, project)
}

func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	projectID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid project id")
	}

	if err := h.Projects.Delete(c.Context(), currentUser, projectID); err != nil {
		return serviceError(c, err, "project")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "project deleted"})
}

func (h *ProjectsHandler) Stats(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := h.Projects.Stats(c.Context(), currentUser)
	if err != nil {
		return serviceError(c, err, "project")
	}

	return utils.Success(c, fiber.StatusOK, stats)
}

func formFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	if headers, ok := form.File["files"]; ok {
		return headers
	}
	return form.File["files[]"]
}
