package handlers

import (
	"fmt"
	"time"

	"github.com/designdesk/backend/internal/middleware"
	"github.com/designdesk/backend/internal/services"
	"github.com/designdesk/backend/internal/storage"
	"github.com/designdesk/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const downloadURLExpiry = 15 * time.Minute

type FilesHandler struct {
	Projects *services.ProjectService
	Uploads  *services.UploadService
	Store    storage.ObjectStore
}

func NewFilesHandler(projects *services.ProjectService, uploads *services.UploadService, store storage.ObjectStore) *FilesHandler {
	return &FilesHandler{Projects: projects, Uploads: uploads, Store: store}
}

// Upload attaches multipart files to an existing project: manage permission
// is checked before any bytes move, blobs go to the store concurrently, and
// metadata rows are appended afterwards. A failed append removes the blobs
// again.
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	projectID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid project id")
	}

	if err := h.Projects.EnsureManage(c.Context(), currentUser, projectID); err != nil {
		return serviceError(c, err, "project")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid multipart form")
	}

	headers := formFiles(form)
	if len(headers) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "at least one file is required")
	}

	uploaded, err := h.Uploads.UploadMany(c.Context(), currentUser.ID, headers)
	if err != nil {
		return serviceError(c, err, "project")
	}

	if err := h.Projects.AddFiles(c.Context(), currentUser, projectID, uploaded); err != nil {
		h.Uploads.RemoveMany(c.Context(), uploaded)
		return serviceError(c, err, "project")
	}

	return utils.Success(c, fiber.StatusCreated, uploaded)
}

// DownloadURL hands out a short-lived presigned GET for one attachment.
// View access on the parent project is enough; designers download the files
// of their assigned projects this way.
func (h *FilesHandler) DownloadURL(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, err := h.Projects.GetFile(c.Context(), currentUser, fileID)
	if err != nil {
		return serviceError(c, err, "file")
	}

	url, err := h.Store.PresignedGetURL(c.Context(), file.StoragePath, downloadURLExpiry, file.Filename)
	if err != nil {
		return utils.Error(c, fiber.StatusBadGateway, "failed generating download url")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"url":       url,
		"expiresIn": int(downloadURLExpiry.Seconds()),
	})
}

// Download streams the blob through the server. Useful when the object
// store is not reachable from the browser; otherwise DownloadURL is the
// cheaper path.
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, err := h.Projects.GetFile(c.Context(), currentUser, fileID)
	if err != nil {
		return serviceError(c, err, "file")
	}

	stream, err := h.Store.Download(c.Context(), file.StoragePath)
	if err != nil {
		return utils.Error(c, fiber.StatusBadGateway, "failed reading file")
	}

	c.Set(fiber.HeaderContentType, "application/octet-stream")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.SendStream(stream, int(file.Size))
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	if err := h.Projects.RemoveFile(c.Context(), currentUser, fileID); err != nil {
		return serviceError(c, err, "file")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "file removed"})
}
