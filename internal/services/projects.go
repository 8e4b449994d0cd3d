package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/designdesk/backend/internal/models"
	"github.com/designdesk/backend/internal/storage"
	"github.com/designdesk/backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectService orchestrates the project lifecycle: every mutation runs an
// authorization predicate first, then the database and object store are
// touched. All durable state lives in those two; the service itself holds
// none.
type ProjectService struct {
	DB    *gorm.DB
	Store storage.ObjectStore
}

func NewProjectService(db *gorm.DB, store storage.ObjectStore) *ProjectService {
	return &ProjectService{DB: db, Store: store}
}

type CreateProjectInput struct {
	Title       string
	Description string
	Files       []FileUpload
}

// UpdateProjectInput has partial-update semantics: nil pointers leave the
// field untouched. A non-nil empty AssignedToID disconnects the assignee.
type UpdateProjectInput struct {
	Title        *string
	Description  *string
	AssignedToID *string
	Files        []FileUpload
}

// ProjectStats summarizes the projects visible to one user.
type ProjectStats struct {
	Total      int64 `json:"total"`
	Assigned   int64 `json:"assigned"`
	Unassigned int64 `json:"unassigned"`
	Files      int64 `json:"files"`
}

func (s *ProjectService) Create(ctx context.Context, actor *models.User, input CreateProjectInput) (*models.Project, error) {
	if !CanCreateProject(actor) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}

	project := models.Project{
		Title:       title,
		Description: input.Description,
		CreatedByID: actor.ID,
	}
	for _, upload := range input.Files {
		project.Files = append(project.Files, models.File{
			Filename:    upload.Filename,
			StoragePath: upload.Path,
			Size:        upload.Size,
		})
	}

	if err := s.DB.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}

	logger.InfoWithUser(actor.ID.String(), "project_created", map[string]interface{}{
		"project_id": project.ID.String(),
		"title":      project.Title,
		"file_count": len(project.Files),
	})

	return s.loadProject(ctx, project.ID)
}

func (s *ProjectService) GetByID(ctx context.Context, actor *models.User, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !CanViewProject(actor, project) {
		return nil, ErrForbidden
	}

	return project, nil
}

// ListForUser returns the projects visible to the actor, newest first.
// Managers see everything, designers what is assigned to them, clients what
// they created.
func (s *ProjectService) ListForUser(ctx context.Context, actor *models.User) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := s.withRelations(s.scoped(ctx, actor)).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, actor *models.User, projectID uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !CanManageProject(actor, project) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		updates["title"] = title
	}

	if input.Description != nil {
		if err := validateDescription(*input.Description); err != nil {
			return nil, err
		}
		updates["description"] = *input.Description
	}

	if input.AssignedToID != nil {
		value := strings.TrimSpace(*input.AssignedToID)
		if value == "" {
			updates["assigned_to_id"] = nil
		} else {
			designerID, err := uuid.Parse(value)
			if err != nil {
				return nil, validationError("assignedToID", "must be a valid user id")
			}
			var designer models.User
			if err := s.DB.WithContext(ctx).First(&designer, "id = ?", designerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, validationError("assignedToID", "user does not exist")
				}
				return nil, err
			}
			if designer.Role != models.UserRoleDesigner {
				return nil, validationError("assignedToID", "assignee must be a designer")
			}
			updates["assigned_to_id"] = designerID
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Project{}).Where("id = ?", project.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		for _, upload := range input.Files {
			row := models.File{
				Filename:    upload.Filename,
				StoragePath: upload.Path,
				Size:        upload.Size,
				ProjectID:   project.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithUser(actor.ID.String(), "project_updated", map[string]interface{}{
		"project_id":  project.ID.String(),
		"fields":      len(updates),
		"files_added": len(input.Files),
	})

	return s.loadProject(ctx, project.ID)
}

// Delete removes the project's blobs from the object store first, then the
// project row and its file rows. If any blob removal fails the rows stay so
// a retry can finish the job.
func (s *ProjectService) Delete(ctx context.Context, actor *models.User, projectID uuid.UUID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !CanManageProject(actor, project) {
		return ErrForbidden
	}

	if len(project.Files) > 0 {
		paths := make([]string, 0, len(project.Files))
		for _, file := range project.Files {
			paths = append(paths, file.StoragePath)
		}
		if err := s.Store.DeleteMany(ctx, paths); err != nil {
			return storageError(err)
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", project.ID).Error
	})
	if err != nil {
		return err
	}

	logger.InfoWithUser(actor.ID.String(), "project_deleted", map[string]interface{}{
		"project_id": project.ID.String(),
		"file_count": len(project.Files),
	})

	return nil
}

// AddFiles appends file rows for blobs that are already in the object
// store. Existing attachments are never replaced.
func (s *ProjectService) AddFiles(ctx context.Context, actor *models.User, projectID uuid.UUID, uploads []FileUpload) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !CanManageProject(actor, project) {
		return ErrForbidden
	}

	if len(uploads) == 0 {
		return nil
	}

	rows := make([]models.File, 0, len(uploads))
	for _, upload := range uploads {
		rows = append(rows, models.File{
			Filename:    upload.Filename,
			StoragePath: upload.Path,
			Size:        upload.Size,
			ProjectID:   project.ID,
		})
	}

	if err := s.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}

	logger.InfoWithUser(actor.ID.String(), "project_files_added", map[string]interface{}{
		"project_id": project.ID.String(),
		"file_count": len(rows),
	})

	return nil
}

// EnsureManage checks manage permission without mutating anything. The
// upload handler calls it before moving any bytes so an unauthorized caller
// never lands blobs in the store.
func (s *ProjectService) EnsureManage(ctx context.Context, actor *models.User, projectID uuid.UUID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !CanManageProject(actor, project) {
		return ErrForbidden
	}
	return nil
}

// RemoveFile deletes one attachment: blob first, then the row. Calling it
// again for the same id yields ErrNotFound.
func (s *ProjectService) RemoveFile(ctx context.Context, actor *models.User, fileID uuid.UUID) error {
	var file models.File
	if err := s.DB.WithContext(ctx).Preload("Project").First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !CanManageProject(actor, &file.Project) {
		return ErrForbidden
	}

	if err := s.Store.Delete(ctx, file.StoragePath); err != nil {
		return storageError(err)
	}

	if err := s.DB.WithContext(ctx).Delete(&models.File{}, "id = ?", file.ID).Error; err != nil {
		return err
	}

	logger.InfoWithUser(actor.ID.String(), "project_file_removed", map[string]interface{}{
		"file_id":    file.ID.String(),
		"project_id": file.ProjectID.String(),
	})

	return nil
}

// GetFile loads one attachment and checks view access against its parent
// project. Used by the download-url endpoint.
func (s *ProjectService) GetFile(ctx context.Context, actor *models.User, fileID uuid.UUID) (*models.File, error) {
	var file models.File
	if err := s.DB.WithContext(ctx).Preload("Project").First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !CanViewProject(actor, &file.Project) {
		return nil, ErrForbidden
	}

	return &file, nil
}

// Designers lists users holding the DESIGNER role, for the manager's
// assignment picklist.
func (s *ProjectService) Designers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if actor.Role != models.UserRoleProjectManager {
		return nil, ErrForbidden
	}

	designers := make([]models.User, 0)
	err := s.DB.WithContext(ctx).
		Where("role = ?", models.UserRoleDesigner).
		Order("name ASC").
		Find(&designers).Error
	if err != nil {
		return nil, err
	}
	return designers, nil
}

// Stats aggregates over the projects visible to the actor.
func (s *ProjectService) Stats(ctx context.Context, actor *models.User) (*ProjectStats, error) {
	var stats ProjectStats

	if err := s.scoped(ctx, actor).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.scoped(ctx, actor).Where("assigned_to_id IS NOT NULL").Count(&stats.Assigned).Error; err != nil {
		return nil, err
	}
	stats.Unassigned = stats.Total - stats.Assigned

	err := s.DB.WithContext(ctx).Model(&models.File{}).
		Where("project_id IN (?)", s.scoped(ctx, actor).Select("id")).
		Count(&stats.Files).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// scoped returns the project query filtered to what the actor may list.
// Every listing path goes through here; there is no unscoped variant.
func (s *ProjectService) scoped(ctx context.Context, actor *models.User) *gorm.DB {
	query := s.DB.WithContext(ctx).Model(&models.Project{})
	switch actor.Role {
	case models.UserRoleProjectManager:
		return query
	case models.UserRoleDesigner:
		return query.Where("assigned_to_id = ?", actor.ID)
	default:
		return query.Where("created_by_id = ?", actor.ID)
	}
}

func (s *ProjectService) withRelations(query *gorm.DB) *gorm.DB {
	return query.Preload("CreatedBy").Preload("AssignedTo").Preload("Files")
}

func (s *ProjectService) loadProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.withRelations(s.DB.WithContext(ctx)).First(&project, "id = ?", projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Length limits are in characters, not bytes, so multi-byte titles are
// measured the way users count them.
func validateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < models.ProjectTitleMinLength {
		return validationError("title", "must be at least 3 characters")
	}
	if length > models.ProjectTitleMaxLength {
		return validationError("title", "must be at most 100 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > models.ProjectDescriptionMaxLength {
		return validationError("description", "must be at most 500 characters")
	}
	return nil
}
