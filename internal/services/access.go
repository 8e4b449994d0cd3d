package services

import "github.com/designdesk/backend/internal/models"

// Authorization predicates for the project lifecycle. These are pure
// functions over already-loaded rows: no IO, no error paths. Callers turn a
// false result into ErrForbidden.

// CanCreateProject reports whether the user may create projects. Designers
// only ever receive work, they never open it.
func CanCreateProject(user *models.User) bool {
	return user.Role == models.UserRoleClient || user.Role == models.UserRoleProjectManager
}

// CanViewProject reports whether the user may see the project: managers see
// everything, creators see their own, designers see what is assigned to
// them.
func CanViewProject(user *models.User, project *models.Project) bool {
	if user.Role == models.UserRoleProjectManager {
		return true
	}
	if project.CreatedByID == user.ID {
		return true
	}
	if user.Role == models.UserRoleDesigner && project.AssignedToID != nil && *project.AssignedToID == user.ID {
		return true
	}
	return false
}

// CanManageProject reports whether the user may edit or delete the project.
// Managers manage everything, clients manage what they created. A designer
// never manages a project, assigned or not.
func CanManageProject(user *models.User, project *models.Project) bool {
	if user.Role == models.UserRoleProjectManager {
		return true
	}
	return user.Role == models.UserRoleClient && project.CreatedByID == user.ID
}
