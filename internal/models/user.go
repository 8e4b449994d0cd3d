package models

type UserRole string

const (
	UserRoleClient         UserRole = "CLIENT"
	UserRoleProjectManager UserRole = "PROJECT_MANAGER"
	UserRoleDesigner       UserRole = "DESIGNER"
)

// ValidRole reports whether value is one of the three known roles.
func ValidRole(value UserRole) bool {
	switch value {
	case UserRoleClient, UserRoleProjectManager, UserRoleDesigner:
		return true
	default:
		return false
	}
}

type User struct {
	BaseModel
	Email        string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"type:text;not null"`
	Name         string   `json:"name" gorm:"type:varchar(100)"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'CLIENT'"`

	CreatedProjects  []Project `json:"-" gorm:"foreignKey:CreatedByID"`
	AssignedProjects []Project `json:"-" gorm:"foreignKey:AssignedToID"`
}
