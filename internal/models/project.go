package models

import "github.com/google/uuid"

const (
	ProjectTitleMinLength       = 3
	ProjectTitleMaxLength       = 100
	ProjectDescriptionMaxLength = 500
)

type Project struct {
	BaseModel
	Title        string     `json:"title" gorm:"type:varchar(100);not null"`
	Description  string     `json:"description" gorm:"type:varchar(500);not null;default:''"`
	CreatedByID  uuid.UUID  `json:"createdByID" gorm:"type:uuid;not null;index"`
	AssignedToID *uuid.UUID `json:"assignedToID,omitempty" gorm:"type:uuid;index"`

	CreatedBy  User   `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID"`
	AssignedTo *User  `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID;references:ID"`
	Files      []File `json:"files" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "projects"
}
