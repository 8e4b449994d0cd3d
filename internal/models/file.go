package models

import "github.com/google/uuid"

type File struct {
	BaseModel
	Filename    string    `json:"filename" gorm:"type:varchar(255);not null"`
	StoragePath string    `json:"path" gorm:"type:text;not null"`
	Size        int64     `json:"size" gorm:"not null;default:0"`
	ProjectID   uuid.UUID `json:"projectID" gorm:"type:uuid;not null;index"`

	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID"`
}
