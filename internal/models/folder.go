package models

import (
	"time"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
)

// Folder is a purely organizational grouping of experiments.
type Folder struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description"`
	AuthorID    uint         `gorm:"index;not null" json:"authorId"`
	Author      *User        `json:"author,omitempty"`
	Experiments []Experiment `gorm:"many2many:folder_experiments" json:"experiments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (f *Folder) Validate() error {
	if f.Name == "" {
		return apperrors.Validation("name is required")
	}
	if len(f.Name) > 100 {
		return apperrors.Validation("name must be at most 100 characters")
	}
	if len(f.Description) > 500 {
		return apperrors.Validation("description must be at most 500 characters")
	}
	return nil
}
