package models

import (
	"time"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
)

// Task is a single visual-search stimulus configuration. Tasks have no
// update path: once a session references a task, editing it would silently
// rewrite historical statistics.
type Task struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ExperimentID uint   `gorm:"index;not null" json:"experimentId"`
	Name         string `json:"name"`

	Rows    int `json:"rows"`
	Columns int `json:"columns"`

	BackgroundColor string `json:"backgroundColor"`
	SymbolColor     string `json:"symbolColor"`
	SymbolType      string `json:"symbolType"`
	SymbolFont      string `json:"symbolFont"`
	SymbolHeight    int    `json:"symbolHeight"`
	SymbolWidth     int    `json:"symbolWidth"`

	VerticalSpacing   int `json:"verticalSpacing"`
	HorizontalSpacing int `json:"horizontalSpacing"`

	// Timing parameters share one unit (milliseconds).
	StimulusTime float64 `json:"stimulusTime"`
	ResponseTime float64 `json:"responseTime"`
	PauseTime    float64 `json:"pauseTime"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the grid, symbol and timing parameters.
func (t *Task) Validate() error {
	if t.Rows < 1 || t.Columns < 1 {
		return apperrors.Validation("rows and columns must be at least 1")
	}
	if t.SymbolHeight < 1 || t.SymbolWidth < 1 {
		return apperrors.Validation("symbol dimensions must be at least 1")
	}
	if t.VerticalSpacing < 0 || t.HorizontalSpacing < 0 {
		return apperrors.Validation("spacing must not be negative")
	}
	if t.StimulusTime < 1 || t.ResponseTime < 1 || t.PauseTime < 1 {
		return apperrors.Validation("stimulusTime, responseTime and pauseTime must be at least 1")
	}
	return nil
}
