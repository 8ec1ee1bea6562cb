package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GridCell addresses one cell of the stimulus grid. Row and column are
// 1-based; a zero value means "not given".
type GridCell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Presentation is one stimulus display event within a task result.
type Presentation struct {
	// ResponseTime is the elapsed time to respond in milliseconds,
	// 0 if the participant did not answer.
	ResponseTime  float64  `json:"responseTime"`
	CorrectAnswer GridCell `json:"correctAnswer"`
	UserAnswer    GridCell `json:"userAnswer"`
}

// Answered reports whether the participant gave a complete answer. A
// partial answer (row without column, or vice versa) counts as no answer.
func (p Presentation) Answered() bool {
	return p.UserAnswer.Row != 0 && p.UserAnswer.Column != 0
}

// PresentationList is stored as a single jsonb column; presentations are
// only ever read back as a whole, never queried individually.
type PresentationList []Presentation

func (l PresentationList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *PresentationList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported presentations column type %T", src)
	}
	return json.Unmarshal(data, l)
}

// TaskResult holds the presentations a participant produced for one task.
type TaskResult struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	SessionID uint  `gorm:"index;not null" json:"-"`
	TaskID    uint  `gorm:"not null" json:"taskId"`
	Task      *Task `json:"task,omitempty"`
	// Position keeps the submitted ordering of results.
	Position      int              `gorm:"not null" json:"-"`
	Presentations PresentationList `gorm:"type:jsonb" json:"presentations"`
}

// Session is one participant's completed run of an experiment. It is
// write-once: created with its full result set, readable, deletable,
// never updated.
type Session struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ExperimentID uint         `gorm:"index;not null" json:"experimentId"`
	Experiment   *Experiment  `json:"experiment,omitempty"`
	UserID       uint         `gorm:"index;not null" json:"userId"`
	User         *User        `json:"user,omitempty"`
	Results      []TaskResult `gorm:"constraint:OnDelete:CASCADE" json:"results"`
	CreatedAt    time.Time    `json:"createdAt"`
}
