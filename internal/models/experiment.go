package models

import (
	"database/sql/driver"
	"sort"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
)

// TaskIDList is an ordered list of task IDs. Postgres stores it as a
// native bigint[]; other dialects fall back to lib/pq's text encoding.
type TaskIDList pq.Int64Array

func (l TaskIDList) Value() (driver.Value, error) {
	return pq.Int64Array(l).Value()
}

func (l *TaskIDList) Scan(src interface{}) error {
	return (*pq.Int64Array)(l).Scan(src)
}

func (TaskIDList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "bigint[]"
	}
	return "text"
}

// ExperimentMode selects how tasks are scheduled for a participant.
type ExperimentMode string

const (
	ModeStrict   ExperimentMode = "strict"
	ModeAdaptive ExperimentMode = "adaptive"
)

// Experiment is an author-defined batch of visual-search tasks.
//
// Sessions are deliberately NOT kept as a reference list on the experiment;
// they are queried by experiment_id instead, so creating or deleting a
// session touches a single aggregate.
type Experiment struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	Name     string         `gorm:"not null" json:"name"`
	AuthorID uint           `gorm:"index;not null" json:"authorId"`
	Author   *User          `json:"author,omitempty"`
	Mode     ExperimentMode `gorm:"type:varchar(16);not null" json:"mode"`

	// Adaptive-mode parameters. All four must be null in strict mode and
	// present in adaptive mode.
	EfficiencyMin     *float64 `json:"efficiencyMin"`
	EfficiencyMax     *float64 `json:"efficiencyMax"`
	InitialTaskNumber *int     `json:"initialTaskNumber"`
	SeriesTime        *float64 `json:"seriesTime"`

	PresentationsPerTask int `gorm:"not null" json:"presentationsPerTask"`

	// TaskOrder preserves the author's task ordering. It is appended to in
	// the same transaction that inserts a task row.
	TaskOrder TaskIDList `json:"-"`
	Tasks     []Task     `json:"tasks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate enforces the mode invariants.
func (e *Experiment) Validate() error {
	if e.Name == "" {
		return apperrors.Validation("name is required")
	}
	if e.PresentationsPerTask < 1 {
		return apperrors.Validation("presentationsPerTask must be at least 1")
	}

	switch e.Mode {
	case ModeStrict:
		if e.EfficiencyMin != nil || e.EfficiencyMax != nil || e.InitialTaskNumber != nil || e.SeriesTime != nil {
			return apperrors.Validation("adaptive parameters must not be set in strict mode")
		}
	case ModeAdaptive:
		if e.EfficiencyMin == nil || e.EfficiencyMax == nil || e.InitialTaskNumber == nil || e.SeriesTime == nil {
			return apperrors.Validation("efficiencyMin, efficiencyMax, initialTaskNumber and seriesTime are required in adaptive mode")
		}
		if *e.EfficiencyMin < 0 || *e.EfficiencyMax > 100 || *e.EfficiencyMin > *e.EfficiencyMax {
			return apperrors.Validation("efficiency bounds must satisfy 0 <= min <= max <= 100")
		}
		if *e.InitialTaskNumber < 1 {
			return apperrors.Validation("initialTaskNumber must be at least 1")
		}
		if *e.SeriesTime < 1 {
			return apperrors.Validation("seriesTime must be at least 1")
		}
	default:
		return apperrors.Validation("mode must be either strict or adaptive")
	}
	return nil
}

// HasTask reports whether the given task belongs to the experiment.
func (e *Experiment) HasTask(taskID uint) bool {
	for _, id := range e.TaskOrder {
		if uint(id) == taskID {
			return true
		}
	}
	return false
}

// OrderedTasks returns the loaded tasks sorted by the author's ordering.
func (e *Experiment) OrderedTasks() []Task {
	position := make(map[uint]int, len(e.TaskOrder))
	for i, id := range e.TaskOrder {
		position[uint(id)] = i
	}
	tasks := make([]Task, len(e.Tasks))
	copy(tasks, e.Tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		return position[tasks[i].ID] < position[tasks[j].ID]
	})
	return tasks
}
