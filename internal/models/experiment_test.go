package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func validAdaptive() Experiment {
	return Experiment{
		Name:                 "adaptive run",
		Mode:                 ModeAdaptive,
		PresentationsPerTask: 5,
		EfficiencyMin:        floatPtr(40),
		EfficiencyMax:        floatPtr(80),
		InitialTaskNumber:    intPtr(1),
		SeriesTime:           floatPtr(60),
	}
}

func TestExperimentValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Experiment)
		wantErr bool
	}{
		{
			name:   "valid strict",
			mutate: func(e *Experiment) { e.Mode = ModeStrict; e.EfficiencyMin = nil; e.EfficiencyMax = nil; e.InitialTaskNumber = nil; e.SeriesTime = nil },
		},
		{
			name:   "valid adaptive",
			mutate: func(e *Experiment) {},
		},
		{
			name:    "missing name",
			mutate:  func(e *Experiment) { e.Name = "" },
			wantErr: true,
		},
		{
			name:    "zero presentations per task",
			mutate:  func(e *Experiment) { e.PresentationsPerTask = 0 },
			wantErr: true,
		},
		{
			name:    "unknown mode",
			mutate:  func(e *Experiment) { e.Mode = "freestyle" },
			wantErr: true,
		},
		{
			name: "strict with adaptive parameters",
			mutate: func(e *Experiment) {
				e.Mode = ModeStrict
				e.EfficiencyMax = nil
				e.InitialTaskNumber = nil
				e.SeriesTime = nil
				// EfficiencyMin stays set
			},
			wantErr: true,
		},
		{
			name:    "adaptive missing seriesTime",
			mutate:  func(e *Experiment) { e.SeriesTime = nil },
			wantErr: true,
		},
		{
			name:    "efficiency min above max",
			mutate:  func(e *Experiment) { e.EfficiencyMin = floatPtr(90) },
			wantErr: true,
		},
		{
			name:    "efficiency max above 100",
			mutate:  func(e *Experiment) { e.EfficiencyMax = floatPtr(101) },
			wantErr: true,
		},
		{
			name:    "initial task number below 1",
			mutate:  func(e *Experiment) { e.InitialTaskNumber = intPtr(0) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validAdaptive()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderedTasks(t *testing.T) {
	e := Experiment{
		TaskOrder: TaskIDList{30, 10, 20},
		Tasks: []Task{
			{ID: 10, Name: "b"},
			{ID: 20, Name: "c"},
			{ID: 30, Name: "a"},
		},
	}

	ordered := e.OrderedTasks()

	require.Len(t, ordered, 3)
	assert.Equal(t, uint(30), ordered[0].ID)
	assert.Equal(t, uint(10), ordered[1].ID)
	assert.Equal(t, uint(20), ordered[2].ID)
	// The loaded slice is untouched.
	assert.Equal(t, uint(10), e.Tasks[0].ID)
}
