package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		p    models.Presentation
		want Outcome
	}{
		{
			name: "matching answer is a success",
			p: models.Presentation{
				CorrectAnswer: models.GridCell{Row: 2, Column: 3},
				UserAnswer:    models.GridCell{Row: 2, Column: 3},
			},
			want: OutcomeSuccess,
		},
		{
			name: "mismatching answer is an error",
			p: models.Presentation{
				CorrectAnswer: models.GridCell{Row: 2, Column: 3},
				UserAnswer:    models.GridCell{Row: 3, Column: 3},
			},
			want: OutcomeError,
		},
		{
			name: "no answer is a miss",
			p: models.Presentation{
				CorrectAnswer: models.GridCell{Row: 1, Column: 1},
			},
			want: OutcomeMiss,
		},
		{
			name: "row without column is a miss even when the row matches",
			p: models.Presentation{
				CorrectAnswer: models.GridCell{Row: 2, Column: 5},
				UserAnswer:    models.GridCell{Row: 2, Column: 0},
			},
			want: OutcomeMiss,
		},
		{
			name: "column without row is a miss",
			p: models.Presentation{
				CorrectAnswer: models.GridCell{Row: 2, Column: 5},
				UserAnswer:    models.GridCell{Row: 0, Column: 5},
			},
			want: OutcomeMiss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.p))
		})
	}
}

func TestCalculateTaskStats_TwoSuccesses(t *testing.T) {
	task := &models.Task{
		Rows:         4,
		Columns:      5,
		StimulusTime: 500,
		ResponseTime: 1000,
		PauseTime:    300,
	}
	presentations := []models.Presentation{
		{
			ResponseTime:  300,
			CorrectAnswer: models.GridCell{Row: 1, Column: 1},
			UserAnswer:    models.GridCell{Row: 1, Column: 1},
		},
		{
			ResponseTime:  400,
			CorrectAnswer: models.GridCell{Row: 2, Column: 2},
			UserAnswer:    models.GridCell{Row: 2, Column: 2},
		},
	}

	s := CalculateTaskStats(task, presentations)

	assert.Equal(t, 2, s.SuccessCount)
	assert.Equal(t, 0, s.ErrorCount)
	assert.Equal(t, 0, s.MissCount)
	assert.Equal(t, 700.0, s.TotalResponseTime)
	assert.Equal(t, 1.0, s.Efficiency)
	assert.Equal(t, 350.0, s.AvgResponseTime)
	assert.InDelta(t, 1.0*(1-350.0/1500.0), s.FinalScore, 1e-9)
	assert.InDelta(t, 20.0/1500.0, s.Workload, 1e-9)
}

func TestCalculateTaskStats_CountsPartitionPresentations(t *testing.T) {
	task := &models.Task{Rows: 3, Columns: 3, StimulusTime: 400, ResponseTime: 600, PauseTime: 100}
	presentations := []models.Presentation{
		{ResponseTime: 250, CorrectAnswer: models.GridCell{Row: 1, Column: 1}, UserAnswer: models.GridCell{Row: 1, Column: 1}},
		{ResponseTime: 500, CorrectAnswer: models.GridCell{Row: 1, Column: 2}, UserAnswer: models.GridCell{Row: 3, Column: 2}},
		{CorrectAnswer: models.GridCell{Row: 2, Column: 2}},
		{ResponseTime: 150, CorrectAnswer: models.GridCell{Row: 3, Column: 3}, UserAnswer: models.GridCell{Row: 3, Column: 0}},
		{ResponseTime: 420, CorrectAnswer: models.GridCell{Row: 2, Column: 1}, UserAnswer: models.GridCell{Row: 2, Column: 1}},
	}

	s := CalculateTaskStats(task, presentations)

	assert.Equal(t, len(presentations), s.SuccessCount+s.ErrorCount+s.MissCount)
	assert.Equal(t, 2, s.SuccessCount)
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 2, s.MissCount)
	// Only answered presentations contribute response time; the partial
	// answer at index 3 is a miss and its 150ms is not counted.
	assert.Equal(t, 250.0+500.0+420.0, s.TotalResponseTime)
}

func TestCalculateTaskStats_EmptyPresentations(t *testing.T) {
	task := &models.Task{Rows: 2, Columns: 2, StimulusTime: 500, ResponseTime: 500, PauseTime: 100}

	s := CalculateTaskStats(task, []models.Presentation{})

	assert.Zero(t, s.SuccessCount)
	assert.Zero(t, s.ErrorCount)
	assert.Zero(t, s.MissCount)
	assert.Zero(t, s.Efficiency)
	assert.Zero(t, s.AvgResponseTime)
	assert.Zero(t, s.FinalScore)
	assert.Zero(t, s.Entropy)
	assertFinite(t, s)
}

func TestCalculateTaskStats_EntropyBoundaries(t *testing.T) {
	task := &models.Task{Rows: 2, Columns: 2, StimulusTime: 500, ResponseTime: 500, PauseTime: 100}

	allSuccess := []models.Presentation{
		{ResponseTime: 100, CorrectAnswer: models.GridCell{Row: 1, Column: 1}, UserAnswer: models.GridCell{Row: 1, Column: 1}},
		{ResponseTime: 200, CorrectAnswer: models.GridCell{Row: 2, Column: 2}, UserAnswer: models.GridCell{Row: 2, Column: 2}},
	}
	s := CalculateTaskStats(task, allSuccess)
	assert.Equal(t, 1.0, s.Efficiency)
	assert.Zero(t, s.Entropy)
	assertFinite(t, s)

	allMiss := []models.Presentation{
		{CorrectAnswer: models.GridCell{Row: 1, Column: 1}},
		{CorrectAnswer: models.GridCell{Row: 2, Column: 2}},
	}
	s = CalculateTaskStats(task, allMiss)
	assert.Zero(t, s.Efficiency)
	assert.Zero(t, s.Entropy)
	assertFinite(t, s)
}

func TestCalculateTaskStats_EntropyMidpoint(t *testing.T) {
	task := &models.Task{Rows: 2, Columns: 2, StimulusTime: 500, ResponseTime: 500, PauseTime: 100}
	presentations := []models.Presentation{
		{ResponseTime: 100, CorrectAnswer: models.GridCell{Row: 1, Column: 1}, UserAnswer: models.GridCell{Row: 1, Column: 1}},
		{ResponseTime: 100, CorrectAnswer: models.GridCell{Row: 1, Column: 2}, UserAnswer: models.GridCell{Row: 2, Column: 2}},
	}

	s := CalculateTaskStats(task, presentations)

	assert.Equal(t, 0.5, s.Efficiency)
	// 0.5*log2(0.5) + 0.5*log2(0.5) = -1
	assert.InDelta(t, -1.0, s.Entropy, 1e-9)
}

func TestCalculateSessionStats_UnresolvedTask(t *testing.T) {
	results := []models.TaskResult{
		{TaskID: 42, Presentations: models.PresentationList{}},
	}

	out, err := CalculateSessionStats(results)

	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, apperrors.KindMalformedResult, apperrors.KindOf(err))
}

func TestCalculateSessionStats_MissingPresentations(t *testing.T) {
	task := &models.Task{Rows: 2, Columns: 2, StimulusTime: 500, ResponseTime: 500, PauseTime: 100}
	results := []models.TaskResult{
		{TaskID: 1, Task: task, Presentations: nil},
	}

	out, err := CalculateSessionStats(results)

	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, apperrors.KindMalformedResult, apperrors.KindOf(err))
}

func TestCalculateSessionStats_EmptyPresentationsIsNotAnError(t *testing.T) {
	task := &models.Task{Rows: 2, Columns: 2, StimulusTime: 500, ResponseTime: 500, PauseTime: 100}
	results := []models.TaskResult{
		{TaskID: 1, Task: task, Presentations: models.PresentationList{}},
	}

	out, err := CalculateSessionStats(results)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assertFinite(t, out[0])
}

func TestCalculateSessionDuration(t *testing.T) {
	fast := &models.Task{Rows: 2, Columns: 2, StimulusTime: 500, ResponseTime: 500, PauseTime: 100}
	slow := &models.Task{Rows: 3, Columns: 3, StimulusTime: 800, ResponseTime: 700, PauseTime: 250}
	results := []models.TaskResult{
		{
			Task: fast,
			Presentations: models.PresentationList{
				{ResponseTime: 300},
				{ResponseTime: 0}, // miss still consumes the pause
			},
		},
		{
			Task: slow,
			Presentations: models.PresentationList{
				{ResponseTime: 450},
			},
		},
	}

	total, err := CalculateSessionDuration(results)

	require.NoError(t, err)
	assert.Equal(t, (300.0+100)+(0+100)+(450+250), total)
}

func TestCalculateSessionDuration_UnresolvedTask(t *testing.T) {
	results := []models.TaskResult{{TaskID: 7, Presentations: models.PresentationList{}}}

	_, err := CalculateSessionDuration(results)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindMalformedResult, apperrors.KindOf(err))
}

// assertFinite guards the numeric policy: the engine never emits NaN or Inf.
func assertFinite(t *testing.T, s TaskStats) {
	t.Helper()
	for name, v := range map[string]float64{
		"totalResponseTime": s.TotalResponseTime,
		"efficiency":        s.Efficiency,
		"avgResponseTime":   s.AvgResponseTime,
		"finalScore":        s.FinalScore,
		"workload":          s.Workload,
		"entropy":           s.Entropy,
	} {
		assert.Falsef(t, math.IsNaN(v), "%s is NaN", name)
		assert.Falsef(t, math.IsInf(v, 0), "%s is Inf", name)
	}
}
