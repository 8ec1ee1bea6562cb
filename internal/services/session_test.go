package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/database"
	"github.com/laptev-dv/diploma-backend/internal/models"
	"github.com/laptev-dv/diploma-backend/internal/repository"
)

type fixtures struct {
	author      *models.User
	participant *models.User
	stranger    *models.User
	experiment  *models.Experiment
	tasks       []models.Task
}

// setupFixtures provisions an author with a two-task experiment, a
// participant and an unrelated third user.
func setupFixtures(t *testing.T) fixtures {
	t.Helper()
	database.SetupTestDB(t)
	ctx := context.Background()

	author, err := repository.CreateUser(ctx, "author@example.com", "Secret-123")
	require.NoError(t, err)
	participant, err := repository.CreateUser(ctx, "participant@example.com", "Secret-123")
	require.NoError(t, err)
	stranger, err := repository.CreateUser(ctx, "stranger@example.com", "Secret-123")
	require.NoError(t, err)

	experiment := &models.Experiment{
		Name:                 "visual search baseline",
		AuthorID:             author.ID,
		Mode:                 models.ModeStrict,
		PresentationsPerTask: 2,
	}
	require.NoError(t, repository.CreateExperiment(ctx, experiment))

	taskParams := []models.Task{
		{Name: "3x3", Rows: 3, Columns: 3, SymbolHeight: 20, SymbolWidth: 20, StimulusTime: 500, ResponseTime: 1000, PauseTime: 200},
		{Name: "5x5", Rows: 5, Columns: 5, SymbolHeight: 16, SymbolWidth: 16, StimulusTime: 400, ResponseTime: 800, PauseTime: 150},
	}
	tasks := make([]models.Task, 0, len(taskParams))
	for i := range taskParams {
		require.NoError(t, repository.AddTask(ctx, experiment.ID, &taskParams[i]))
		tasks = append(tasks, taskParams[i])
	}

	experiment, err = repository.GetExperimentByID(ctx, experiment.ID)
	require.NoError(t, err)

	return fixtures{
		author:      author,
		participant: participant,
		stranger:    stranger,
		experiment:  experiment,
		tasks:       tasks,
	}
}

func submittedResults(f fixtures) []SubmittedResult {
	return []SubmittedResult{
		{
			TaskID: f.tasks[0].ID,
			Presentations: []models.Presentation{
				{ResponseTime: 300, CorrectAnswer: models.GridCell{Row: 1, Column: 1}, UserAnswer: models.GridCell{Row: 1, Column: 1}},
				{ResponseTime: 400, CorrectAnswer: models.GridCell{Row: 2, Column: 2}, UserAnswer: models.GridCell{Row: 2, Column: 2}},
			},
		},
		{
			TaskID: f.tasks[1].ID,
			Presentations: []models.Presentation{
				{ResponseTime: 500, CorrectAnswer: models.GridCell{Row: 3, Column: 3}, UserAnswer: models.GridCell{Row: 1, Column: 3}},
				{CorrectAnswer: models.GridCell{Row: 4, Column: 4}},
			},
		},
	}
}

func TestSessionCreateAndRoundTrip(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())
	ctx := context.Background()

	session, err := svc.Create(ctx, f.experiment.ID, f.participant.ID, submittedResults(f))
	require.NoError(t, err)
	require.NotZero(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	require.Len(t, session.Results, 2)

	detail, err := svc.GetByID(ctx, session.ID, f.participant.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsMine)
	require.Len(t, detail.Results, 2)

	// Raw results survive the round trip in submitted order.
	submitted := submittedResults(f)
	for i, r := range detail.Results {
		require.NotNil(t, r.Task)
		assert.Equal(t, submitted[i].TaskID, r.Task.ID)
		assert.Equal(t, models.PresentationList(submitted[i].Presentations), r.Presentations)
	}

	// First task: both successes.
	first := detail.Results[0].Stats
	assert.Equal(t, 2, first.SuccessCount)
	assert.Equal(t, 1.0, first.Efficiency)
	assert.InDelta(t, 1.0*(1-350.0/1500.0), first.FinalScore, 1e-9)

	// Second task: one error, one miss.
	second := detail.Results[1].Stats
	assert.Equal(t, 0, second.SuccessCount)
	assert.Equal(t, 1, second.ErrorCount)
	assert.Equal(t, 1, second.MissCount)

	// totalDuration sums response and pause times across all presentations.
	assert.InDelta(t, (300+200)+(400+200)+(500+150)+(0+150), detail.TotalDuration, 1e-9)

	// Fetching twice recomputes identical metrics.
	again, err := svc.GetByID(ctx, session.ID, f.participant.ID)
	require.NoError(t, err)
	assert.Equal(t, detail.Results, again.Results)
	assert.Equal(t, detail.TotalDuration, again.TotalDuration)
}

func TestSessionCreate_ExperimentNotFound(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())

	_, err := svc.Create(context.Background(), f.experiment.ID+999, f.participant.ID, submittedResults(f))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSessionCreate_InvalidTaskReference(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())
	ctx := context.Background()

	results := submittedResults(f)
	bogusID := f.tasks[1].ID + 1000
	results[1].TaskID = bogusID

	_, err := svc.Create(ctx, f.experiment.ID, f.participant.ID, results)

	require.Error(t, err)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInvalidReference, appErr.Kind)
	assert.Contains(t, appErr.TaskIDs, bogusID)

	// The whole batch is rejected: nothing was written.
	var sessionCount, resultCount int64
	require.NoError(t, database.DB.Model(&models.Session{}).Count(&sessionCount).Error)
	require.NoError(t, database.DB.Model(&models.TaskResult{}).Count(&resultCount).Error)
	assert.Zero(t, sessionCount)
	assert.Zero(t, resultCount)
}

func TestSessionCreate_PresentationCountMismatch(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())

	results := submittedResults(f)
	results[0].Presentations = results[0].Presentations[:1] // experiment requires 2

	_, err := svc.Create(context.Background(), f.experiment.ID, f.participant.ID, results)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	var sessionCount int64
	require.NoError(t, database.DB.Model(&models.Session{}).Count(&sessionCount).Error)
	assert.Zero(t, sessionCount)
}

func TestSessionGet_AuthorizationRules(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())
	ctx := context.Background()

	session, err := svc.Create(ctx, f.experiment.ID, f.participant.ID, submittedResults(f))
	require.NoError(t, err)

	// The experiment's author may read, but the session is not theirs.
	detail, err := svc.GetByID(ctx, session.ID, f.author.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsMine)

	// An unrelated user is rejected.
	_, err = svc.GetByID(ctx, session.ID, f.stranger.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = svc.GetByID(ctx, session.ID+999, f.participant.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSessionDelete(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())
	ctx := context.Background()

	session, err := svc.Create(ctx, f.experiment.ID, f.participant.ID, submittedResults(f))
	require.NoError(t, err)

	// A stranger cannot delete; the session stays intact.
	err = svc.Delete(ctx, session.ID, f.stranger.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = svc.GetByID(ctx, session.ID, f.participant.ID)
	require.NoError(t, err)

	// The participant can, and results are removed with it.
	require.NoError(t, svc.Delete(ctx, session.ID, f.participant.ID))

	_, err = svc.GetByID(ctx, session.ID, f.participant.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	var resultCount int64
	require.NoError(t, database.DB.Model(&models.TaskResult{}).Count(&resultCount).Error)
	assert.Zero(t, resultCount)
}

func TestSessionDelete_ByExperimentAuthor(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())
	ctx := context.Background()

	session, err := svc.Create(ctx, f.experiment.ID, f.participant.ID, submittedResults(f))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, session.ID, f.author.ID))
}

func TestSessionListByExperiment(t *testing.T) {
	f := setupFixtures(t)
	svc := NewSessionService(zap.NewNop())
	ctx := context.Background()

	mine, err := svc.Create(ctx, f.experiment.ID, f.participant.ID, submittedResults(f))
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, f.experiment.ID, f.stranger.ID, submittedResults(f))
	require.NoError(t, err)

	summaries, err := svc.ListByExperiment(ctx, f.experiment.ID, f.participant.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := make(map[uint]SessionSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.True(t, byID[mine.ID].IsMine)
	assert.False(t, byID[theirs.ID].IsMine)

	// Listing is a summary view: no result payloads are loaded.
	for _, s := range summaries {
		assert.Empty(t, s.Results)
	}

	_, err = svc.ListByExperiment(ctx, f.experiment.ID+999, f.participant.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
