package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/models"
	"github.com/laptev-dv/diploma-backend/internal/repository"
	"github.com/laptev-dv/diploma-backend/internal/stats"
)

// SessionService owns the session lifecycle: creation with referential
// validation, authorized reads decorated with computed statistics, and
// deletion.
type SessionService struct {
	log *zap.Logger
}

func NewSessionService(log *zap.Logger) *SessionService {
	return &SessionService{log: log}
}

// SubmittedResult is one task's worth of raw response data as submitted
// by the client.
type SubmittedResult struct {
	TaskID        uint                  `json:"taskId"`
	Presentations []models.Presentation `json:"presentations"`
}

// ScoredResult pairs a stored task result with its derived metrics.
type ScoredResult struct {
	ID            uint                    `json:"id"`
	Task          *models.Task            `json:"task"`
	Presentations models.PresentationList `json:"presentations"`
	Stats         stats.TaskStats         `json:"stats"`
}

// SessionDetail is the full session view returned by GetByID.
type SessionDetail struct {
	*models.Session
	Results       []ScoredResult `json:"results"`
	TotalDuration float64        `json:"totalDuration"`
	IsMine        bool           `json:"isMine"`
}

// SessionSummary is the list view: no statistics, just identity and an
// ownership flag.
type SessionSummary struct {
	*models.Session
	IsMine bool `json:"isMine"`
}

// Create validates a submission against its experiment and persists the
// session. The whole batch is rejected if any submitted task is not part
// of the experiment or carries the wrong number of presentations; nothing
// is written in that case.
func (s *SessionService) Create(ctx context.Context, experimentID, userID uint, results []SubmittedResult) (*models.Session, error) {
	experiment, err := repository.GetExperimentByID(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	var invalid []uint
	for _, r := range results {
		if !experiment.HasTask(r.TaskID) {
			invalid = append(invalid, r.TaskID)
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.InvalidReference("submitted tasks do not belong to the experiment", invalid)
	}

	for _, r := range results {
		if len(r.Presentations) != experiment.PresentationsPerTask {
			return nil, apperrors.Validation(fmt.Sprintf(
				"task %d has %d presentations, experiment requires %d",
				r.TaskID, len(r.Presentations), experiment.PresentationsPerTask))
		}
	}

	session := &models.Session{
		ExperimentID: experimentID,
		UserID:       userID,
		Results:      make([]models.TaskResult, 0, len(results)),
	}
	for i, r := range results {
		presentations := r.Presentations
		if presentations == nil {
			presentations = models.PresentationList{}
		}
		session.Results = append(session.Results, models.TaskResult{
			TaskID:        r.TaskID,
			Position:      i,
			Presentations: presentations,
		})
	}

	if err := repository.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	s.log.Info("Session created",
		zap.Uint("sessionID", session.ID),
		zap.Uint("experimentID", experimentID),
		zap.Uint("userID", userID),
		zap.Int("results", len(session.Results)),
	)
	return session, nil
}

// GetByID returns the session with recomputed statistics. The caller must
// be the participant or the experiment's author.
func (s *SessionService) GetByID(ctx context.Context, sessionID, callerID uint) (*SessionDetail, error) {
	session, err := repository.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSessionAccess(session, callerID); err != nil {
		return nil, err
	}

	taskStats, err := stats.CalculateSessionStats(session.Results)
	if err != nil {
		return nil, err
	}
	totalDuration, err := stats.CalculateSessionDuration(session.Results)
	if err != nil {
		return nil, err
	}

	detail := &SessionDetail{
		Session:       session,
		Results:       make([]ScoredResult, 0, len(session.Results)),
		TotalDuration: totalDuration,
		IsMine:        session.UserID == callerID,
	}
	for i, r := range session.Results {
		detail.Results = append(detail.Results, ScoredResult{
			ID:            r.ID,
			Task:          r.Task,
			Presentations: r.Presentations,
			Stats:         taskStats[i],
		})
	}
	// Hide the raw result rows behind the scored view.
	detail.Session.Results = nil
	return detail, nil
}

// ListByExperiment returns session summaries with ownership flags. No
// statistics are computed here; detail is paid for on single-item fetch.
func (s *SessionService) ListByExperiment(ctx context.Context, experimentID, callerID uint) ([]SessionSummary, error) {
	if _, err := repository.GetExperimentByID(ctx, experimentID); err != nil {
		return nil, err
	}
	sessions, err := repository.ListSessionsByExperiment(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	summaries := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, SessionSummary{
			Session: &sessions[i],
			IsMine:  sessions[i].UserID == callerID,
		})
	}
	return summaries, nil
}

// Delete removes a session. Authorization matches GetByID.
func (s *SessionService) Delete(ctx context.Context, sessionID, callerID uint) error {
	session, err := repository.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := authorizeSessionAccess(session, callerID); err != nil {
		return err
	}
	if err := repository.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info("Session deleted",
		zap.Uint("sessionID", sessionID),
		zap.Uint("callerID", callerID),
	)
	return nil
}

// authorizeSessionAccess allows the participant and the experiment's
// author, nobody else.
func authorizeSessionAccess(session *models.Session, callerID uint) error {
	if session.UserID == callerID {
		return nil
	}
	if session.Experiment != nil && session.Experiment.AuthorID == callerID {
		return nil
	}
	return apperrors.Forbidden("no access to this session")
}
