package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/models"
	"github.com/laptev-dv/diploma-backend/internal/repository"
)

type TaskHandler struct {
	log *zap.Logger
}

func NewTaskHandler(log *zap.Logger) *TaskHandler {
	return &TaskHandler{log: log}
}

// Create adds a task to an experiment. Author-only. There is deliberately
// no update counterpart: a task edit would rewrite the statistics of every
// session that already references it.
func (h *TaskHandler) Create(c *gin.Context) {
	experimentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	experiment, err := repository.GetExperimentByID(c.Request.Context(), experimentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if experiment.AuthorID != callerID(c) {
		respondError(c, h.log, apperrors.Forbidden("only the author can add tasks"))
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid task payload"})
		return
	}
	task.ID = 0
	if err := task.Validate(); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := repository.AddTask(c.Request.Context(), experimentID, &task); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) ListByExperiment(c *gin.Context) {
	experimentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := repository.GetExperimentByID(c.Request.Context(), experimentID); err != nil {
		respondError(c, h.log, err)
		return
	}
	tasks, err := repository.ListTasksByExperiment(c.Request.Context(), experimentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
