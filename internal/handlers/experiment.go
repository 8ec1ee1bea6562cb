package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/models"
	"github.com/laptev-dv/diploma-backend/internal/repository"
)

type ExperimentHandler struct {
	log *zap.Logger
}

func NewExperimentHandler(log *zap.Logger) *ExperimentHandler {
	return &ExperimentHandler{log: log}
}

type experimentRequest struct {
	Name                 string                `json:"name"`
	Mode                 models.ExperimentMode `json:"mode"`
	EfficiencyMin        *float64              `json:"efficiencyMin"`
	EfficiencyMax        *float64              `json:"efficiencyMax"`
	InitialTaskNumber    *int                  `json:"initialTaskNumber"`
	SeriesTime           *float64              `json:"seriesTime"`
	PresentationsPerTask int                   `json:"presentationsPerTask"`
}

func (h *ExperimentHandler) Create(c *gin.Context) {
	var req experimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid experiment payload"})
		return
	}

	experiment := &models.Experiment{
		Name:                 req.Name,
		AuthorID:             callerID(c),
		Mode:                 req.Mode,
		EfficiencyMin:        req.EfficiencyMin,
		EfficiencyMax:        req.EfficiencyMax,
		InitialTaskNumber:    req.InitialTaskNumber,
		SeriesTime:           req.SeriesTime,
		PresentationsPerTask: req.PresentationsPerTask,
	}
	if err := experiment.Validate(); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := repository.CreateExperiment(c.Request.Context(), experiment); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, experiment)
}

// List returns all experiments; ?author=<id> filters by author.
func (h *ExperimentHandler) List(c *gin.Context) {
	var authorID *uint
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid author filter"})
			return
		}
		uid := uint(id)
		authorID = &uid
	}

	experiments, err := repository.ListExperiments(c.Request.Context(), authorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, experiments)
}

// Get is public: experiments are readable by anyone.
func (h *ExperimentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	experiment, err := repository.GetExperimentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, experiment)
}

func (h *ExperimentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	experiment, err := repository.GetExperimentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if experiment.AuthorID != callerID(c) {
		respondError(c, h.log, apperrors.Forbidden("only the author can modify the experiment"))
		return
	}

	var req experimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid experiment payload"})
		return
	}

	experiment.Name = req.Name
	experiment.Mode = req.Mode
	experiment.EfficiencyMin = req.EfficiencyMin
	experiment.EfficiencyMax = req.EfficiencyMax
	experiment.InitialTaskNumber = req.InitialTaskNumber
	experiment.SeriesTime = req.SeriesTime
	experiment.PresentationsPerTask = req.PresentationsPerTask
	if err := experiment.Validate(); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := repository.UpdateExperiment(c.Request.Context(), experiment); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, experiment)
}

func (h *ExperimentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	experiment, err := repository.GetExperimentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if experiment.AuthorID != callerID(c) {
		respondError(c, h.log, apperrors.Forbidden("only the author can delete the experiment"))
		return
	}

	if err := repository.DeleteExperiment(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("Experiment deleted", zap.Uint("experimentID", id))
	c.JSON(http.StatusOK, gin.H{"message": "experiment deleted"})
}
