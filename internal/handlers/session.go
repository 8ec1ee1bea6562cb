package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/services"
)

type SessionHandler struct {
	log      *zap.Logger
	sessions *services.SessionService
}

func NewSessionHandler(log *zap.Logger, sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{log: log, sessions: sessions}
}

type createSessionRequest struct {
	ExperimentID uint                       `json:"experimentId" binding:"required"`
	Results      []services.SubmittedResult `json:"results" binding:"required"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "experimentId and results are required"})
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), req.ExperimentID, callerID(c), req.Results)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.sessions.GetByID(c.Request.Context(), id, callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *SessionHandler) ListByExperiment(c *gin.Context) {
	experimentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	summaries, err := h.sessions.ListByExperiment(c.Request.Context(), experimentID, callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), id, callerID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}
