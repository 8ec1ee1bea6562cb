package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/repository"
	"github.com/laptev-dv/diploma-backend/internal/utils"
)

type UserHandler struct {
	log *zap.Logger
}

func NewUserHandler(log *zap.Logger) *UserHandler {
	return &UserHandler{log: log}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := repository.GetUserByID(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "currentPassword and newPassword are required"})
		return
	}

	user, err := repository.GetUserByID(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !user.CheckPassword(req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "current password is incorrect"})
		return
	}
	if !utils.IsComplexPassword(req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password does not meet complexity requirements"})
		return
	}

	if err := repository.UpdateUserPassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := callerID(c)
	if err := repository.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("Account deleted", zap.Uint("userID", userID))
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
