package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/config"
	"github.com/laptev-dv/diploma-backend/internal/models"
	"github.com/laptev-dv/diploma-backend/internal/repository"
	"github.com/laptev-dv/diploma-backend/internal/services"
	"github.com/laptev-dv/diploma-backend/internal/utils"
)

type AuthHandler struct {
	log   *zap.Logger
	email *services.EmailService
}

func NewAuthHandler(log *zap.Logger, email *services.EmailService) *AuthHandler {
	return &AuthHandler{log: log, email: email}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid email address"})
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password does not meet complexity requirements"})
		return
	}

	if _, err := repository.GetUserByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a user with this email already exists"})
		return
	}

	user, err := repository.CreateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.issueToken(c, user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, err := repository.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	// Housekeeping: expired tokens are purged here instead of by a
	// background job.
	if err := repository.PurgeExpiredAuthTokens(c.Request.Context(), time.Now()); err != nil {
		h.log.Warn("Failed to purge expired tokens", zap.Error(err))
	}

	token, err := h.issueToken(c, user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
		return
	}
	if err := repository.DeleteAuthToken(c.Request.Context(), token); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type resetRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	user, err := repository.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		respondError(c, h.log, apperrors.Internal("failed to generate reset token", err))
		return
	}

	resetToken := &models.ResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTTL()),
	}
	if err := repository.ReplaceResetToken(c.Request.Context(), resetToken); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.email.SendResetEmail(user.Email, token)
	c.JSON(http.StatusOK, gin.H{"message": "password reset link sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "token and newPassword are required"})
		return
	}
	if !utils.IsComplexPassword(req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password does not meet complexity requirements"})
		return
	}

	resetToken, err := repository.GetResetToken(c.Request.Context(), req.Token)
	if err != nil || resetToken.Expired(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid or expired reset token"})
		return
	}

	if err := repository.UpdateUserPassword(c.Request.Context(), resetToken.UserID, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := repository.DeleteResetToken(c.Request.Context(), resetToken.ID); err != nil {
		h.log.Warn("Failed to delete used reset token", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}

func (h *AuthHandler) issueToken(c *gin.Context, userID uint) (string, error) {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return "", apperrors.Internal("failed to generate token", err)
	}
	authToken := &models.AuthToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(tokenTTL()),
	}
	if err := repository.CreateAuthToken(c.Request.Context(), authToken); err != nil {
		return "", err
	}
	return token, nil
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func tokenTTL() time.Duration {
	hours := 720
	if config.Conf != nil && config.Conf.Auth.TokenTTLHours > 0 {
		hours = config.Conf.Auth.TokenTTLHours
	}
	return time.Duration(hours) * time.Hour
}

func resetTTL() time.Duration {
	hours := 1
	if config.Conf != nil && config.Conf.Auth.ResetTTLHours > 0 {
		hours = config.Conf.Auth.ResetTTLHours
	}
	return time.Duration(hours) * time.Hour
}
