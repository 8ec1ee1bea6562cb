package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
)

// UserIDKey is the context key under which the auth middleware stores the
// resolved caller identity.
const UserIDKey = "userID"

// callerID extracts the authenticated user's ID from the context.
func callerID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}

// pathID parses a numeric :id style path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondError maps an error onto its HTTP status and JSON body. Internal
// failures are logged here so handlers don't have to.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal("unexpected error", err)
	}

	if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindMalformedResult {
		log.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	body := gin.H{"message": appErr.Message}
	if len(appErr.TaskIDs) > 0 {
		body["taskIds"] = appErr.TaskIDs
	}
	c.JSON(appErr.HTTPStatus(), body)
}
