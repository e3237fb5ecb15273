package api

import (
	"encoding/binary"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"trustocracy/backend/internal/auth"
	"trustocracy/backend/internal/constants"
	apperrors "trustocracy/backend/pkg/errors"
)

// fail maps an error to a status: validation is the caller's fault, auth
// means log in again, anything else is ours.
func (h *Handler) fail(c *gin.Context, action string, err error) {
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please log in"})
	default:
		h.log.Error("Failed to "+action,
			zap.String("request_id", c.GetString(constants.RequestIDHeader)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// idParam parses a positive integer path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// currentUser reads the id set by the auth middleware.
func currentUser(c *gin.Context) (int64, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please log in"})
	}
	return id, ok
}

// newID returns a random positive id that fits in 53 bits, so browsers can
// hold it as a number.
func newID() int64 {
	u := uuid.New()
	id := int64(binary.BigEndian.Uint64(u[:8]) >> 11)
	if id == 0 {
		return 1
	}
	return id
}
