package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agropack/artworkflow/backend/middleware"
	"github.com/agropack/artworkflow/backend/service"
	"github.com/agropack/artworkflow/backend/workflow"
)

// writeError maps domain errors onto HTTP statuses. Precondition violations
// and lost races are both 409 so clients refetch and re-issue intent; a
// partial apply is a 500 naming the failed step so the retry endpoint can be
// offered.
func writeError(c *gin.Context, err error) {
	var (
		illegal   *workflow.IllegalTransitionError
		forbidden *workflow.ForbiddenError
		invalid   *workflow.ValidationError
		conflict  *workflow.ConflictError
		partial   *workflow.PartialApplyError
		transient *workflow.TransientStorageError
	)
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": forbidden.Error()})
	case errors.As(err, &illegal):
		c.JSON(http.StatusConflict, gin.H{"error": illegal.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &partial):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":       partial.Error(),
			"category":    partial.Category,
			"failed_step": partial.Step,
		})
	case errors.As(err, &transient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": transient.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// actorFrom builds the permission-gate actor from the authenticated request.
func actorFrom(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		Name:  middleware.GetUsername(c),
		Roles: middleware.GetGroups(c),
	}
}
