package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agropack/artworkflow/backend/service"
)

// ApprovalHandler serves category approval decisions.
type ApprovalHandler struct {
	approvals *service.ApprovalService
}

func NewApprovalHandler(approvals *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

type DecideRequest struct {
	Decision string `json:"decision" binding:"required"`
	Remark   string `json:"remark"`
}

// Decide records an Approved/Rejected decision for one document category.
func (h *ApprovalHandler) Decide(c *gin.Context) {
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rec, events, err := h.approvals.Decide(
		c.Request.Context(),
		c.Param("id"),
		c.Param("category"),
		req.Decision,
		actorFrom(c),
		req.Remark,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "events": events})
}

// Retry re-runs the file metadata step of a partially applied decision.
func (h *ApprovalHandler) Retry(c *gin.Context) {
	rec, err := h.approvals.RetryFileMetadata(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec})
}
