package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agropack/artworkflow/backend/workflow"
)

// WorkflowHandler serves stage transitions.
type WorkflowHandler struct {
	engine *workflow.Engine
}

func NewWorkflowHandler(engine *workflow.Engine) *WorkflowHandler {
	return &WorkflowHandler{engine: engine}
}

type RejectRequest struct {
	Remark string `json:"remark" binding:"required"`
}

// Start opens the record's current stage.
func (h *WorkflowHandler) Start(c *gin.Context) {
	pos, ok := stagePos(c)
	if !ok {
		return
	}
	rec, events, err := h.engine.Start(c.Request.Context(), c.Param("id"), pos, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "events": events})
}

// Approve completes the record's current stage and advances it.
func (h *WorkflowHandler) Approve(c *gin.Context) {
	pos, ok := stagePos(c)
	if !ok {
		return
	}
	rec, events, err := h.engine.Approve(c.Request.Context(), c.Param("id"), pos, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "events": events})
}

// Reject fails the record's current stage and rolls the record back for
// rework. A remark is mandatory.
func (h *WorkflowHandler) Reject(c *gin.Context) {
	pos, ok := stagePos(c)
	if !ok {
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, workflow.NewValidation("remark", "a remark is required when rejecting a stage"))
		return
	}
	rec, events, err := h.engine.Reject(c.Request.Context(), c.Param("id"), pos, actorFrom(c), req.Remark)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "events": events})
}

func stagePos(c *gin.Context) (int, bool) {
	pos, err := strconv.Atoi(c.Param("pos"))
	if err != nil {
		writeError(c, workflow.NewValidation("pos", "stage position must be an integer"))
		return 0, false
	}
	return pos, true
}
