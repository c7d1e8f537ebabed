package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agropack/artworkflow/backend/service"
	"github.com/agropack/artworkflow/backend/workflow"
)

// DocumentHandler serves category document upload, listing and downloads.
type DocumentHandler struct {
	library   service.DocumentLibrary
	approvals *service.ApprovalService
}

func NewDocumentHandler(library service.DocumentLibrary, approvals *service.ApprovalService) *DocumentHandler {
	return &DocumentHandler{library: library, approvals: approvals}
}

// Upload stores a document for a record under its category folder and books
// the upload into the workflow.
func (h *DocumentHandler) Upload(c *gin.Context) {
	// Get file from form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	rec, info, events, err := h.approvals.UploadDocument(
		c.Request.Context(),
		c.Param("id"),
		c.Param("category"),
		actorFrom(c),
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": rec, "file": info, "events": events})
}

// List returns the record's files in one category.
func (h *DocumentHandler) List(c *gin.Context) {
	cat, ok := workflow.LookupCategory(c.Param("category"))
	if !ok {
		writeError(c, workflow.NewValidation("category", "unknown document category "+c.Param("category")))
		return
	}

	files, err := h.library.ListFiles(c.Request.Context(), cat.Folder, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files, "total": len(files)})
}

// Download returns a presigned URL for one file.
func (h *DocumentHandler) Download(c *gin.Context) {
	cat, ok := workflow.LookupCategory(c.Param("category"))
	if !ok {
		writeError(c, workflow.NewValidation("category", "unknown document category "+c.Param("category")))
		return
	}

	name := c.Query("name")
	if name == "" {
		writeError(c, workflow.NewValidation("name", "file name is required"))
		return
	}

	url, err := h.library.PresignedURL(c.Request.Context(), cat.Folder, name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
