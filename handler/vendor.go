package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agropack/artworkflow/backend/middleware"
	"github.com/agropack/artworkflow/backend/service"
)

// VendorHandler serves the vendor directory, vendor assignment and the
// vendor-facing submission endpoints.
type VendorHandler struct {
	vendors *service.VendorService
}

func NewVendorHandler(vendors *service.VendorService) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

// List returns directory entries, filterable by category and free text.
func (h *VendorHandler) List(c *gin.Context) {
	vendors := h.vendors.Vendors(c.Query("category"), c.Query("search"))
	c.JSON(http.StatusOK, gin.H{"vendors": vendors, "total": len(vendors)})
}

// Requirements returns the delivery window and expected deliverables for a
// packing material category.
func (h *VendorHandler) Requirements(c *gin.Context) {
	category := c.Param("category")
	c.JSON(http.StatusOK, gin.H{
		"category":           category,
		"deadline_days":      service.DeadlineDays(category),
		"required_documents": service.RequiredDocuments(category),
	})
}

type AssignRequest struct {
	VendorID int `json:"vendor_id" binding:"required"`
}

// Assign binds a directory vendor to the record.
func (h *VendorHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rec, events, err := h.vendors.Assign(c.Request.Context(), c.Param("id"), req.VendorID, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "events": events})
}

// AssignedRecords returns the calling vendor's assigned records with their
// deadlines and expected deliverables.
func (h *VendorHandler) AssignedRecords(c *gin.Context) {
	email := middleware.GetUsername(c)
	records := h.vendors.AssignedRecords(email)

	out := make([]gin.H, 0, len(records))
	for _, rec := range records {
		entry := gin.H{"record": rec}
		if rec.AssignedVendor != nil {
			entry["deadline"] = h.vendors.Deadline(rec).Format("2006-01-02")
			entry["required_documents"] = service.RequiredDocuments(rec.AssignedVendor.Category)
			entry["deadline_days"] = service.DeadlineDays(rec.AssignedVendor.Category)
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"records": out, "total": len(out)})
}

// SubmitFile stores a deliverable from the calling vendor for one record.
func (h *VendorHandler) SubmitFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	vf, events, err := h.vendors.SubmitFile(
		c.Request.Context(),
		c.Param("id"),
		middleware.GetUsername(c),
		c.Param("fileType"),
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": vf, "events": events})
}

// Submissions returns the calling vendor's submitted files, newest first.
func (h *VendorHandler) Submissions(c *gin.Context) {
	files := h.vendors.Submissions(middleware.GetUsername(c))
	c.JSON(http.StatusOK, gin.H{"files": files, "total": len(files)})
}
