package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agropack/artworkflow/backend/model"
	"github.com/agropack/artworkflow/backend/service"
	"github.com/agropack/artworkflow/backend/workflow"
)

// RecordHandler serves artwork record intake, listing, projections and field
// editing.
type RecordHandler struct {
	store   *service.RecordStore
	catalog *workflow.Catalog
	now     func() time.Time
}

func NewRecordHandler(store *service.RecordStore, catalog *workflow.Catalog) *RecordHandler {
	return &RecordHandler{store: store, catalog: catalog, now: time.Now}
}

type CreateRecordRequest struct {
	ProductName          string `json:"product_name" binding:"required"`
	RegistrationType     string `json:"registration_type"`
	RegistrationCategory string `json:"registration_category"`
	ProductType          string `json:"product_type"`
	RCNumber             string `json:"rc_number"`
	AgendaNo             string `json:"agenda_no"`
	FactoryAddress       string `json:"factory_address"`
	CIBCertificateNo     string `json:"cib_certificate_no"`
}

// Create registers a new product into the pipeline at the first stage.
func (h *RecordHandler) Create(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rec := &model.ArtworkRecord{
		ID:                   uuid.NewString(),
		ProductName:          req.ProductName,
		RegistrationType:     req.RegistrationType,
		RegistrationCategory: req.RegistrationCategory,
		ProductType:          req.ProductType,
		RCNumber:             req.RCNumber,
		AgendaNo:             req.AgendaNo,
		FactoryAddress:       req.FactoryAddress,
		CIBCertificateNo:     req.CIBCertificateNo,
		CurrentStage:         1,
		Status:               "Pending",
		CategoryApproval:     make(map[string]model.CategoryDecision),
	}
	h.store.Create(rec)

	c.JSON(http.StatusCreated, h.project(rec))
}

// List returns all records, newest first.
func (h *RecordHandler) List(c *gin.Context) {
	records := h.store.List()
	out := make([]gin.H, 0, len(records))
	for _, rec := range records {
		out = append(out, h.project(rec))
	}
	c.JSON(http.StatusOK, gin.H{"records": out, "total": len(out)})
}

// Get returns one record's full projection: the active stage sequence with
// per-stage runtime, SLA progress and escalation contacts.
func (h *RecordHandler) Get(c *gin.Context) {
	rec, err := h.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.project(rec))
}

type UpdateRecordRequest struct {
	BrandName       *string `json:"brand_name"`
	FGCode          *string `json:"fg_code"`
	BOM             *string `json:"bom"`
	MOP             *string `json:"mop"`
	FactoryAddress  *string `json:"factory_address"`
	AgendaNo        *string `json:"agenda_no"`
	CertificateDate *string `json:"certificate_date"`
}

// Update edits record fields. Editing is stricter than stage actions: it is
// allowed only while the record sits at a stage the caller may act on and the
// workflow is not finished.
func (h *RecordHandler) Update(c *gin.Context) {
	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rec, err := h.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	actor := actorFrom(c)
	stage, ok := h.catalog.StageAt(rec, rec.CurrentStage)
	if !ok {
		writeError(c, workflow.NewIllegalTransition(rec.CurrentStage, "", "completed record is read-only"))
		return
	}
	if !workflow.CanEdit(actor, rec, stage) {
		writeError(c, workflow.NewForbidden(actor.Name, "record editing"))
		return
	}

	if req.BrandName != nil {
		rec.BrandName = *req.BrandName
	}
	if req.FGCode != nil {
		rec.FGCode = *req.FGCode
	}
	if req.BOM != nil {
		rec.BOM = *req.BOM
	}
	if req.MOP != nil {
		rec.MOP = *req.MOP
	}
	if req.FactoryAddress != nil {
		rec.FactoryAddress = *req.FactoryAddress
	}
	if req.AgendaNo != nil {
		rec.AgendaNo = *req.AgendaNo
	}
	if req.CertificateDate != nil {
		t, perr := time.Parse("2006-01-02", *req.CertificateDate)
		if perr != nil {
			writeError(c, workflow.NewValidation("certificate_date", "must be YYYY-MM-DD"))
			return
		}
		rec.CertificateDate = &t
	}

	if err := h.store.Save(rec); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.project(rec))
}

// Stats summarizes the pipeline for dashboards.
func (h *RecordHandler) Stats(c *gin.Context) {
	now := h.now()
	var total, completed, inProgress, pending, overdue int
	for _, rec := range h.store.List() {
		total++
		if rec.Completed() {
			completed++
			continue
		}
		stage, ok := h.catalog.StageAt(rec, rec.CurrentStage)
		if !ok {
			continue
		}
		rt := rec.Runtime(stage.ID)
		switch rt.Status {
		case model.StageInProgress:
			inProgress++
			if workflow.Classify(rt, stage.SLA, now) == workflow.SLAOverdue {
				overdue++
			}
		default:
			pending++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"total":       total,
		"completed":   completed,
		"in_progress": inProgress,
		"pending":     pending,
		"overdue":     overdue,
	})
}

// Stages returns the full stage catalogue for reference screens.
func (h *RecordHandler) Stages(c *gin.Context) {
	stages := h.catalog.Definitions()
	out := make([]gin.H, 0, len(stages))
	for _, s := range stages {
		out = append(out, gin.H{
			"id":                    s.ID,
			"activity":              s.Activity,
			"task_description":      s.TaskDescription,
			"department":            s.Department,
			"responsible_person":    s.ResponsiblePerson,
			"sla":                   s.SLA.Raw,
			"first_escalation":      s.FirstEscalation,
			"reminder_notification": s.ReminderNotification,
			"vendor_selection":      s.VendorSelection,
		})
	}
	c.JSON(http.StatusOK, gin.H{"stages": out})
}

// Categories returns the document category catalogue.
func (h *RecordHandler) Categories(c *gin.Context) {
	cats := workflow.Categories()
	out := make([]gin.H, 0, len(cats))
	for _, cat := range cats {
		out = append(out, gin.H{
			"name":   cat.Name,
			"label":  cat.Label,
			"folder": cat.Folder,
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// project builds the record's read model: the record itself plus its active
// stage sequence decorated with runtime state and SLA standing. A stage whose
// allotted time has fully elapsed is displayed as Escalated with its
// escalation contact; the stored runtime status is untouched.
func (h *RecordHandler) project(rec *model.ArtworkRecord) gin.H {
	now := h.now()
	active := h.catalog.ActiveStages(rec)
	stages := make([]gin.H, 0, len(active))
	for i, s := range active {
		pos := i + 1
		rt := rec.Runtime(s.ID)

		status := rt.Status
		escalation := ""
		class := workflow.Classify(rt, s.SLA, now)
		if class == workflow.SLAOverdue && rt.Status == model.StageInProgress {
			status = model.StageEscalated
			escalation = s.FirstEscalation
		}

		stages = append(stages, gin.H{
			"position":           pos,
			"id":                 s.ID,
			"activity":           s.Activity,
			"department":         s.Department,
			"responsible_person": s.ResponsiblePerson,
			"sla":                s.SLA.Raw,
			"vendor_selection":   s.VendorSelection,
			"current":            pos == rec.CurrentStage,
			"status":             status,
			"start_date":         rt.StartDate,
			"completed_date":     rt.CompletedDate,
			"remark":             rt.Remark,
			"sla_progress":       workflow.Progress(rt, s.SLA, now),
			"sla_class":          class,
			"escalation_contact": escalation,
		})
	}
	return gin.H{"record": rec, "stages": stages}
}
