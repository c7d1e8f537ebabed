package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agropack/artworkflow/backend/config"
	"github.com/agropack/artworkflow/backend/model"
	"github.com/agropack/artworkflow/backend/workflow"
)

// Delivery windows per packing material category, in calendar days from
// assignment. Categories not listed get the default window.
var categoryDeadlineDays = map[string]int{
	"POUCH":         45,
	"MONOCARTON":    45,
	"LABEL":         14,
	"LEAFLET":       14,
	"SHIPPER BOX":   14,
	"SHIPPER LABEL": 14,
	"BOP TAPE":      30,
	"LDPE SHRINK":   30,
	"NECK TIE":      30,
}

const defaultDeadlineDays = 30

var baseVendorDocuments = []string{"Artwork Proof", "Technical Specification"}

var categoryDocuments = map[string][]string{
	"POUCH":      {"Material Certificate", "Pouch Dimensions"},
	"MONOCARTON": {"Carton Specification", "Die-cut Layout"},
	"LABEL":      {"Label Specification", "Adhesive Details"},
	"LEAFLET":    {"Paper Specification", "Folding Layout"},
}

// Vendor file types that also feed the record's own document categories. A
// vendor-submitted file of these types shows up as an uploaded category
// awaiting internal approval.
var vendorFileTypeCategory = map[string]string{
	"CDR":       workflow.CategoryCDR,
	"Packaging": workflow.CategoryPackagingArtwork,
}

// VendorService runs the vendor assignment sub-workflow: directory lookups,
// assignment from the vendor-selection stages, and vendor-scoped file
// submissions.
type VendorService struct {
	store   *RecordStore
	files   *VendorFileStore
	library DocumentLibrary
	catalog *workflow.Catalog
	vendors []model.Vendor
	now     func() time.Time
}

// NewVendorService builds the service with the directory seeded from config.
func NewVendorService(store *RecordStore, files *VendorFileStore, library DocumentLibrary, catalog *workflow.Catalog, seed []config.VendorConfig) *VendorService {
	vendors := make([]model.Vendor, 0, len(seed))
	for _, v := range seed {
		vendors = append(vendors, model.Vendor{
			ID:                      v.ID,
			SupplierName:            v.SupplierName,
			Supplier:                v.Supplier,
			SupplierEmail:           v.SupplierEmail,
			PackingMaterialCategory: v.PackingMaterialCategory,
			ContactPerson:           v.ContactPerson,
			PhoneNumber:             v.PhoneNumber,
			Address:                 v.Address,
		})
	}
	return &VendorService{
		store:   store,
		files:   files,
		library: library,
		catalog: catalog,
		vendors: vendors,
		now:     time.Now,
	}
}

// Vendors returns directory entries, optionally filtered by packing material
// category and a free-text search over name, email and contact person.
func (s *VendorService) Vendors(category, search string) []model.Vendor {
	term := strings.ToLower(strings.TrimSpace(search))
	var out []model.Vendor
	for _, v := range s.vendors {
		if category != "" && !strings.EqualFold(v.PackingMaterialCategory, category) {
			continue
		}
		if term != "" && !vendorMatches(v, term) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func vendorMatches(v model.Vendor, term string) bool {
	return strings.Contains(strings.ToLower(v.SupplierName), term) ||
		strings.Contains(strings.ToLower(v.Supplier), term) ||
		strings.Contains(strings.ToLower(v.SupplierEmail), term) ||
		strings.Contains(strings.ToLower(v.ContactPerson), term)
}

// DeadlineDays returns the delivery window for a packing material category.
func DeadlineDays(category string) int {
	if d, ok := categoryDeadlineDays[strings.ToUpper(strings.TrimSpace(category))]; ok {
		return d
	}
	return defaultDeadlineDays
}

// RequiredDocuments lists the deliverables expected from a vendor for a
// packing material category.
func RequiredDocuments(category string) []string {
	docs := append([]string(nil), baseVendorDocuments...)
	if extra, ok := categoryDocuments[strings.ToUpper(strings.TrimSpace(category))]; ok {
		docs = append(docs, extra...)
	}
	return docs
}

// Assign binds a vendor from the directory to the record. Legal only while the
// record sits on an in-progress vendor-selection stage and the gate admits the
// actor for that stage.
func (s *VendorService) Assign(ctx context.Context, recordID string, vendorID int, actor workflow.Actor) (*model.ArtworkRecord, []model.Event, error) {
	vendor, ok := s.vendorByID(vendorID)
	if !ok {
		return nil, nil, workflow.NewValidation("vendor_id", fmt.Sprintf("no vendor with id %d", vendorID))
	}

	rec, err := s.store.Get(recordID)
	if err != nil {
		return nil, nil, err
	}
	if rec.Completed() {
		return nil, nil, workflow.NewIllegalTransition(rec.CurrentStage, "", "workflow already completed")
	}
	stage, ok := s.catalog.StageAt(rec, rec.CurrentStage)
	if !ok {
		return nil, nil, workflow.NewIllegalTransition(rec.CurrentStage, "", "current stage is outside the active sequence")
	}
	if !stage.VendorSelection {
		return nil, nil, workflow.NewIllegalTransition(rec.CurrentStage, stage.Activity, "vendor assignment is not available from this stage")
	}
	if rec.Runtime(stage.ID).Status != model.StageInProgress {
		return nil, nil, workflow.NewIllegalTransition(rec.CurrentStage, stage.Activity, "stage must be in progress to assign a vendor")
	}
	if !workflow.CanAct(actor, stage) {
		return nil, nil, workflow.NewForbidden(actor.Name, stage.Activity)
	}

	rec.AssignedVendor = &model.VendorAssignment{
		Name:         vendor.SupplierName,
		Email:        vendor.SupplierEmail,
		Category:     vendor.PackingMaterialCategory,
		AssignedDate: s.now(),
	}
	if err := s.store.Save(rec); err != nil {
		return nil, nil, err
	}

	slog.Info("vendor assigned",
		"record_id", rec.ID,
		"vendor", vendor.SupplierName,
		"category", vendor.PackingMaterialCategory,
		"actor", actor.Name,
	)
	events := []model.Event{{
		Type:   model.EventVendorAssigned,
		Stage:  rec.CurrentStage,
		Actor:  actor.Name,
		Detail: vendor.SupplierName + " <" + vendor.SupplierEmail + ">",
	}}
	return rec, events, nil
}

// Deadline computes the record's vendor delivery deadline from the assignment
// date and the assigned category's window. Zero time when no vendor is
// assigned.
func (s *VendorService) Deadline(rec *model.ArtworkRecord) time.Time {
	if rec.AssignedVendor == nil {
		return time.Time{}
	}
	days := DeadlineDays(rec.AssignedVendor.Category)
	return rec.AssignedVendor.AssignedDate.AddDate(0, 0, days)
}

// SubmitFile stores a vendor deliverable and books the submission on the
// record. Only the assigned vendor may submit, matched by email. CDR and
// Packaging submissions additionally surface as uploaded document categories
// pending internal approval.
func (s *VendorService) SubmitFile(ctx context.Context, recordID, supplierEmail, fileType, fileName string, r io.Reader, size int64, contentType string) (*model.VendorFile, []model.Event, error) {
	if strings.TrimSpace(fileType) == "" {
		return nil, nil, workflow.NewValidation("file_type", "file type is required")
	}

	rec, err := s.store.Get(recordID)
	if err != nil {
		return nil, nil, err
	}
	if rec.AssignedVendor == nil {
		return nil, nil, workflow.NewValidation("record", "no vendor is assigned to this record")
	}
	if !strings.EqualFold(rec.AssignedVendor.Email, supplierEmail) {
		return nil, nil, workflow.NewForbidden(supplierEmail, "vendor file submission")
	}

	folder := fmt.Sprintf("VendorFiles/%s/%s/%s", rec.AssignedVendor.Email, rec.ProductName, fileType)
	info, err := s.library.UploadFile(ctx, folder, fileName, r, size, contentType, nil)
	if err != nil {
		return nil, nil, err
	}
	if err := s.library.UpdateFileItem(ctx, folder, fileName, map[string]string{metaDocID: rec.ID}); err != nil {
		return nil, nil, err
	}

	now := s.now()
	vf := model.VendorFile{
		ID:            uuid.NewString(),
		SupplierEmail: rec.AssignedVendor.Email,
		RecordID:      rec.ID,
		ProductName:   rec.ProductName,
		FileName:      fileName,
		FileType:      fileType,
		Status:        model.VendorFileSubmitted,
		FilePath:      info.URL,
		UploadedAt:    now,
	}
	s.files.Add(vf)

	if rec.VendorSubmissions == nil {
		rec.VendorSubmissions = make(map[string]time.Time)
	}
	rec.VendorSubmissions[fileType] = now
	rec.Status = "Under Vendor Review"
	if cat, ok := vendorFileTypeCategory[fileType]; ok {
		if rec.CategoryApproval == nil {
			rec.CategoryApproval = make(map[string]model.CategoryDecision)
		}
		if _, exists := rec.CategoryApproval[cat]; !exists {
			rec.CategoryApproval[cat] = model.CategoryDecision{Status: model.ApprovalPending}
		}
	}
	if err := s.store.Save(rec); err != nil {
		return nil, nil, err
	}

	slog.Info("vendor file submitted",
		"record_id", rec.ID,
		"vendor", rec.AssignedVendor.Email,
		"file_type", fileType,
		"file", fileName,
	)
	events := []model.Event{{
		Type:   model.EventVendorFileSubmitted,
		Actor:  rec.AssignedVendor.Email,
		Detail: fileType + ": " + fileName,
	}}
	return &vf, events, nil
}

// Submissions returns the vendor's submitted files, newest first.
func (s *VendorService) Submissions(supplierEmail string) []model.VendorFile {
	return s.files.ListBySupplier(supplierEmail)
}

// AssignedRecords returns the records currently assigned to the vendor.
func (s *VendorService) AssignedRecords(supplierEmail string) []*model.ArtworkRecord {
	return s.store.ListByVendor(supplierEmail)
}

func (s *VendorService) vendorByID(id int) (model.Vendor, bool) {
	for _, v := range s.vendors {
		if v.ID == id {
			return v, true
		}
	}
	return model.Vendor{}, false
}
