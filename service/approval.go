package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/agropack/artworkflow/backend/model"
	"github.com/agropack/artworkflow/backend/workflow"
)

// ApprovalService applies Approve/Reject decisions for document categories.
// A decision is two sub-writes: the record first, then the file's own
// metadata. The order makes a partial failure detectable and repairable.
type ApprovalService struct {
	store   *RecordStore
	library DocumentLibrary
	engine  *workflow.Engine
	now     func() time.Time
}

// NewApprovalService wires the decision processor.
func NewApprovalService(store *RecordStore, library DocumentLibrary, engine *workflow.Engine) *ApprovalService {
	return &ApprovalService{store: store, library: library, engine: engine, now: time.Now}
}

// Decide records an approval decision for one category. Rejections require a
// remark. When the file metadata write fails after the record write committed,
// the caller gets a PartialApplyError and the record keeps a repair marker so
// only the file step needs retrying.
func (s *ApprovalService) Decide(ctx context.Context, recordID, categoryName, decision string, actor workflow.Actor, remark string) (*model.ArtworkRecord, []model.Event, error) {
	cat, ok := workflow.LookupCategory(categoryName)
	if !ok {
		return nil, nil, workflow.NewValidation("category", "unknown document category "+categoryName)
	}
	if decision != model.ApprovalApproved && decision != model.ApprovalRejected {
		return nil, nil, workflow.NewValidation("decision", "must be Approved or Rejected")
	}
	if decision == model.ApprovalRejected && remark == "" {
		return nil, nil, workflow.NewValidation("remark", "a remark is required when rejecting the "+cat.Label+" file")
	}

	rec, err := s.store.Get(recordID)
	if err != nil {
		return nil, nil, err
	}
	if !rec.CategoryUploaded(cat.Name) {
		return nil, nil, workflow.NewValidation("category", "no "+cat.Label+" file has been uploaded")
	}

	// Step 1: the record-side decision, with the repair marker set in the
	// same write so a failed step 2 is detectable later.
	now := s.now()
	entry := rec.CategoryApproval[cat.Name]
	entry.Status = decision
	entry.ApprovedBy = actor.Name
	entry.Remark = remark
	entry.DecidedAt = &now
	rec.CategoryApproval[cat.Name] = entry
	if decision == model.ApprovalApproved {
		rec.Status = cat.ApprovedLabel()
	} else {
		rec.Status = cat.RejectedLabel()
	}
	rec.RepairPending = cat.Name
	if err := s.store.Save(rec); err != nil {
		return nil, nil, err
	}

	slog.Info("category decided",
		"record_id", rec.ID,
		"category", cat.Name,
		"decision", decision,
		"actor", actor.Name,
	)

	// Step 2: the file's own metadata.
	if err := s.applyFileMetadata(ctx, rec.ID, cat, decision, remark); err != nil {
		return rec, nil, workflow.NewPartialApply(cat.Name, "file-metadata", err)
	}
	rec = s.clearRepairMarker(rec.ID)

	events := []model.Event{{
		Type:     model.EventCategoryDecided,
		Category: cat.Name,
		Decision: decision,
		Actor:    actor.Name,
		Detail:   remark,
	}}

	// An approval may satisfy the current stage's completeness predicate.
	if decision == model.ApprovalApproved {
		advanced, advEvents, err := s.engine.AutoAdvance(ctx, rec.ID)
		if err != nil {
			slog.Warn("auto-advance after decision failed", "record_id", rec.ID, "error", err)
		} else if advanced != nil {
			rec = advanced
			events = append(events, advEvents...)
		}
	}
	return rec, events, nil
}

// RetryFileMetadata re-runs only the file metadata step of a partially applied
// decision. Idempotent; a record with no repair marker is a no-op.
func (s *ApprovalService) RetryFileMetadata(ctx context.Context, recordID string) (*model.ArtworkRecord, error) {
	rec, err := s.store.Get(recordID)
	if err != nil {
		return nil, err
	}
	if rec.RepairPending == "" {
		return rec, nil
	}
	cat, ok := workflow.LookupCategory(rec.RepairPending)
	if !ok {
		return nil, workflow.NewValidation("category", "unknown document category "+rec.RepairPending)
	}
	entry := rec.CategoryApproval[cat.Name]
	if err := s.applyFileMetadata(ctx, rec.ID, cat, entry.Status, entry.Remark); err != nil {
		return rec, workflow.NewPartialApply(cat.Name, "file-metadata", err)
	}
	return s.clearRepairMarker(rec.ID), nil
}

// UploadDocument stores a document in its category folder, stamps it with the
// owning record's id and books the upload on the record.
func (s *ApprovalService) UploadDocument(ctx context.Context, recordID, categoryName string, actor workflow.Actor, fileName string, r io.Reader, size int64, contentType string) (*model.ArtworkRecord, FileInfo, []model.Event, error) {
	cat, ok := workflow.LookupCategory(categoryName)
	if !ok {
		return nil, FileInfo{}, nil, workflow.NewValidation("category", "unknown document category "+categoryName)
	}
	if _, err := s.store.Get(recordID); err != nil {
		return nil, FileInfo{}, nil, err
	}

	info, err := s.library.UploadFile(ctx, cat.Folder, fileName, r, size, contentType, nil)
	if err != nil {
		return nil, FileInfo{}, nil, err
	}
	if err := s.library.UpdateFileItem(ctx, cat.Folder, fileName, map[string]string{metaDocID: recordID}); err != nil {
		return nil, FileInfo{}, nil, err
	}

	rec, events, err := s.RegisterUpload(ctx, recordID, categoryName, actor, fileName)
	if err != nil {
		return nil, FileInfo{}, nil, err
	}
	return rec, info, events, nil
}

// RegisterUpload books a freshly uploaded document into the record: the
// category gains a Pending entry (distinct from "nothing uploaded"), the
// status label mirrors the upload, and completeness is re-evaluated.
func (s *ApprovalService) RegisterUpload(ctx context.Context, recordID, categoryName string, actor workflow.Actor, fileName string) (*model.ArtworkRecord, []model.Event, error) {
	cat, ok := workflow.LookupCategory(categoryName)
	if !ok {
		return nil, nil, workflow.NewValidation("category", "unknown document category "+categoryName)
	}

	rec, err := s.store.Get(recordID)
	if err != nil {
		return nil, nil, err
	}
	if rec.CategoryApproval == nil {
		rec.CategoryApproval = make(map[string]model.CategoryDecision)
	}
	if _, exists := rec.CategoryApproval[cat.Name]; !exists {
		rec.CategoryApproval[cat.Name] = model.CategoryDecision{Status: model.ApprovalPending}
	}
	rec.Status = cat.UploadedLabel()
	if err := s.store.Save(rec); err != nil {
		return nil, nil, err
	}

	events := []model.Event{{
		Type:     model.EventDocumentUploaded,
		Category: cat.Name,
		Actor:    actor.Name,
		Detail:   fileName,
	}}

	advanced, advEvents, err := s.engine.AutoAdvance(ctx, rec.ID)
	if err != nil {
		slog.Warn("auto-advance after upload failed", "record_id", rec.ID, "error", err)
	} else if advanced != nil {
		rec = advanced
		events = append(events, advEvents...)
	}
	return rec, events, nil
}

// applyFileMetadata writes the decision onto every file in the category
// folder linked to this record, so a re-uploaded revision and its precursors
// all carry the verdict. A category with no stored file is left alone.
func (s *ApprovalService) applyFileMetadata(ctx context.Context, recordID string, cat workflow.Category, decision, remark string) error {
	files, err := s.library.ListFiles(ctx, cat.Folder, recordID)
	if err != nil {
		return err
	}
	fields := map[string]string{metaStatus: decision}
	if decision == model.ApprovalRejected {
		fields[metaRemark] = remark
	}
	for _, f := range files {
		if err := s.library.UpdateFileItem(ctx, cat.Folder, f.Name, fields); err != nil {
			return err
		}
	}
	return nil
}

// clearRepairMarker removes the pending-reconciliation marker, tolerating a
// concurrent writer by re-reading on conflict.
func (s *ApprovalService) clearRepairMarker(recordID string) *model.ArtworkRecord {
	for i := 0; i < 3; i++ {
		rec, err := s.store.Get(recordID)
		if err != nil {
			return nil
		}
		if rec.RepairPending == "" {
			return rec
		}
		rec.RepairPending = ""
		if err := s.store.Save(rec); err == nil {
			return rec
		}
	}
	slog.Warn("could not clear repair marker", "record_id", recordID)
	rec, _ := s.store.Get(recordID)
	return rec
}
