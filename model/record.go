package model

import (
	"time"
)

// Approval statuses for a document category. A category that is absent from
// CategoryApproval has no document uploaded yet, which is distinct from Pending.
const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// Stage runtime statuses.
const (
	StagePending    = "Pending"
	StageInProgress = "In Progress"
	StageCompleted  = "Completed"
	StageRejected   = "Rejected"
	StageEscalated  = "Escalated"
)

// TerminalStage is the CurrentStage sentinel for a record that has passed its
// last active stage. A negative value can never alias a stage position even
// when the active sequence shrinks.
const TerminalStage = -1

// SystemActor names the engine itself when auto-advance completes a stage.
const SystemActor = "system"

// CategoryDecision is the approval state of one document category on a record.
type CategoryDecision struct {
	Status     string     `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	Remark     string     `json:"remark,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// StageRuntime is the per-record execution state of one catalogue stage.
type StageRuntime struct {
	Status        string     `json:"status"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Remark        string     `json:"remark,omitempty"`
}

// VendorAssignment binds an external vendor identity to a record.
type VendorAssignment struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Category     string    `json:"category"`
	AssignedDate time.Time `json:"assigned_date"`
}

// ArtworkRecord is one product registration moving through the approval
// pipeline. CurrentStage and CategoryApproval are authoritative; Status is a
// derived label mirroring the last significant event.
type ArtworkRecord struct {
	ID                   string `json:"id"`
	ProductName          string `json:"product_name"`
	RegistrationType     string `json:"registration_type,omitempty"`
	RegistrationCategory string `json:"registration_category,omitempty"`
	ProductType          string `json:"product_type,omitempty"`
	RCNumber             string `json:"rc_number,omitempty"`
	AgendaNo             string `json:"agenda_no,omitempty"`
	FactoryAddress       string `json:"factory_address,omitempty"`
	CIBCertificateNo     string `json:"cib_certificate_no,omitempty"`
	CertificateDate      *time.Time `json:"certificate_date,omitempty"`

	BrandName string `json:"brand_name,omitempty"`
	FGCode    string `json:"fg_code,omitempty"`
	BOM       string `json:"bom,omitempty"`
	MOP       string `json:"mop,omitempty"`

	CurrentStage     int                         `json:"current_stage"`
	Status           string                      `json:"status"`
	CategoryApproval map[string]CategoryDecision `json:"category_approval"`
	// StageRuntime is keyed by catalogue stage id, not by position in the
	// per-record active sequence.
	StageRuntime map[int]*StageRuntime `json:"stage_runtime"`

	AssignedVendor    *VendorAssignment    `json:"assigned_vendor,omitempty"`
	VendorSubmissions map[string]time.Time `json:"vendor_submissions,omitempty"`

	// RepairPending names a category whose record-side decision committed but
	// whose file metadata update did not; a reconciliation sweep or an explicit
	// retry clears it.
	RepairPending string `json:"repair_pending,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the record has passed its last active stage.
func (r *ArtworkRecord) Completed() bool {
	return r.CurrentStage == TerminalStage
}

// Runtime returns the runtime for a catalogue stage id, creating a Pending one
// on first access.
func (r *ArtworkRecord) Runtime(stageID int) *StageRuntime {
	if r.StageRuntime == nil {
		r.StageRuntime = make(map[int]*StageRuntime)
	}
	rt, ok := r.StageRuntime[stageID]
	if !ok {
		rt = &StageRuntime{Status: StagePending}
		r.StageRuntime[stageID] = rt
	}
	return rt
}

// CategoryUploaded reports whether at least one document exists for the
// category, regardless of its approval status.
func (r *ArtworkRecord) CategoryUploaded(category string) bool {
	_, ok := r.CategoryApproval[category]
	return ok
}

// CategoryApproved reports whether the category has an approved document.
func (r *ArtworkRecord) CategoryApproved(category string) bool {
	d, ok := r.CategoryApproval[category]
	return ok && d.Status == ApprovalApproved
}

// Clone returns a deep copy so store reads never share mutable state with
// callers.
func (r *ArtworkRecord) Clone() *ArtworkRecord {
	cp := *r
	if r.CertificateDate != nil {
		d := *r.CertificateDate
		cp.CertificateDate = &d
	}
	if r.CategoryApproval != nil {
		cp.CategoryApproval = make(map[string]CategoryDecision, len(r.CategoryApproval))
		for k, v := range r.CategoryApproval {
			if v.DecidedAt != nil {
				t := *v.DecidedAt
				v.DecidedAt = &t
			}
			cp.CategoryApproval[k] = v
		}
	}
	if r.StageRuntime != nil {
		cp.StageRuntime = make(map[int]*StageRuntime, len(r.StageRuntime))
		for k, v := range r.StageRuntime {
			rt := *v
			if v.StartDate != nil {
				t := *v.StartDate
				rt.StartDate = &t
			}
			if v.CompletedDate != nil {
				t := *v.CompletedDate
				rt.CompletedDate = &t
			}
			cp.StageRuntime[k] = &rt
		}
	}
	if r.AssignedVendor != nil {
		v := *r.AssignedVendor
		cp.AssignedVendor = &v
	}
	if r.VendorSubmissions != nil {
		cp.VendorSubmissions = make(map[string]time.Time, len(r.VendorSubmissions))
		for k, v := range r.VendorSubmissions {
			cp.VendorSubmissions[k] = v
		}
	}
	return &cp
}
