package workflow

import (
	"strings"

	"github.com/agropack/artworkflow/backend/model"
)

// StageDefinition is one immutable step of the approval sequence.
type StageDefinition struct {
	ID                   int
	Activity             string
	TaskDescription      string
	Department           string
	ResponsiblePerson    string
	SLA                  SLA
	FirstEscalation      string
	ReminderNotification string

	// VendorSelection marks stages from which the vendor assignment
	// sub-workflow may be triggered.
	VendorSelection bool

	// RequiredWhen decides whether the stage is part of a record's active
	// sequence; nil means always active.
	RequiredWhen func(*model.ArtworkRecord) bool

	// CompleteWhen is the auto-advance completeness predicate; nil means the
	// stage only completes through an explicit approval.
	CompleteWhen func(*model.ArtworkRecord) bool
}

// Catalog is the fixed, ordered stage catalogue. Stages are not
// user-authorable; per-record variation comes only from RequiredWhen filtering.
type Catalog struct {
	stages []StageDefinition
}

// NewCatalog builds the default eleven-stage approval catalogue with SLA
// expressions parsed up front.
func NewCatalog() *Catalog {
	defs := []StageDefinition{
		{
			ID:                1,
			Activity:          "CIB copy circulate to All Stakeholder",
			TaskDescription:   "Cross-check product details such as chemical name, MOC and manner of packing as per requirement",
			Department:        "Regulatory",
			ResponsiblePerson: "Ankur Prakash Verma/ Praful Bhamare",
			SLA:               ParseSLA("NA"),
			FirstEscalation:   "NA",
		},
		{
			ID:                   2,
			Activity:             "Product Launch Tracker: Facia/MOP/FG CODE/BOM",
			TaskDescription:      "Ensure pack size and manner of packing align with the details in the CIB copy",
			Department:           "Marketing",
			ResponsiblePerson:    "Product-wise CROP Managers",
			SLA:                  ParseSLA("13 Working Days"),
			FirstEscalation:      "Mahaveer Singh Rathore",
			ReminderNotification: "14 Working Days after task initiation",
			CompleteWhen:         launchTrackerComplete,
		},
		{
			ID:                3,
			Activity:          "Eng. Drawing/Specification",
			TaskDescription:   "Validate artwork dimensions and performance as per existing standards, including machinability, batch coding feasibility, and dimensional accuracy",
			Department:        "Quality",
			ResponsiblePerson: "Gaurav Sakhare",
			SLA: ParseSLA("For validation of drawing (KLD) with existing dimensions: 2 Days. " +
				"For New Design: 1. Pouch: 7-10 Days after availability of material to be filled. " +
				"2. Mono-Carton: 3-5 days for Draft specification for trial sample & Final KLD will be provided 2-3 days after receipt of trial sample. " +
				"3. Bottle Label, Shipper Label, Leaflet: 2 Days (Standard dimensions)"),
			FirstEscalation:      "Aziz Hussain",
			ReminderNotification: "7 Working Days after task initiation",
			RequiredWhen: func(r *model.ArtworkRecord) bool {
				return r.CategoryApproved(CategoryMOP)
			},
			CompleteWhen: qualityDocsApproved,
		},
		{
			ID:                   4,
			Activity:             "Artwork Development",
			TaskDescription:      "Develop artwork based on the approved facia and CIB copy",
			Department:           "Marketing Services",
			ResponsiblePerson:    "Sanjeet Kumar",
			SLA:                  ParseSLA("15 Working Days"),
			FirstEscalation:      "Mahaveer Singh Rathore",
			ReminderNotification: "15 Working Days after task initiation",
			RequiredWhen: func(r *model.ArtworkRecord) bool {
				return r.CategoryApproved(CategoryFAICA)
			},
		},
		{
			ID:                   5,
			Activity:             "Artwork Approval - Regulatory",
			TaskDescription:      "Check regulatory compliance of artwork as per CIB guidelines",
			Department:           "Regulatory",
			ResponsiblePerson:    "Ankur Prakash Verma",
			SLA:                  ParseSLA("2 Working Days"),
			FirstEscalation:      "Praful Bhamare",
			ReminderNotification: "3 Working Days after task initiation",
		},
		{
			ID:                   6,
			Activity:             "Artwork Approval - Legal",
			TaskDescription:      "Check legal compliance as per Weights and Measures Act",
			Department:           "Legal",
			ResponsiblePerson:    "Bipin Thomas",
			SLA:                  ParseSLA("2 Working Days"),
			FirstEscalation:      "Amit Goel",
			ReminderNotification: "3 Working Days after task initiation",
		},
		{
			ID:                   7,
			Activity:             "Artwork share to vendor by Link/CDR",
			TaskDescription:      "Share the approved artwork with the vendor, ensuring alignment with facia and CIB copy",
			Department:           "Marketing Services",
			ResponsiblePerson:    "Sanjeet Kumar",
			SLA:                  ParseSLA("2 Working Days"),
			FirstEscalation:      "Mahaveer Singh Rathore",
			ReminderNotification: "3 Working Days after task initiation",
		},
		{
			ID:                   8,
			Activity:             "Development of packing material/Supplier selection",
			TaskDescription:      "Coordinate with Marketing Services, Quality, and Vendors to ensure timely development and supply of packing material",
			Department:           "SCM",
			ResponsiblePerson:    "Rajkumar Pandey",
			SLA:                  ParseSLA("Bottle and Cap: 120-130 Days (New Mould), Pouch: 45 Days, Label, leaflet, Shipper box: 14 Days"),
			FirstEscalation:      "Vipul Patel",
			ReminderNotification: "15 Working Days of task initiation",
			VendorSelection:      true,
		},
		{
			ID:                   9,
			Activity:             "Approval of Artwork file send by Vendor",
			TaskDescription:      "Verify vendor-submitted artwork against the approved facia and CIB copy",
			Department:           "Marketing Services",
			ResponsiblePerson:    "Sanjeet Kumar",
			SLA:                  ParseSLA("4 Working Days"),
			FirstEscalation:      "Mahaveer Singh Rathore",
			ReminderNotification: "4 Working Days after task initiation",
			VendorSelection:      true,
		},
		{
			ID:                   10,
			Activity:             "Commercial Supply Issuing PO to supplier",
			TaskDescription:      "Release the purchase order based on approved artwork and technical specifications",
			Department:           "SCM",
			ResponsiblePerson:    "Rajkumar Pandey",
			SLA:                  ParseSLA("7 Working Days"),
			FirstEscalation:      "Vipul Patel",
			ReminderNotification: "7 Working Days of task initiation",
		},
		{
			ID:                   11,
			Activity:             "Shade card",
			TaskDescription:      "Review hardcopy of the shade card shared by the vendor to ensure it matches the approved artwork and color standards",
			Department:           "Marketing Services",
			ResponsiblePerson:    "Sanjeet Kumar",
			SLA:                  ParseSLA("30 Days for Pouch and Monocarton, 20 Days for label, leaflet and shipper label and shipper box"),
			FirstEscalation:      "Mahaveer Singh Rathore",
			ReminderNotification: "15 Working Days after task initiation",
		},
	}
	return &Catalog{stages: defs}
}

// launchTrackerComplete: brand name, FG code and bill of material are filled
// and both FAICA and MOP have at least one uploaded document.
func launchTrackerComplete(r *model.ArtworkRecord) bool {
	return strings.TrimSpace(r.BrandName) != "" &&
		strings.TrimSpace(r.FGCode) != "" &&
		strings.TrimSpace(r.BOM) != "" &&
		r.CategoryUploaded(CategoryFAICA) &&
		r.CategoryUploaded(CategoryMOP)
}

// qualityDocsApproved: engineering drawing and specification both approved.
func qualityDocsApproved(r *model.ArtworkRecord) bool {
	return r.CategoryApproved(CategoryEngineering) &&
		r.CategoryApproved(CategorySpecification)
}

// Definitions returns the full catalogue before per-record filtering.
func (c *Catalog) Definitions() []StageDefinition {
	out := make([]StageDefinition, len(c.stages))
	copy(out, c.stages)
	return out
}

// ActiveStages computes the record's stage sequence fresh from its category
// approvals. The result is what CurrentStage indexes into (1-based).
func (c *Catalog) ActiveStages(r *model.ArtworkRecord) []StageDefinition {
	out := make([]StageDefinition, 0, len(c.stages))
	for _, s := range c.stages {
		if s.RequiredWhen == nil || s.RequiredWhen(r) {
			out = append(out, s)
		}
	}
	return out
}

// StageAt resolves a 1-based position in the record's active sequence.
func (c *Catalog) StageAt(r *model.ArtworkRecord, pos int) (StageDefinition, bool) {
	active := c.ActiveStages(r)
	if pos < 1 || pos > len(active) {
		return StageDefinition{}, false
	}
	return active[pos-1], true
}

// Len is the full catalogue length before per-record filtering.
func (c *Catalog) Len() int { return len(c.stages) }
