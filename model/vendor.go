package model

import "time"

// Vendor is one supplier in the packing-material vendor directory.
type Vendor struct {
	ID                      int    `json:"id"`
	SupplierName            string `json:"supplier_name"`
	Supplier                string `json:"supplier,omitempty"`
	SupplierEmail           string `json:"supplier_email"`
	PackingMaterialCategory string `json:"packing_material_category"`
	ContactPerson           string `json:"contact_person,omitempty"`
	PhoneNumber             string `json:"phone_number,omitempty"`
	Address                 string `json:"address,omitempty"`
}

// VendorFile statuses.
const (
	VendorFileSubmitted = "Submitted for Review"
	VendorFileApproved  = "Approved"
	VendorFileRejected  = "Rejected"
)

// VendorFile is one deliverable submitted by an assigned vendor.
type VendorFile struct {
	ID            string    `json:"id"`
	SupplierEmail string    `json:"supplier_email"`
	RecordID      string    `json:"record_id"`
	ProductName   string    `json:"product_name"`
	FileName      string    `json:"file_name"`
	FileType      string    `json:"file_type"`
	Status        string    `json:"status"`
	Remarks       string    `json:"remarks,omitempty"`
	FilePath      string    `json:"file_path,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
