package workflow

// Document category names. A category is a named class of required document
// with its own independent approval status.
const (
	CategoryCIBRC            = "CIBRC"
	CategoryFAICA            = "FAICA"
	CategoryMOP              = "MOP"
	CategoryEngineering      = "EngineeringDrawing"
	CategorySpecification    = "Specification"
	CategoryCDR              = "CDR"
	CategoryPackagingArtwork = "PackagingArtwork"
)

// Category maps a document category to its library folder and the status
// labels it drives on the record.
type Category struct {
	Name   string
	Label  string
	Folder string
}

// ApprovedLabel is the record status label after this category is approved.
func (c Category) ApprovedLabel() string { return c.Label + " File Approved" }

// RejectedLabel is the record status label after this category is rejected.
func (c Category) RejectedLabel() string { return c.Label + " File Rejected" }

// UploadedLabel is the record status label after a document lands in this
// category.
func (c Category) UploadedLabel() string { return c.Label + " File Uploaded" }

var categories = []Category{
	{Name: CategoryCIBRC, Label: "CIBRC", Folder: "ArtworkLibrary/CIBRC Files"},
	{Name: CategoryFAICA, Label: "FAICA", Folder: "ArtworkLibrary/FAICA"},
	{Name: CategoryMOP, Label: "MOP", Folder: "ArtworkLibrary/MOP"},
	{Name: CategoryEngineering, Label: "Engineering Drawing", Folder: "ArtworkLibrary/EngineeringDrawing"},
	{Name: CategorySpecification, Label: "Specification", Folder: "ArtworkLibrary/Specification"},
	{Name: CategoryCDR, Label: "CDR", Folder: "ArtworkLibrary/CDR"},
	{Name: CategoryPackagingArtwork, Label: "Final Packaging Artwork", Folder: "ArtworkLibrary/PackagingArtwork"},
}

// Categories returns the fixed document category catalogue.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory finds a category by name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
