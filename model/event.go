package model

// EventType identifies a workflow event emitted by a command.
type EventType string

const (
	EventStageStarted        EventType = "StageStarted"
	EventStageCompleted      EventType = "StageCompleted"
	EventStageRejected       EventType = "StageRejected"
	EventWorkflowCompleted   EventType = "WorkflowCompleted"
	EventCategoryDecided     EventType = "CategoryDecided"
	EventDocumentUploaded    EventType = "DocumentUploaded"
	EventVendorAssigned      EventType = "VendorAssigned"
	EventVendorFileSubmitted EventType = "VendorFileSubmitted"
)

// Event describes a state change for the caller to display; the engine itself
// never renders or notifies.
type Event struct {
	Type         EventType `json:"type"`
	Stage        int       `json:"stage,omitempty"`
	Activity     string    `json:"activity,omitempty"`
	RolledBackTo int       `json:"rolled_back_to,omitempty"`
	Category     string    `json:"category,omitempty"`
	Decision     string    `json:"decision,omitempty"`
	Actor        string    `json:"actor,omitempty"`
	Detail       string    `json:"detail,omitempty"`
}
