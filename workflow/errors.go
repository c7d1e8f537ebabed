package workflow

import "fmt"

// IllegalTransitionError reports a stage/status precondition violation. The
// caller can recover by re-reading state and re-issuing the intent.
type IllegalTransitionError struct {
	Stage    int
	Activity string
	Reason   string
}

func (e *IllegalTransitionError) Error() string {
	if e.Activity != "" {
		return fmt.Sprintf("illegal transition on %q: %s", e.Activity, e.Reason)
	}
	return fmt.Sprintf("illegal transition at stage %d: %s", e.Stage, e.Reason)
}

// NewIllegalTransition creates an IllegalTransitionError for a stage.
func NewIllegalTransition(stage int, activity, reason string) *IllegalTransitionError {
	return &IllegalTransitionError{Stage: stage, Activity: activity, Reason: reason}
}

// ForbiddenError reports a permission gate denial. Not retryable.
type ForbiddenError struct {
	Actor    string
	Activity string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s is not allowed to act on %q", e.Actor, e.Activity)
}

// NewForbidden creates a ForbiddenError.
func NewForbidden(actor, activity string) *ForbiddenError {
	return &ForbiddenError{Actor: actor, Activity: activity}
}

// ValidationError reports invalid caller input; the user must correct it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// NewValidation creates a ValidationError for a field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports a lost optimistic-concurrency race; the caller should
// refetch and re-decide.
type ConflictError struct {
	RecordID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("record %s was modified concurrently", e.RecordID)
}

// NewConflict creates a ConflictError for a record.
func NewConflict(recordID string) *ConflictError {
	return &ConflictError{RecordID: recordID}
}

// PartialApplyError reports a two-step decision that committed its record-side
// write but failed the file metadata write. Only the named step needs retrying.
type PartialApplyError struct {
	Category string
	Step     string
	Err      error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("decision on %s partially applied, %s step failed: %v", e.Category, e.Step, e.Err)
}

func (e *PartialApplyError) Unwrap() error { return e.Err }

// NewPartialApply creates a PartialApplyError naming the failed step.
func NewPartialApply(category, step string, err error) *PartialApplyError {
	return &PartialApplyError{Category: category, Step: step, Err: err}
}

// TransientStorageError reports a storage operation that stayed rate-limited
// through every internal retry.
type TransientStorageError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("storage %s still throttled after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *TransientStorageError) Unwrap() error { return e.Err }

// NewTransientStorage creates a TransientStorageError.
func NewTransientStorage(op string, attempts int, err error) *TransientStorageError {
	return &TransientStorageError{Op: op, Attempts: attempts, Err: err}
}
