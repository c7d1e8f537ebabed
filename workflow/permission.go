package workflow

import (
	"strings"

	"github.com/agropack/artworkflow/backend/model"
)

// Universal roles that may act on any stage.
const (
	RoleOwner = "Owner"
	RoleAdmin = "Admin"
)

// Actor is the caller's identity plus its resolved directory groups. The gate
// never reads ambient session state; every decision works off this value.
type Actor struct {
	Name  string
	Roles []string
}

// System is the engine's own actor for predicate-driven auto-advance.
func System() Actor {
	return Actor{Name: model.SystemActor, Roles: []string{RoleAdmin}}
}

// CanAct reports whether the actor may start, approve or reject the stage.
// Matching is deliberately loose: a role matches when its name is contained in
// the stage's department or responsible person, case-insensitively.
func CanAct(actor Actor, stage StageDefinition) bool {
	dept := strings.ToLower(stage.Department)
	fpr := strings.ToLower(stage.ResponsiblePerson)
	for _, role := range actor.Roles {
		r := strings.ToLower(strings.TrimSpace(role))
		if r == "" {
			continue
		}
		if strings.EqualFold(role, RoleOwner) || strings.EqualFold(role, RoleAdmin) {
			return true
		}
		if strings.Contains(dept, r) || strings.Contains(fpr, r) {
			return true
		}
	}
	return false
}

// CanEdit gates record field editing: the workflow must still be in flight
// and the editor must be admitted to the stage the record currently sits at.
// A caller whose groups match a later stage cannot edit ahead of the record.
func CanEdit(actor Actor, rec *model.ArtworkRecord, stage StageDefinition) bool {
	if rec.Completed() {
		return false
	}
	return CanAct(actor, stage)
}
