package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agropack/artworkflow/backend/model"
)

// RecordStore is the engine's view of record persistence. Get returns a
// private copy; Save must fail with a ConflictError when the stored version no
// longer matches the copy's, which is what makes the fresh-read-then-write
// cycle below safe without locks.
type RecordStore interface {
	Get(id string) (*model.ArtworkRecord, error)
	Save(rec *model.ArtworkRecord) error
}

// Engine advances, rejects and rolls back records across the stage catalogue.
// Every operation is an independent unit of work: read fresh state, re-check
// preconditions against it, write with a version check.
type Engine struct {
	catalog *Catalog
	store   RecordStore
	now     func() time.Time
}

// NewEngine creates an engine over a catalogue and record store.
func NewEngine(catalog *Catalog, store RecordStore) *Engine {
	return &Engine{catalog: catalog, store: store, now: time.Now}
}

// WithClock overrides the engine clock, for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Catalog exposes the stage catalogue for read projections.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Start opens the record's current stage. Legal only when the given position
// is the current stage, its runtime is Pending, and the gate admits the actor.
func (e *Engine) Start(ctx context.Context, recordID string, pos int, actor Actor) (*model.ArtworkRecord, []model.Event, error) {
	rec, stage, err := e.stageFor(recordID, pos)
	if err != nil {
		return nil, nil, err
	}
	rt := rec.Runtime(stage.ID)
	if rt.Status != model.StagePending {
		return nil, nil, NewIllegalTransition(pos, stage.Activity, fmt.Sprintf("stage is %s, only a pending stage can be started", rt.Status))
	}
	if !CanAct(actor, stage) {
		return nil, nil, NewForbidden(actor.Name, stage.Activity)
	}

	now := e.now()
	rt.Status = model.StageInProgress
	rt.StartDate = &now
	if err := e.store.Save(rec); err != nil {
		return nil, nil, err
	}

	slog.Info("stage started",
		"record_id", rec.ID,
		"stage", pos,
		"activity", stage.Activity,
		"actor", actor.Name,
	)
	events := []model.Event{{
		Type:     model.EventStageStarted,
		Stage:    pos,
		Activity: stage.Activity,
		Actor:    actor.Name,
	}}
	return rec, events, nil
}

// Approve completes the record's current stage and advances to the next one in
// the record's active sequence, or to the terminal sentinel past the last.
func (e *Engine) Approve(ctx context.Context, recordID string, pos int, actor Actor) (*model.ArtworkRecord, []model.Event, error) {
	rec, stage, err := e.stageFor(recordID, pos)
	if err != nil {
		return nil, nil, err
	}
	rt := rec.Runtime(stage.ID)
	if rt.Status != model.StageInProgress {
		return nil, nil, NewIllegalTransition(pos, stage.Activity, fmt.Sprintf("stage is %s, only an in-progress stage can be approved", rt.Status))
	}
	if !CanAct(actor, stage) {
		return nil, nil, NewForbidden(actor.Name, stage.Activity)
	}

	events := e.complete(rec, stage, pos, actor)
	if err := e.store.Save(rec); err != nil {
		return nil, nil, err
	}
	return rec, events, nil
}

// Reject fails the record's current stage and rolls the record back one
// position, reopening that earlier stage for rework. Rejection at position 1
// clamps to 1.
func (e *Engine) Reject(ctx context.Context, recordID string, pos int, actor Actor, remark string) (*model.ArtworkRecord, []model.Event, error) {
	rec, stage, err := e.stageFor(recordID, pos)
	if err != nil {
		return nil, nil, err
	}
	rt := rec.Runtime(stage.ID)
	if rt.Status != model.StageInProgress {
		return nil, nil, NewIllegalTransition(pos, stage.Activity, fmt.Sprintf("stage is %s, only an in-progress stage can be rejected", rt.Status))
	}
	if !CanAct(actor, stage) {
		return nil, nil, NewForbidden(actor.Name, stage.Activity)
	}

	rt.Status = model.StageRejected
	rt.Remark = remark

	rollback := pos - 1
	if rollback < 1 {
		rollback = 1
	}
	// Reopen the stage rolled back to; its prior runtime is superseded and
	// only the reopened stage is actionable.
	if reopened, ok := e.catalog.StageAt(rec, rollback); ok {
		ort := rec.Runtime(reopened.ID)
		ort.Status = model.StagePending
		ort.StartDate = nil
		ort.CompletedDate = nil
	}
	rec.CurrentStage = rollback
	rec.Status = stage.Activity + " Rejected"

	if err := e.store.Save(rec); err != nil {
		return nil, nil, err
	}

	slog.Info("stage rejected",
		"record_id", rec.ID,
		"stage", pos,
		"rolled_back_to", rollback,
		"actor", actor.Name,
	)
	events := []model.Event{{
		Type:         model.EventStageRejected,
		Stage:        pos,
		Activity:     stage.Activity,
		RolledBackTo: rollback,
		Actor:        actor.Name,
		Detail:       remark,
	}}
	return rec, events, nil
}

// AutoAdvance re-evaluates completeness predicates for the record's current
// stage and completes it on the engine's behalf when satisfied. Advancing can
// cascade when the next stage's predicate already holds. Re-invoking after an
// approve is a no-op.
func (e *Engine) AutoAdvance(ctx context.Context, recordID string) (*model.ArtworkRecord, []model.Event, error) {
	rec, err := e.store.Get(recordID)
	if err != nil {
		return nil, nil, err
	}

	var events []model.Event
	// Bounded by the catalogue length; each pass advances at most one stage.
	for i := 0; i < e.catalog.Len(); i++ {
		if rec.Completed() {
			break
		}
		stage, ok := e.catalog.StageAt(rec, rec.CurrentStage)
		if !ok {
			return nil, nil, NewIllegalTransition(rec.CurrentStage, "", "current stage is outside the active sequence")
		}
		if stage.CompleteWhen == nil || !stage.CompleteWhen(rec) {
			break
		}
		rt := rec.Runtime(stage.ID)
		if rt.Status == model.StageCompleted {
			break
		}
		events = append(events, e.complete(rec, stage, rec.CurrentStage, System())...)
	}

	if len(events) == 0 {
		return rec, nil, nil
	}
	if err := e.store.Save(rec); err != nil {
		return nil, nil, err
	}
	return rec, events, nil
}

// complete marks the stage done and moves CurrentStage forward. Shared by
// Approve and AutoAdvance so both are idempotent against a completed stage.
func (e *Engine) complete(rec *model.ArtworkRecord, stage StageDefinition, pos int, actor Actor) []model.Event {
	now := e.now()
	rt := rec.Runtime(stage.ID)
	if rt.StartDate == nil {
		rt.StartDate = &now
	}
	rt.Status = model.StageCompleted
	rt.CompletedDate = &now
	rec.Status = stage.Activity + " Completed"

	events := []model.Event{{
		Type:     model.EventStageCompleted,
		Stage:    pos,
		Activity: stage.Activity,
		Actor:    actor.Name,
	}}

	active := e.catalog.ActiveStages(rec)
	if pos+1 > len(active) {
		rec.CurrentStage = model.TerminalStage
		rec.Status = "Completed"
		events = append(events, model.Event{Type: model.EventWorkflowCompleted, Actor: actor.Name})
	} else {
		rec.CurrentStage = pos + 1
		// Re-entering a stage that was rejected earlier supersedes the
		// rejection: the stage reopens as pending so it can be started
		// again after rework. The rejection remark stays as history.
		nrt := rec.Runtime(active[pos].ID)
		if nrt.Status == model.StageRejected {
			nrt.Status = model.StagePending
			nrt.StartDate = nil
			nrt.CompletedDate = nil
		}
	}

	slog.Info("stage completed",
		"record_id", rec.ID,
		"stage", pos,
		"activity", stage.Activity,
		"actor", actor.Name,
	)
	return events
}

// stageFor loads a fresh record copy and resolves the requested position,
// enforcing that it is the record's current stage.
func (e *Engine) stageFor(recordID string, pos int) (*model.ArtworkRecord, StageDefinition, error) {
	rec, err := e.store.Get(recordID)
	if err != nil {
		return nil, StageDefinition{}, err
	}
	if rec.Completed() {
		return nil, StageDefinition{}, NewIllegalTransition(pos, "", "workflow already completed")
	}
	stage, ok := e.catalog.StageAt(rec, pos)
	if !ok {
		return nil, StageDefinition{}, NewIllegalTransition(pos, "", "no such stage in the record's active sequence")
	}
	if pos != rec.CurrentStage {
		cur, _ := e.catalog.StageAt(rec, rec.CurrentStage)
		return nil, StageDefinition{}, NewIllegalTransition(pos, stage.Activity,
			fmt.Sprintf("record is at %q (stage %d)", cur.Activity, rec.CurrentStage))
	}
	return rec, stage, nil
}
