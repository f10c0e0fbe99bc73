// Package lifecycle owns the DRAFT -> FINAL state machine for decision
// events: draft creation and reuse, deep-merge patching, and strict
// finalize-time validation.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rustyeddy/decisionlog/event"
	"github.com/rustyeddy/decisionlog/journal"
	"github.com/rustyeddy/decisionlog/pkg/id"
)

// Result pairs an event with the ordered list of required fields it still
// lacks. The stable response shape for chat-style progressive disclosure.
type Result struct {
	Event         event.Event `json:"event"`
	MissingFields []string    `json:"missing_fields"`
}

// Controller drives the record store. It holds no state of its own; every
// operation is a single logical unit against the store.
type Controller struct {
	store journal.Store
	now   func() time.Time
	log   *slog.Logger
}

func New(store journal.Store) *Controller {
	return &Controller{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		log:   slog.Default(),
	}
}

func result(ev event.Event) Result {
	return Result{Event: ev, MissingFields: event.Missing(ev.Type, ev.Payload)}
}

// Draft creates or reuses the DRAFT event for (caseID, eventType).
//
// If a draft already exists it is returned as-is, except that a non-empty
// seed is applied once to a draft whose payload is still empty. A zero
// eventTs means "now". Draft reuse is idempotent: two consecutive calls for
// the same pair return the same event.
func (c *Controller) Draft(ctx context.Context, caseID string, t event.Type, seed map[string]any, eventTs time.Time) (Result, error) {
	if !event.Known(t) {
		return Result{}, badRequest("invalid event_type %q", t)
	}

	existing, found, err := c.store.FindDraft(ctx, caseID, t)
	if err != nil {
		return Result{}, err
	}
	if found {
		// Conservative rule: apply the seed only while the payload is empty.
		if len(existing.Payload) == 0 && len(seed) > 0 {
			existing.Payload = event.MergePayload(existing.Payload, seed)
			existing.UpdatedAt = c.now()
			if err := c.store.UpdateEvent(ctx, existing); err != nil {
				return Result{}, err
			}
		}
		return result(existing), nil
	}

	now := c.now()
	if eventTs.IsZero() {
		eventTs = now
	}
	if seed == nil {
		seed = map[string]any{}
	}

	ev := event.Event{
		ID:        id.New(),
		CaseID:    caseID,
		EventTs:   eventTs,
		Type:      t,
		Payload:   seed,
		Status:    event.StatusDraft,
		UpdatedAt: now,
		CreatedAt: now,
	}
	if err := c.store.CreateEvent(ctx, ev); err != nil {
		// A concurrent create may have hit the one-draft unique index first;
		// the storage constraint is the authoritative guard.
		return Result{}, err
	}
	c.log.Debug("draft created", "case_id", caseID, "event_type", string(t), "event_id", ev.ID)
	return result(ev), nil
}

// Patch deep-merges patch into the draft's payload. Lists in the patch
// replace the current value entirely. FINAL events are immutable.
func (c *Controller) Patch(ctx context.Context, caseID, eventID string, patch map[string]any) (Result, error) {
	if patch == nil {
		return Result{}, badRequest("payload_patch must be a JSON object")
	}

	ev, err := c.get(ctx, caseID, eventID)
	if err != nil {
		return Result{}, err
	}
	if ev.Status != event.StatusDraft {
		return Result{}, ErrNotDraft
	}

	ev.Payload = event.MergePayload(ev.Payload, patch)
	ev.UpdatedAt = c.now()
	if err := c.store.UpdateEvent(ctx, ev); err != nil {
		return Result{}, err
	}
	return result(ev), nil
}

// Finalize flips a complete, schema-valid draft to FINAL. Incompleteness
// fails with MissingFieldsError and a structural violation with
// event.ValidationError; in both cases the draft is left untouched.
func (c *Controller) Finalize(ctx context.Context, caseID, eventID string) (Result, error) {
	ev, err := c.get(ctx, caseID, eventID)
	if err != nil {
		return Result{}, err
	}
	if ev.Status != event.StatusDraft {
		return Result{}, ErrNotDraft
	}

	if missing := event.Missing(ev.Type, ev.Payload); len(missing) > 0 {
		return Result{}, &MissingFieldsError{Fields: missing}
	}
	if err := event.Validate(ev.Type, ev.Payload); err != nil {
		return Result{}, err
	}

	ev.Status = event.StatusFinal
	ev.UpdatedAt = c.now()
	if err := c.store.UpdateEvent(ctx, ev); err != nil {
		return Result{}, err
	}
	c.log.Debug("draft finalized", "case_id", caseID, "event_id", eventID, "event_type", string(ev.Type))
	return Result{Event: ev, MissingFields: []string{}}, nil
}

// Insert is the strict path for pre-validated structured submissions: the
// full envelope and the type-specific schema are checked in one pass, then
// the event is persisted directly as FINAL. No draft stage, no partial
// state.
func (c *Controller) Insert(ctx context.Context, caseID string, t event.Type, payload map[string]any, eventTs time.Time) (event.Event, error) {
	if !event.Known(t) {
		return event.Event{}, badRequest("invalid event_type %q", t)
	}
	if payload == nil {
		return event.Event{}, badRequest("payload must be a JSON object")
	}
	if err := event.Validate(t, payload); err != nil {
		return event.Event{}, err
	}

	now := c.now()
	if eventTs.IsZero() {
		eventTs = now
	}

	ev := event.Event{
		ID:        id.New(),
		CaseID:    caseID,
		EventTs:   eventTs,
		Type:      t,
		Payload:   payload,
		Status:    event.StatusFinal,
		UpdatedAt: now,
		CreatedAt: now,
	}
	if err := c.store.CreateEvent(ctx, ev); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

// ListFinal returns all FINAL events for a case ordered by event_ts
// ascending. Drafts are excluded so derived artifacts (snapshots, replays)
// never see incomplete state.
func (c *Controller) ListFinal(ctx context.Context, caseID string) ([]event.Event, error) {
	return c.store.ListFinal(ctx, caseID)
}

func (c *Controller) get(ctx context.Context, caseID, eventID string) (event.Event, error) {
	ev, err := c.store.GetEvent(ctx, caseID, eventID)
	if err != nil {
		if errors.Is(err, journal.ErrNoRecord) {
			return event.Event{}, ErrNotFound
		}
		return event.Event{}, err
	}
	return ev, nil
}
