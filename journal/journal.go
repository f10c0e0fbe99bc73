// Package journal persists trade cases, decision events and thesis
// snapshots. It is the record-store collaborator the lifecycle controller
// drives; all business rules live above it.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/decisionlog/event"
)

// Case statuses.
const (
	CaseOpen   = "OPEN"
	CaseClosed = "CLOSED"
)

// Case is the owning aggregate for a sequence of decision events about one
// position. Deleting a case cascades to its events.
type Case struct {
	ID        string     `json:"id"`
	Ticker    string     `json:"ticker"`
	Book      string     `json:"book"`
	Status    string     `json:"status"`
	OpenedAt  time.Time  `json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Snapshot is a compiled point-in-time view of a case, derived from its
// FINAL events.
type Snapshot struct {
	ID        string         `json:"id"`
	CaseID    string         `json:"case_id"`
	AsOf      time.Time      `json:"asof"`
	Compiled  map[string]any `json:"compiled"`
	Narrative string         `json:"narrative"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store is the event-record contract consumed by the lifecycle controller.
type Store interface {
	CreateEvent(ctx context.Context, ev event.Event) error
	// GetEvent looks an event up by id scoped to its case; ErrNoRecord if
	// either does not match.
	GetEvent(ctx context.Context, caseID, id string) (event.Event, error)
	// FindDraft returns the most recently updated DRAFT for the pair, if any.
	FindDraft(ctx context.Context, caseID string, t event.Type) (event.Event, bool, error)
	// ListFinal returns all FINAL events for a case ordered by event_ts
	// ascending. Drafts are excluded so derived artifacts never depend on
	// incomplete state.
	ListFinal(ctx context.Context, caseID string) ([]event.Event, error)
	UpdateEvent(ctx context.Context, ev event.Event) error
}

// ErrNoRecord means the requested case or event does not exist.
var ErrNoRecord = errors.New("journal: no such record")

// StoreError marks a storage-layer failure: connection, constraint or I/O.
// It is propagated unchanged; this core does not retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("journal: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
