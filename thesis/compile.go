// Package thesis compiles point-in-time snapshots of a case from its FINAL
// decision events, and replays case state as of a moment in time. Drafts
// never feed a snapshot: derived artifacts depend only on finalized state.
package thesis

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/decisionlog/event"
	"github.com/rustyeddy/decisionlog/journal"
	"github.com/rustyeddy/decisionlog/pkg/id"
)

// Store is the slice of the journal this package needs.
type Store interface {
	GetCase(ctx context.Context, caseID string) (journal.Case, error)
	ListFinal(ctx context.Context, caseID string) ([]event.Event, error)
	SaveSnapshot(ctx context.Context, s journal.Snapshot) error
	LatestSnapshot(ctx context.Context, caseID string, asof time.Time) (journal.Snapshot, bool, error)
}

// Compile builds and persists a deterministic snapshot of the case from its
// FINAL events with event_ts at or before asof.
func Compile(ctx context.Context, store Store, caseID string, asof time.Time) (journal.Snapshot, error) {
	c, err := store.GetCase(ctx, caseID)
	if err != nil {
		return journal.Snapshot{}, err
	}

	events, err := eventsThrough(ctx, store, caseID, asof)
	if err != nil {
		return journal.Snapshot{}, err
	}

	s := journal.Snapshot{
		ID:        id.New(),
		CaseID:    caseID,
		AsOf:      asof,
		Compiled:  compileDoc(c, events),
		Narrative: fmt.Sprintf("Compiled from %d events through %s for %s.", len(events), asof.Format(time.RFC3339), c.Ticker),
		CreatedAt: time.Now().UTC(),
	}
	if err := store.SaveSnapshot(ctx, s); err != nil {
		return journal.Snapshot{}, err
	}
	return s, nil
}

func compileDoc(c journal.Case, events []event.Event) map[string]any {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, string(ev.Type))
	}

	risks := []string{}
	triggers := []string{"monitor"}
	confidence := 0.4
	if len(events) > 0 {
		risks = []string{"market risk", "liquidity risk"}
		confidence = 0.7
	}
	for _, t := range types {
		if t == string(event.PostMortem) {
			triggers = []string{"exit"}
			break
		}
	}

	return map[string]any{
		"thesis":     fmt.Sprintf("Case for %s. Events: %v", c.Ticker, types),
		"risks":      risks,
		"triggers":   triggers,
		"confidence": confidence,
	}
}

// Replay is point-in-time case state: the case, its FINAL events through
// asof, and the latest snapshot compiled at or before asof.
type Replay struct {
	Case           journal.Case      `json:"case"`
	Events         []event.Event     `json:"events"`
	LatestSnapshot *journal.Snapshot `json:"latest_snapshot"`
}

// ReplayAt reconstructs case state as of asof.
func ReplayAt(ctx context.Context, store Store, caseID string, asof time.Time) (Replay, error) {
	c, err := store.GetCase(ctx, caseID)
	if err != nil {
		return Replay{}, err
	}

	events, err := eventsThrough(ctx, store, caseID, asof)
	if err != nil {
		return Replay{}, err
	}

	out := Replay{Case: c, Events: events}
	snap, ok, err := store.LatestSnapshot(ctx, caseID, asof)
	if err != nil {
		return Replay{}, err
	}
	if ok {
		out.LatestSnapshot = &snap
	}
	return out, nil
}

func eventsThrough(ctx context.Context, store Store, caseID string, asof time.Time) ([]event.Event, error) {
	all, err := store.ListFinal(ctx, caseID)
	if err != nil {
		return nil, err
	}
	out := make([]event.Event, 0, len(all))
	for _, ev := range all {
		if !ev.EventTs.After(asof) {
			out = append(out, ev)
		}
	}
	return out, nil
}
