package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/decisionlog/event"
	"github.com/rustyeddy/decisionlog/pkg/id"
)

// NormalizeTicker uppercases and trims a ticker symbol.
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// CreateCase inserts a new case. Ticker is normalized; book defaults to
// "default" and status to OPEN.
func (j *SQLite) CreateCase(ctx context.Context, c Case) (Case, error) {
	c.Ticker = NormalizeTicker(c.Ticker)
	if c.Ticker == "" {
		return Case{}, storeErr("create case", fmt.Errorf("ticker is required"))
	}
	if c.ID == "" {
		c.ID = id.New()
	}
	if c.Book == "" {
		c.Book = "default"
	}
	if c.Status == "" {
		c.Status = CaseOpen
	}
	now := time.Now().UTC()
	if c.OpenedAt.IsZero() {
		c.OpenedAt = now
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO cases (id, ticker, book, status, opened_at, closed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Ticker, c.Book, c.Status, c.OpenedAt, c.ClosedAt, c.CreatedAt,
	)
	if err != nil {
		return Case{}, storeErr("create case", err)
	}
	return c, nil
}

func scanCase(row interface{ Scan(...any) error }) (Case, error) {
	var c Case
	var closedAt sql.NullTime
	err := row.Scan(&c.ID, &c.Ticker, &c.Book, &c.Status, &c.OpenedAt, &closedAt, &c.CreatedAt)
	if err != nil {
		return Case{}, err
	}
	if closedAt.Valid {
		t := closedAt.Time
		c.ClosedAt = &t
	}
	return c, nil
}

const caseColumns = `id, ticker, book, status, opened_at, closed_at, created_at`

func (j *SQLite) GetCase(ctx context.Context, caseID string) (Case, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+caseColumns+` FROM cases WHERE id = ?`, caseID)

	c, err := scanCase(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Case{}, ErrNoRecord
		}
		return Case{}, storeErr("get case", err)
	}
	return c, nil
}

// EnsureCase returns the newest OPEN case for (ticker, book), creating one
// when none exists. The second return reports whether a case was created.
func (j *SQLite) EnsureCase(ctx context.Context, ticker, book string) (Case, bool, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return Case{}, false, storeErr("ensure case", fmt.Errorf("ticker is required"))
	}
	if book == "" {
		book = "default"
	}

	row := j.db.QueryRowContext(ctx, `
		SELECT `+caseColumns+` FROM cases
		WHERE ticker = ? AND book = ? AND status = ?
		ORDER BY opened_at DESC
		LIMIT 1`, ticker, book, CaseOpen)

	c, err := scanCase(row)
	if err == nil {
		return c, false, nil
	}
	if err != sql.ErrNoRows {
		return Case{}, false, storeErr("ensure case", err)
	}

	created, err := j.CreateCase(ctx, Case{Ticker: ticker, Book: book})
	if err != nil {
		return Case{}, false, err
	}
	return created, true, nil
}

// CloseCase ends an episode: status -> CLOSED, closed_at -> now. Closing an
// already-closed case is a no-op.
func (j *SQLite) CloseCase(ctx context.Context, caseID string) (Case, error) {
	c, err := j.GetCase(ctx, caseID)
	if err != nil {
		return Case{}, err
	}
	if c.Status == CaseClosed {
		return c, nil
	}

	now := time.Now().UTC()
	_, err = j.db.ExecContext(ctx, `
		UPDATE cases SET status = ?, closed_at = ? WHERE id = ?`,
		CaseClosed, now, caseID,
	)
	if err != nil {
		return Case{}, storeErr("close case", err)
	}
	c.Status = CaseClosed
	c.ClosedAt = &now
	return c, nil
}

// ListCases returns cases newest-first by opened_at, optionally filtered by
// status.
func (j *SQLite) ListCases(ctx context.Context, status string, limit int) ([]Case, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT ` + caseColumns + ` FROM cases`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, strings.ToUpper(strings.TrimSpace(status)))
	}
	query += ` ORDER BY opened_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list cases", err)
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, storeErr("list cases", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list cases", err)
	}
	return out, nil
}

// DeleteCase removes a case; its events and snapshots cascade away with it.
func (j *SQLite) DeleteCase(ctx context.Context, caseID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, caseID)
	if err != nil {
		return storeErr("delete case", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete case", err)
	}
	if n == 0 {
		return ErrNoRecord
	}
	return nil
}

// ListActiveRules returns FINAL TICKER_RULE events whose payload names the
// ticker and is still ACTIVE, ordered by event_ts ascending.
func (j *SQLite) ListActiveRules(ctx context.Context, ticker string) ([]event.Event, error) {
	ticker = NormalizeTicker(ticker)

	rows, err := j.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM decision_events
		WHERE event_type = ?
		  AND status = ?
		  AND json_extract(payload, '$.ticker') = ?
		  AND json_extract(payload, '$.status') = 'ACTIVE'
		ORDER BY event_ts ASC`,
		string(event.TickerRule), string(event.StatusFinal), ticker)
	if err != nil {
		return nil, storeErr("list rules", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr("list rules", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list rules", err)
	}
	return out, nil
}

// DeactivateRule flips a TICKER_RULE payload's status to INACTIVE. This is
// the one sanctioned rewrite of a FINAL payload: pinned rules carry their
// active flag inside the payload, and retiring a rule must not delete the
// record it documents.
func (j *SQLite) DeactivateRule(ctx context.Context, ticker, eventID string) (event.Event, error) {
	ticker = NormalizeTicker(ticker)

	row := j.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM decision_events WHERE id = ?`, eventID)
	ev, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, ErrNoRecord
		}
		return event.Event{}, storeErr("deactivate rule", err)
	}
	if ev.Type != event.TickerRule {
		return event.Event{}, ErrNoRecord
	}
	if t, _ := ev.Payload["ticker"].(string); t != ticker {
		return event.Event{}, storeErr("deactivate rule", fmt.Errorf("ticker mismatch"))
	}

	ev.Payload["status"] = "INACTIVE"
	ev.UpdatedAt = time.Now().UTC()

	payload, err := marshalJSON(ev.Payload)
	if err != nil {
		return event.Event{}, storeErr("deactivate rule", err)
	}
	_, err = j.db.ExecContext(ctx, `
		UPDATE decision_events SET payload = ?, updated_at = ? WHERE id = ?`,
		payload, ev.UpdatedAt, ev.ID,
	)
	if err != nil {
		return event.Event{}, storeErr("deactivate rule", err)
	}
	return ev, nil
}

// SaveSnapshot persists a compiled thesis snapshot.
func (j *SQLite) SaveSnapshot(ctx context.Context, s Snapshot) error {
	compiled, err := marshalJSON(s.Compiled)
	if err != nil {
		return storeErr("encode snapshot", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO thesis_snapshots (id, case_id, asof, compiled, narrative, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.CaseID, s.AsOf, compiled, s.Narrative, s.CreatedAt,
	)
	if err != nil {
		return storeErr("save snapshot", err)
	}
	return nil
}

// LatestSnapshot returns the newest snapshot for the case with asof at or
// before the given time.
func (j *SQLite) LatestSnapshot(ctx context.Context, caseID string, asof time.Time) (Snapshot, bool, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, case_id, asof, compiled, narrative, created_at
		FROM thesis_snapshots
		WHERE case_id = ? AND asof <= ?
		ORDER BY asof DESC
		LIMIT 1`, caseID, asof)

	var s Snapshot
	var compiled string
	err := row.Scan(&s.ID, &s.CaseID, &s.AsOf, &compiled, &s.Narrative, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, storeErr("latest snapshot", err)
	}
	s.Compiled, err = unmarshalJSON(compiled)
	if err != nil {
		return Snapshot{}, false, storeErr("latest snapshot", err)
	}
	return s, true, nil
}
