package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/decisionlog/event"
)

// SQLite is the file-backed record store. Per-request transaction scope is
// the driver's: each method is a single statement or a single transaction,
// committed on success and rolled back on any error.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the journal database at path.
// Foreign keys are enabled so case deletion cascades to events.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, storeErr("open", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, storeErr("migrate", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func marshalJSON(m map[string]any) (string, error) {
	if m == nil {
		m = map[string]any{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalJSON(s string) (map[string]any, error) {
	if s == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func (j *SQLite) CreateEvent(ctx context.Context, ev event.Event) error {
	payload, err := marshalJSON(ev.Payload)
	if err != nil {
		return storeErr("encode payload", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO decision_events
		(id, case_id, event_ts, event_type, payload, status, updated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.CaseID, ev.EventTs, string(ev.Type), payload,
		string(ev.Status), ev.UpdatedAt, ev.CreatedAt,
	)
	if err != nil {
		return storeErr("create event", err)
	}
	return nil
}

const eventColumns = `id, case_id, event_ts, event_type, payload, status, updated_at, created_at`

func scanEvent(row interface{ Scan(...any) error }) (event.Event, error) {
	var ev event.Event
	var typ, status, payload string

	err := row.Scan(
		&ev.ID,
		&ev.CaseID,
		&ev.EventTs,
		&typ,
		&payload,
		&status,
		&ev.UpdatedAt,
		&ev.CreatedAt,
	)
	if err != nil {
		return event.Event{}, err
	}

	ev.Type = event.Type(typ)
	ev.Status = event.Status(status)
	ev.Payload, err = unmarshalJSON(payload)
	if err != nil {
		return event.Event{}, fmt.Errorf("decode payload for %s: %w", ev.ID, err)
	}
	return ev, nil
}

func (j *SQLite) GetEvent(ctx context.Context, caseID, id string) (event.Event, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM decision_events
		WHERE id = ? AND case_id = ?`, id, caseID)

	ev, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, ErrNoRecord
		}
		return event.Event{}, storeErr("get event", err)
	}
	return ev, nil
}

func (j *SQLite) FindDraft(ctx context.Context, caseID string, t event.Type) (event.Event, bool, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM decision_events
		WHERE case_id = ? AND event_type = ? AND status = ?
		ORDER BY updated_at DESC
		LIMIT 1`, caseID, string(t), string(event.StatusDraft))

	ev, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, storeErr("find draft", err)
	}
	return ev, true, nil
}

func (j *SQLite) ListFinal(ctx context.Context, caseID string) ([]event.Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM decision_events
		WHERE case_id = ? AND status = ?
		ORDER BY event_ts ASC`, caseID, string(event.StatusFinal))
	if err != nil {
		return nil, storeErr("list final", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr("list final", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list final", err)
	}
	return out, nil
}

func (j *SQLite) UpdateEvent(ctx context.Context, ev event.Event) error {
	payload, err := marshalJSON(ev.Payload)
	if err != nil {
		return storeErr("encode payload", err)
	}

	res, err := j.db.ExecContext(ctx, `
		UPDATE decision_events
		SET payload = ?, status = ?, updated_at = ?
		WHERE id = ? AND case_id = ?`,
		payload, string(ev.Status), ev.UpdatedAt, ev.ID, ev.CaseID,
	)
	if err != nil {
		return storeErr("update event", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("update event", err)
	}
	if n == 0 {
		return ErrNoRecord
	}
	return nil
}

var _ Store = (*SQLite)(nil)
