package journal

const Schema = `
CREATE TABLE IF NOT EXISTS cases (
	id TEXT PRIMARY KEY,
	ticker TEXT NOT NULL,
	book TEXT NOT NULL,
	status TEXT NOT NULL,
	opened_at DATETIME NOT NULL,
	closed_at DATETIME,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS decision_events (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	event_ts DATETIME NOT NULL,
	event_type TEXT NOT NULL,
	payload TEXT NOT NULL DEFAULT '{}',
	status TEXT NOT NULL DEFAULT 'FINAL',
	updated_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS thesis_snapshots (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	asof DATETIME NOT NULL,
	compiled TEXT NOT NULL,
	narrative TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_case_ts ON decision_events(case_id, event_ts);
CREATE INDEX IF NOT EXISTS idx_events_case_type_status ON decision_events(case_id, event_type, status);
CREATE INDEX IF NOT EXISTS idx_snapshots_case_asof ON thesis_snapshots(case_id, asof);
CREATE INDEX IF NOT EXISTS idx_cases_ticker_book ON cases(ticker, book, status);

-- Backstop for the one-draft-per-(case, event type) invariant. The
-- controller's find-or-create is not atomic against a competing create;
-- this index is the authoritative guard.
CREATE UNIQUE INDEX IF NOT EXISTS idx_events_one_draft
	ON decision_events(case_id, event_type) WHERE status = 'DRAFT';
`
