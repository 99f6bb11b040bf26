package ledger

// schema mirrors the teacher's createTables SQL (pkg/core/store_init.go):
// one CREATE TABLE IF NOT EXISTS block plus supporting indexes, run once at
// Open. No UPDATE or DELETE statement ever appears anywhere else in this
// package — facts, supersessions, and retractions are append-only by
// construction, per spec §3.1's hard rule.
const schema = `
CREATE TABLE IF NOT EXISTS subjects (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	kind TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS facts (
	id TEXT PRIMARY KEY,
	subject_id TEXT NOT NULL,
	fact_type TEXT NOT NULL,
	value_json TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	effective_at TEXT NOT NULL,
	effective_until TEXT NOT NULL,
	source TEXT,
	confidence TEXT NOT NULL,
	recording_context TEXT NOT NULL,
	tags TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_facts_subject ON facts(subject_id);
CREATE INDEX IF NOT EXISTS idx_facts_subject_recorded ON facts(subject_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_facts_type ON facts(fact_type);

CREATE TABLE IF NOT EXISTS supersessions (
	id TEXT PRIMARY KEY,
	old_fact_id TEXT NOT NULL UNIQUE,
	new_fact_id TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_supersessions_new ON supersessions(new_fact_id);

CREATE TABLE IF NOT EXISTS retractions (
	id TEXT PRIMARY KEY,
	fact_id TEXT NOT NULL UNIQUE,
	reason TEXT,
	recorded_at TEXT NOT NULL
);
`
