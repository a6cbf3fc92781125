// ABOUTME: SQLite schema for the iteration history index
// ABOUTME: One row per saved iteration, keyed by iteration id
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS iterations (
    id TEXT PRIMARY KEY,
    project_root TEXT NOT NULL,
    model TEXT NOT NULL,
    scope_mode TEXT NOT NULL,
    prompt_units INTEGER NOT NULL DEFAULT 0,
    prompt_tokens INTEGER NOT NULL DEFAULT 0,
    response_units INTEGER NOT NULL DEFAULT 0,
    response_snippet TEXT,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_iterations_project ON iterations(project_root, created_at);
CREATE INDEX IF NOT EXISTS idx_iterations_model ON iterations(model);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
