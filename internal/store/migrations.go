package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "candidates: the read-only friend directory",
		SQL: `
CREATE TABLE candidates (
    id              INTEGER PRIMARY KEY,
    nickname        TEXT NOT NULL,
    year            INTEGER NOT NULL,
    period          TEXT NOT NULL,
    location        TEXT NOT NULL,
    additional_info TEXT NOT NULL DEFAULT '',
    bio             TEXT NOT NULL DEFAULT '',
    created_at      INTEGER NOT NULL
);

CREATE INDEX idx_candidates_year ON candidates(year);
`,
	},
	{
		Version:     2,
		Description: "users: accounts and memory profiles",
		SQL: `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    nickname      TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    birth_year    INTEGER NOT NULL DEFAULT 0,
    gender        TEXT NOT NULL DEFAULT '' CHECK (gender IN ('', 'male', 'female')),
    profile       TEXT,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);
`,
	},
	{
		Version:     3,
		Description: "requests: sent friend requests and the received inbox",
		SQL: `
CREATE TABLE sent_requests (
    user_id      TEXT NOT NULL,
    candidate_id INTEGER NOT NULL,
    created_at   INTEGER NOT NULL,

    PRIMARY KEY (user_id, candidate_id),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (candidate_id) REFERENCES candidates(id)
);

CREATE TABLE received_requests (
    id              INTEGER PRIMARY KEY,
    user_id         TEXT NOT NULL,
    nickname        TEXT NOT NULL,
    year_range      TEXT NOT NULL DEFAULT '',
    location        TEXT NOT NULL DEFAULT '',
    school_or_work  TEXT NOT NULL DEFAULT '',
    old_nickname    TEXT NOT NULL DEFAULT '',
    additional_info TEXT NOT NULL DEFAULT '',
    sent_at         TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'blocked', 'skipped')),
    updated_at      INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX idx_received_user ON received_requests(user_id, status);
`,
	},
	{
		Version:     4,
		Description: "chats: conversations opened by accepted requests",
		SQL: `
CREATE TABLE chats (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    request_id      INTEGER NOT NULL UNIQUE,
    friend_nickname TEXT NOT NULL,
    created_at      INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (request_id) REFERENCES received_requests(id)
);

CREATE TABLE messages (
    id         INTEGER PRIMARY KEY,
    chat_id    TEXT NOT NULL,
    sender     TEXT NOT NULL CHECK (sender IN ('system', 'me', 'friend')),
    text       TEXT NOT NULL,
    created_at INTEGER NOT NULL,

    FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
);

CREATE INDEX idx_messages_chat ON messages(chat_id, id);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
