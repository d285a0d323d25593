package storage

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteSchema mirrors migrations/schema.sql in sqlite dialect. The
// repositories emit portable SQL, so the same statements run against
// both engines.
const sqliteSchema = `
CREATE TABLE account (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL
);

CREATE TABLE team (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL
);

CREATE TABLE team_member (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    team_id    INTEGER NOT NULL,
    account_id INTEGER NOT NULL,
    role       TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    UNIQUE (team_id, account_id)
);

CREATE TABLE item (
    team_id     INTEGER NOT NULL,
    item_code   TEXT NOT NULL,
    item_name   TEXT NOT NULL,
    item_price  NUMERIC NULL,
    quantity    INTEGER NOT NULL DEFAULT 0,
    fold_cursor INTEGER NOT NULL DEFAULT 0,
    version     INTEGER NOT NULL DEFAULT 0,
    updated_at  DATETIME NOT NULL,
    updated_by  TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (team_id, item_code)
);

CREATE TABLE ledger_entry (
    sequence     INTEGER PRIMARY KEY AUTOINCREMENT,
    team_id      INTEGER NOT NULL,
    item_code    TEXT NOT NULL,
    action       TEXT NOT NULL,
    quantity     INTEGER NOT NULL,
    price        NUMERIC NULL,
    supplier_ref TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'committed',
    updated_at   DATETIME NOT NULL,
    updated_by   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_ledger_item ON ledger_entry (team_id, item_code, sequence);

CREATE TABLE supplier (
    team_id       INTEGER NOT NULL,
    supplier_code TEXT NOT NULL,
    supplier_name TEXT NOT NULL,
    updated_at    DATETIME NOT NULL,
    updated_by    TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (team_id, supplier_code)
);
`

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second connection would see an empty, separate :memory: database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db)
}
