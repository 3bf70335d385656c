// Package sqlite opens the portal's SQLite database and applies its embedded migrations.
// The driver is modernc.org/sqlite (pure Go, no CGO).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// NewDB opens (or creates) the database at path with:
//   - WAL journal mode
//   - foreign keys enforced
//   - 5s busy timeout
//   - synchronous=NORMAL
//
// ":memory:" gives a private in-memory database; it is pinned to one connection
// because every new connection would otherwise see an empty database.
// The parent directory must already exist.
func NewDB(path string) (*sql.DB, error) {
	if path != memoryPath {
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("sqlite.NewDB: parent directory %q does not exist", dir)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.NewDB: open %q: %w", path, err)
	}

	if path == memoryPath {
		db.SetMaxOpenConns(1)
	} else {
		// readers share the pool; SQLite serializes writers
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	}

	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("sqlite.NewDB: ping %q: %w", path, err)
	}
	return db, nil
}

// InTx runs fn inside one transaction, committing when fn returns nil.
// Every read-modify-write on a row goes through here so concurrent updates never interleave.
func InTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
