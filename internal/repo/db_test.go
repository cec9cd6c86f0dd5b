package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "does-not-exist", "journal.db")

	db, err := OpenSQLite(bad, DefaultSQLiteOptions())
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}
	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestDSN_AppendsPragmas(t *testing.T) {
	got := DSN("journal.db", SQLiteOptions{BusyTimeout: 1500 * time.Millisecond})
	if !strings.HasPrefix(got, "journal.db?_pragma=foreign_keys(1)") || !strings.Contains(got, "busy_timeout(1500)") {
		t.Fatalf("DSN = %q", got)
	}
	if got := DSN("file:x?mode=memory", SQLiteOptions{}); !strings.HasPrefix(got, "file:x?mode=memory&_pragma=") {
		t.Fatalf("DSN with existing query = %q", got)
	}
}

func TestOpenSQLite_PragmasOnEveryConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	opts := DefaultSQLiteOptions()
	opts.BusyTimeout = 2 * time.Second
	opts.MaxOpenConns = 4

	db, err := OpenSQLite(path, opts)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 4 {
		t.Fatalf("expected MaxOpenConnections=4, got %d", stats.MaxOpenConnections)
	}

	// Hold one connection so the next query is served by another.
	held, err := sqlDB.Conn(context.Background())
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer held.Close()

	var (
		journalMode string
		fkOn        int
		busyMS      int
	)
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil || strings.ToLower(journalMode) != "wal" {
		t.Fatalf("journal_mode = %q, %v", journalMode, err)
	}
	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil || fkOn != 1 {
		t.Fatalf("foreign_keys = %d, %v", fkOn, err)
	}
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil || busyMS != 2000 {
		t.Fatalf("busy_timeout = %d, %v", busyMS, err)
	}
	if err := held.QueryRowContext(context.Background(), "PRAGMA foreign_keys;").Scan(&fkOn); err != nil || fkOn != 1 {
		t.Fatalf("held conn foreign_keys = %d, %v", fkOn, err)
	}
}
