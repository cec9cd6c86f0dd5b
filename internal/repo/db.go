// Package repo is the persistence layer of the journal: SQLite bootstrap,
// ordered schema migrations, the retrying transaction gateway, and thin,
// context-aware query functions over the domain models.
//
// Query functions take a *gorm.DB so they run equally on the root handle or
// inside a transaction opened by Gateway.InTx. They hold no business rules.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteOptions tunes the connection pool and the per-connection pragmas.
type SQLiteOptions struct {
	BusyTimeout     time.Duration
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DefaultSQLiteOptions mirrors the configuration defaults.
func DefaultSQLiteOptions() SQLiteOptions {
	return SQLiteOptions{
		BusyTimeout:     5 * time.Second,
		MaxOpenConns:    10,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// DSN appends the pragmas every pooled connection must carry. Pragmas set
// with Exec would only reach one connection of the pool.
func DSN(path string, opts SQLiteOptions) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		path, sep, opts.BusyTimeout.Milliseconds())
}

// OpenSQLite opens (or creates) the database at path with foreign keys
// enforced, WAL journaling, and a busy timeout.
func OpenSQLite(path string, opts SQLiteOptions) (*gorm.DB, error) {
	// Fail early if the parent directory is missing; the driver would report
	// an opaque "out of memory (14)".
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(DSN(path, opts)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	// Touch the file now so a bad path surfaces here, not on first request.
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}
