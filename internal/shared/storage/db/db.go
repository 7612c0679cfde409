package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	_ "github.com/mattn/go-sqlite3"    // register sqlite3 as database/sql driver
)

// ErrUnavailable marks failures to open or reach the underlying engine.
var ErrUnavailable = errors.New("storage unavailable")

// Settings selects and configures the storage engine.
type Settings struct {
	Driver      string // "sqlite" or "postgres"
	SQLitePath  string
	DatabaseURL string
	PingTimeout time.Duration
}

var (
	openDB         = sql.Open
	singletonMu    sync.Mutex
	singletonCond  = sync.NewCond(&singletonMu)
	singletonDB    *sql.DB
	singletonInFly bool
)

// Open returns a process-wide *sql.DB, initializing it once. Concurrent
// callers during initialization wait for the first caller's result. If
// initialization fails, a later call will retry until successful.
func Open(ctx context.Context, s Settings) (*sql.DB, error) {
	singletonMu.Lock()
	if singletonDB != nil {
		singletonMu.Unlock()
		return singletonDB, nil
	}
	if singletonInFly {
		for singletonInFly && singletonDB == nil {
			singletonCond.Wait()
		}
		if singletonDB != nil {
			singletonMu.Unlock()
			return singletonDB, nil
		}
	}
	singletonInFly = true
	singletonMu.Unlock()

	conn, err := Connect(ctx, s)

	singletonMu.Lock()
	if err == nil {
		singletonDB = conn
	}
	singletonInFly = false
	singletonCond.Broadcast()
	singletonMu.Unlock()

	if err == nil {
		log.Printf("store handle cold-start init driver=%s", s.Driver)
	}
	return singletonDB, err
}

// Reset closes and forgets the singleton handle so tests can inject a fresh
// engine per run.
func Reset() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singletonDB != nil {
		_ = singletonDB.Close()
		singletonDB = nil
	}
	singletonInFly = false
}

// Connect opens a *sql.DB for the configured engine and verifies
// connectivity. Most callers should use Open instead so the handle is shared.
func Connect(ctx context.Context, s Settings) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch s.Driver {
	case "postgres":
		conn, err = openPostgres(s.DatabaseURL)
	case "sqlite", "":
		conn, err = openSQLite(s.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrUnavailable, s.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	pingTimeout := s.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return conn, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("SQLITE_PATH is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	conn, err := openDB("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite supports one writer at a time; a single pooled connection
	// avoids SQLITE_BUSY under concurrent handlers.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return conn, nil
}

func openPostgres(databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	conn, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(2 * time.Minute)
	return conn, nil
}
