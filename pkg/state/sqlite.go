// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the record as a JSON payload in a one-row-per-slot table.
type SQLiteStore struct {
	db   *sql.DB
	slot string
	// serializes read-modify-write cycles from this process to avoid SQLITE_BUSY
	mu sync.Mutex
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
func NewSQLiteStore(dbPath, slot string) (*SQLiteStore, error) {
	if slot == "" {
		slot = DefaultKey
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, slot: slot}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logrus.Infof("opened SQLite state store at %s (slot %s)", dbPath, slot)
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS countdown_state (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) get(ctx context.Context, q queryRower) (*PersistedState, error) {
	var payload string
	err := q.QueryRowContext(ctx, `SELECT payload FROM countdown_state WHERE slot = ?`, s.slot).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan state row: %w", err)
	}

	return Decode([]byte(payload))
}

func (s *SQLiteStore) put(ctx context.Context, e execer, st *PersistedState) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO countdown_state (slot, payload, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET
		payload = excluded.payload,
		updated_at = excluded.updated_at`

	if _, err := e.ExecContext(ctx, query, s.slot, string(data), time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// Get retrieves the record.
func (s *SQLiteStore) Get(ctx context.Context) (*PersistedState, error) {
	return s.get(ctx, s.db)
}

// Put overwrites the record.
func (s *SQLiteStore) Put(ctx context.Context, st *PersistedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.put(ctx, s.db, st)
}

// Update applies fn to the latest record inside a transaction.
func (s *SQLiteStore) Update(ctx context.Context, fn UpdateFunc) (*PersistedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logrus.Warnf("failed to roll back state transaction: %v", rbErr)
		}
	}()

	st, err := s.get(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := fn(st); err != nil {
		return nil, err
	}

	if err := s.put(ctx, tx, st); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return st, nil
}

// Delete removes the record.
func (s *SQLiteStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM countdown_state WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
