// Package sqlite provides a SQLite-backed implementation of membership.Store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"clubnexus/internal/membership"
)

// Ensure SQLiteStore implements membership.Store
var _ membership.Store = (*SQLiteStore)(nil)

// SQLiteStore implements membership.Store using SQLite. Members are kept as
// JSON documents; seq preserves creation order.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps writes serialised.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns every member, most recently created first.
func (s *SQLiteStore) Load(ctx context.Context) ([]membership.Member, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM members ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []membership.Member
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		var m membership.Member
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("failed to decode member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// Insert persists a new member.
func (s *SQLiteStore) Insert(ctx context.Context, m membership.Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode member: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO members (id, member_number, data) VALUES (?, ?, ?)",
		m.ID.String(), m.MemberNumber, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// Replace overwrites an existing member in place.
func (s *SQLiteStore) Replace(ctx context.Context, m membership.Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode member: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE members SET member_number = ?, data = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		m.MemberNumber, string(data), m.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("member with ID %s: %w", m.ID, membership.ErrMemberNotFound)
	}
	return nil
}

// Delete removes a member by ID. Absent IDs are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}
