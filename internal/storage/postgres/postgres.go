// Package postgres provides a PostgreSQL-backed membership.Store. Every
// write also appends to the member event journal in the same transaction.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"clubnexus/internal/eventstore"
	"clubnexus/internal/membership"
)

const aggregateType = "member"

const schema = `
CREATE TABLE IF NOT EXISTS members (
    id UUID PRIMARY KEY,
    seq BIGSERIAL NOT NULL,
    member_number INTEGER NOT NULL,
    data JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_seq ON members(seq);
`

var _ membership.Store = (*Store)(nil)

// Store implements membership.Store on PostgreSQL.
type Store struct {
	db     *sql.DB
	events *eventstore.EventStore
	tracer trace.Tracer
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the tables if needed.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema+eventstore.Schema); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{
		db:     db,
		events: eventstore.NewEventStore(db),
		tracer: otel.Tracer("clubnexus/storage/postgres"),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns all members, most recently created first.
func (s *Store) Load(ctx context.Context) ([]membership.Member, error) {
	ctx, span := s.tracer.Start(ctx, "postgres.load")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `SELECT data FROM members ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []membership.Member
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		var m membership.Member
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	span.SetAttributes(attribute.Int("members.loaded", len(members)))
	return members, nil
}

func (s *Store) Insert(ctx context.Context, m membership.Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode member: %w", err)
	}
	return s.inTx(ctx, "postgres.insert", m.ID, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO members (id, member_number, data) VALUES ($1, $2, $3)`,
			m.ID, m.MemberNumber, data,
		); err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
		_, err := s.events.Append(ctx, tx, m.ID, aggregateType, string(membership.EventMemberCreated),
			membership.MemberCreatedEvent{ID: m.ID, MemberNumber: m.MemberNumber, Name: m.Name}, 0)
		return err
	})
}

func (s *Store) Replace(ctx context.Context, m membership.Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode member: %w", err)
	}
	return s.inTx(ctx, "postgres.replace", m.ID, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE members SET member_number = $1, data = $2, updated_at = NOW() WHERE id = $3`,
			m.MemberNumber, data, m.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("member with ID %s: %w", m.ID, membership.ErrMemberNotFound)
		}
		_, err = s.events.Append(ctx, tx, m.ID, aggregateType, string(membership.EventMemberUpdated),
			membership.MemberUpdatedEvent{
				ID:           m.ID,
				MemberNumber: m.MemberNumber,
				Unpaid:       m.Unpaid,
				LongUnpaid:   m.LongUnpaid,
				IsRetired:    m.IsRetired,
			}, -1)
		return err
	})
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, "postgres.delete", id, func(ctx context.Context, tx *sql.Tx) error {
		var number int
		err := tx.QueryRowContext(ctx,
			`DELETE FROM members WHERE id = $1 RETURNING member_number`, id,
		).Scan(&number)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		_, err = s.events.Append(ctx, tx, id, aggregateType, string(membership.EventMemberDeleted),
			membership.MemberDeletedEvent{ID: id, MemberNumber: number}, -1)
		return err
	})
}

// History returns the journal entries recorded for one member.
func (s *Store) History(ctx context.Context, id uuid.UUID) ([]eventstore.Event, error) {
	return s.events.LoadEvents(ctx, id, 0, 0)
}

func (s *Store) inTx(ctx context.Context, name string, id uuid.UUID, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, span := s.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("member.id", id.String())),
	)
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		span.RecordError(err)
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
