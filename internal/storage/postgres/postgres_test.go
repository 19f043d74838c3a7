package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubnexus/internal/membership"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	getenv := func(key, defaultValue string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return defaultValue
	}
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getenv("PGHOST", "localhost"),
		getenv("PGPORT", "5432"),
		getenv("PGUSER", "user"),
		getenv("PGPASSWORD", "password"),
		getenv("PGDATABASE", "testdb"),
	)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: could not connect to postgres: %v", err)
	}

	s, err := New(context.Background(), db)
	require.NoError(t, err)
	_, err = db.Exec("TRUNCATE TABLE members, member_events")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testMember(number int) membership.Member {
	return membership.Member{
		ID:           uuid.New(),
		MemberNumber: number,
		Name:         "Ana",
		IDNumber:     "12345678A",
		Address:      "X",
		Phone:        "666777888",
		Email:        "a@b.com",
		DateOfBirth:  civil.Date{Year: 1990, Month: time.January, Day: 1},
		RegisteredAt: civil.Date{Year: 2020, Month: time.January, Day: 1},
		Payments:     membership.YearlyPayments([]int{2024}),
	}
}

func TestStore_RoundTripAndJournal(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	a := testMember(1)
	b := testMember(2)
	require.NoError(t, s.Insert(ctx, a))
	require.NoError(t, s.Insert(ctx, b))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a, got[1])

	a.Unpaid = true
	require.NoError(t, s.Replace(ctx, a))
	assert.ErrorIs(t, s.Replace(ctx, testMember(3)), membership.ErrMemberNotFound)

	require.NoError(t, s.Delete(ctx, a.ID))
	require.NoError(t, s.Delete(ctx, a.ID))

	history, err := s.History(ctx, a.ID)
	require.NoError(t, err)
	types := make([]string, len(history))
	for i, e := range history {
		types[i] = e.EventType
	}
	assert.Equal(t, []string{
		string(membership.EventMemberCreated),
		string(membership.EventMemberUpdated),
		string(membership.EventMemberDeleted),
	}, types)

	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestStore_DuplicateInsertRollsBack(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	m := testMember(1)
	require.NoError(t, s.Insert(ctx, m))
	require.Error(t, s.Insert(ctx, m))

	history, err := s.History(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
