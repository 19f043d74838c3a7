package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubnexus/internal/membership"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "members.db")
	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
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
		Children:     []membership.Child{{Name: "Kid", DateOfBirth: civil.Date{Year: 2015, Month: time.March, Day: 4}}},
		Payments: []membership.Payment{
			{Kind: membership.PaymentYearly, Year: 2024},
			{
				Kind:      membership.PaymentPeriod,
				ID:        uuid.New(),
				FromDate:  civil.Date{Year: 2025, Month: time.January, Day: 1},
				ToDate:    civil.Date{Year: 2025, Month: time.December, Day: 31},
				CreatedAt: civil.Date{Year: 2025, Month: time.January, Day: 2},
			},
		},
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a := testMember(1)
	b := testMember(2)
	require.NoError(t, s.Insert(ctx, a))
	require.NoError(t, s.Insert(ctx, b))
	assert.Error(t, s.Insert(ctx, a), "duplicate id")

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b, got[0])
	assert.Equal(t, a, got[1])

	a.Name = "Renamed"
	require.NoError(t, s.Replace(ctx, a))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got[1].Name, "replace keeps position")

	assert.ErrorIs(t, s.Replace(ctx, testMember(3)), membership.ErrMemberNotFound)

	require.NoError(t, s.Delete(ctx, b.ID))
	require.NoError(t, s.Delete(ctx, b.ID))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	m := testMember(1)
	require.NoError(t, s.Insert(ctx, m))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, m, got[0])
}

func TestSQLiteStore_BacksService(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	svc, err := membership.NewService(ctx, s)
	require.NoError(t, err)
	require.NoError(t, membership.Seed(ctx, svc, membership.SeedMembers()))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	svc, err = membership.NewService(ctx, reopened)
	require.NoError(t, err)
	list := svc.List(ctx, membership.Query{})
	require.Len(t, list, len(membership.SeedMembers()))
	assert.Equal(t, 1001, list[0].MemberNumber)
}
