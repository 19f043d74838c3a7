package membership

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestAge(t *testing.T) {
	on := date(2025, 6, 1)
	assert.Equal(t, 35, Age(date(1990, 1, 1), on))
	assert.Equal(t, 35, Age(date(1990, 6, 1), on), "birthday today counts")
	assert.Equal(t, 34, Age(date(1990, 6, 2), on), "birthday tomorrow does not")
	assert.Equal(t, 34, Age(date(1990, 12, 31), on))
	assert.Equal(t, 0, Age(date(2025, 6, 1), on))
}

func TestAge_LeapDayBirthday(t *testing.T) {
	leap := date(2000, 2, 29)
	assert.Equal(t, 17, Age(leap, date(2018, 2, 27)))
	assert.Equal(t, 18, Age(leap, date(2018, 2, 28)), "28 February in a common year")
	assert.Equal(t, 19, Age(leap, date(2019, 3, 1)))
	assert.Equal(t, 19, Age(leap, date(2020, 2, 28)), "leap year waits for 29 February")
	assert.Equal(t, 20, Age(leap, date(2020, 2, 29)))

	m := anaMember()
	m.Children = []Child{{Name: "Leap", DateOfBirth: leap}}
	assert.False(t, Derive(m, at(2018, 2, 28)).HasUnderAgeKids)
}

func TestRecentYears(t *testing.T) {
	assert.Equal(t, []int{2025, 2024, 2023}, RecentYears(at(2025, 6, 1)))
}

func TestDerive_EndToEndScenario(t *testing.T) {
	got := Derive(anaMember(), at(2025, 6, 1))
	assert.False(t, got.IsRetired)
	assert.True(t, got.Unpaid)
	assert.True(t, got.LongUnpaid)
	assert.False(t, got.HasUnderAgeKids)
}

func TestDerive_UnderAgeKids(t *testing.T) {
	now := at(2025, 6, 1)
	m := anaMember()

	m.Children = []Child{{Name: "Adult", DateOfBirth: date(2007, 6, 1)}}
	assert.False(t, Derive(m, now).HasUnderAgeKids, "turns 18 today")

	m.Children = append(m.Children, Child{Name: "Minor", DateOfBirth: date(2007, 6, 2)})
	assert.True(t, Derive(m, now).HasUnderAgeKids)
}

func TestDerive_Retirement(t *testing.T) {
	now := at(2025, 6, 1)

	m := anaMember()
	m.DateOfBirth = date(1958, 6, 1)
	assert.True(t, Derive(m, now).IsRetired, "exactly 67 today")

	m.DateOfBirth = date(1958, 6, 2)
	assert.False(t, Derive(m, now).IsRetired, "67 tomorrow")

	m = anaMember()
	m.DateOfBirth = date(1995, 1, 1)
	m.IsRetired = true
	assert.True(t, Derive(m, now).IsRetired, "caller-supplied flag is kept at age 30")
}

func TestDerive_PaymentWindows(t *testing.T) {
	now := at(2025, 6, 1)
	tests := []struct {
		name       string
		payments   []Payment
		unpaid     bool
		longUnpaid bool
	}{
		{
			name:       "no payments",
			payments:   nil,
			unpaid:     true,
			longUnpaid: true,
		},
		{
			name:       "current year record",
			payments:   []Payment{{Kind: PaymentRecord, Year: 2025, Amount: 20, Date: date(2025, 1, 10)}},
			unpaid:     false,
			longUnpaid: false,
		},
		{
			name:       "two years ago",
			payments:   YearlyPayments([]int{2023}),
			unpaid:     true,
			longUnpaid: false,
		},
		{
			name:       "all older than window",
			payments:   YearlyPayments([]int{2018, 2019, 2020, 2021, 2022}),
			unpaid:     true,
			longUnpaid: true,
		},
		{
			name: "period spanning the current year",
			payments: []Payment{{
				Kind:      PaymentPeriod,
				FromDate:  date(2024, 9, 1),
				ToDate:    date(2025, 8, 31),
				CreatedAt: date(2024, 9, 1),
			}},
			unpaid:     false,
			longUnpaid: false,
		},
		{
			name:       "future year only",
			payments:   YearlyPayments([]int{2026}),
			unpaid:     true,
			longUnpaid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := anaMember()
			m.Payments = tt.payments
			got := Derive(m, now)
			assert.Equal(t, tt.unpaid, got.Unpaid, "unpaid")
			assert.Equal(t, tt.longUnpaid, got.LongUnpaid, "longUnpaid")
		})
	}
}

func TestDerive_DoesNotModifyInput(t *testing.T) {
	m := anaMember()
	m.Payments = YearlyPayments([]int{2025})
	before := m.clone()

	got := Derive(m, at(2025, 6, 1))
	got.Payments[0].Year = 1900

	assert.Equal(t, before, m)
}

func TestDerive_OverwritesStaleDerivedFields(t *testing.T) {
	m := anaMember()
	m.Unpaid = false
	m.LongUnpaid = false
	m.HasUnderAgeKids = true

	got := Derive(m, at(2025, 6, 1))
	assert.True(t, got.Unpaid)
	assert.True(t, got.LongUnpaid)
	assert.False(t, got.HasUnderAgeKids)
}

func drawDate(t *rapid.T, label string) civil.Date {
	return civil.Date{
		Year:  rapid.IntRange(1920, 2030).Draw(t, label+".year"),
		Month: time.Month(rapid.IntRange(1, 12).Draw(t, label+".month")),
		Day:   rapid.IntRange(1, 28).Draw(t, label+".day"),
	}
}

func drawMember(t *rapid.T) Member {
	m := anaMember()
	m.DateOfBirth = drawDate(t, "dob")
	m.IsRetired = rapid.Bool().Draw(t, "retired")
	for range rapid.IntRange(0, 3).Draw(t, "children") {
		m.Children = append(m.Children, Child{Name: "c", DateOfBirth: drawDate(t, "child")})
	}
	m.Payments = YearlyPayments(rapid.SliceOfN(rapid.IntRange(2000, 2030), 0, 6).Draw(t, "years"))
	return m
}

func TestDerive_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := drawMember(t)
		d := drawDate(t, "now")
		now := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)

		once := Derive(m, now)
		assert.Equal(t, once, Derive(once, now))
	})
}

func TestDerive_CallerRetiredIsNeverDemoted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := drawMember(t)
		m.IsRetired = true
		d := drawDate(t, "now")
		now := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)

		if !Derive(m, now).IsRetired {
			t.Fatalf("retired member demoted at %v", now)
		}
	})
}
