// internal/membership/derive.go
package membership

import (
	"time"

	"cloud.google.com/go/civil"
)

const (
	// RetirementAge is the age at which a member is promoted to retired.
	RetirementAge = 67
	// AdultAge is the age below which a child counts as under age.
	AdultAge = 18
	// DuesWindowYears is the length of the trailing window used for LongUnpaid.
	DuesWindowYears = 3
)

// Derive recomputes the derived status fields of m as of now. It is a pure
// function of its inputs; m itself is not modified.
func Derive(m Member, now time.Time) Member {
	out := m.clone()
	today := civil.DateOf(now)

	out.HasUnderAgeKids = false
	for _, c := range out.Children {
		if Age(c.DateOfBirth, today) < AdultAge {
			out.HasUnderAgeKids = true
			break
		}
	}

	out.Unpaid = !coversYear(out.Payments, today.Year)
	out.LongUnpaid = true
	for _, y := range RecentYears(now) {
		if coversYear(out.Payments, y) {
			out.LongUnpaid = false
			break
		}
	}

	out.IsRetired = m.IsRetired || Age(m.DateOfBirth, today) >= RetirementAge
	return out
}

// Age returns the number of whole years elapsed between birth and on. A
// birthday later in the year of on does not count. A 29 February birthday
// falls on 28 February in years without one.
func Age(birth, on civil.Date) int {
	years := on.Year - birth.Year
	month, day := birth.Month, birth.Day
	if month == time.February && day == 29 && !(civil.Date{Year: on.Year, Month: month, Day: day}).IsValid() {
		day = 28
	}
	if on.Month < month || (on.Month == month && on.Day < day) {
		years--
	}
	return years
}

// RecentYears returns the dues window ending at the calendar year of now,
// most recent first.
func RecentYears(now time.Time) []int {
	years := make([]int, DuesWindowYears)
	for i := range years {
		years[i] = now.Year() - i
	}
	return years
}

func coversYear(payments []Payment, year int) bool {
	for _, p := range payments {
		if p.Covers(year) {
			return true
		}
	}
	return false
}
