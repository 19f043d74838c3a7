package membership

import (
	"time"
)

// at returns noon UTC on the given day.
func at(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// anaInput is a complete, valid member with no children and no payments.
func anaInput() MemberInput {
	return MemberInput{
		MemberNumber: 1001,
		Name:         "Ana",
		IDNumber:     "12345678A",
		Phone:        "666777888",
		Email:        "a@b.com",
		DateOfBirth:  date(1990, 1, 1),
		Address:      "X",
		RegisteredAt: date(2020, 1, 1),
		Children:     []Child{},
		Payments:     []Payment{},
	}
}

func anaMember() Member {
	return anaInput().member()
}
