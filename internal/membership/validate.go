// internal/membership/validate.go
package membership

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// DNI is 5-8 digits plus a control letter; NIE adds a leading X, Y or Z.
	idNumberPattern = regexp.MustCompile(`^[XYZ]?\d{5,8}[A-Z]$`)
	// Spanish mobile: optional +34, first digit 6-9, nine digits in 3-3-3
	// groups with optional single spaces between them.
	phonePattern = regexp.MustCompile(`^(\+34 ?)?[6-9]\d{2} ?\d{3} ?\d{3}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidIDNumber reports whether s has the shape of a Spanish DNI or NIE.
func ValidIDNumber(s string) bool { return idNumberPattern.MatchString(s) }

// ValidPhone reports whether s has the shape of a Spanish mobile number.
func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

// ValidEmail reports whether s has a local@domain.tld shape.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// Validate checks a candidate member and returns one message per failed
// rule. An empty result means the member is admissible. Every rule runs;
// nothing short-circuits.
func Validate(m Member) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if m.MemberNumber == 0 {
		add("member number is required")
	}
	if blank(m.Name) {
		add("name is required")
	}
	if m.DateOfBirth.IsZero() {
		add("date of birth is required")
	}
	switch {
	case blank(m.IDNumber):
		add("ID number is required")
	case !ValidIDNumber(m.IDNumber):
		add("ID number must be a valid DNI or NIE")
	}
	if blank(m.Address) {
		add("address is required")
	}
	switch {
	case blank(m.Phone):
		add("phone is required")
	case !ValidPhone(m.Phone):
		add("phone must be a valid Spanish mobile number")
	}
	switch {
	case blank(m.Email):
		add("email is required")
	case !ValidEmail(m.Email):
		add("email must be a valid email address")
	}
	if m.RegisteredAt.IsZero() {
		add("registration date is required")
	}

	for i, c := range m.Children {
		if blank(c.Name) {
			add("child %d: name is required", i+1)
		}
		if c.DateOfBirth.IsZero() {
			add("child %d: date of birth is required", i+1)
		}
	}

	for i, p := range m.Payments {
		for _, msg := range paymentProblems(p) {
			add("payment %d: %s", i+1, msg)
		}
	}

	return problems
}

func paymentProblems(p Payment) []string {
	var problems []string
	switch p.Kind {
	case PaymentYearly:
		if p.Year == 0 {
			problems = append(problems, "year is required")
		}
	case PaymentRecord:
		if p.Date.IsZero() {
			problems = append(problems, "date is required")
		}
		if p.Amount == 0 {
			problems = append(problems, "amount is required")
		}
		if p.Year == 0 {
			problems = append(problems, "year is required")
		}
	case PaymentPeriod:
		if p.FromDate.IsZero() {
			problems = append(problems, "start date is required")
		}
		if p.ToDate.IsZero() {
			problems = append(problems, "end date is required")
		}
		if p.CreatedAt.IsZero() {
			problems = append(problems, "creation date is required")
		}
		if !p.FromDate.IsZero() && !p.ToDate.IsZero() && p.ToDate.Before(p.FromDate) {
			problems = append(problems, "end date is before start date")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown payment kind %q", p.Kind))
	}
	return problems
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
