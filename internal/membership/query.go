// internal/membership/query.go
package membership

import (
	"fmt"
	"strconv"
	"strings"
)

// Flag selects members by one of their boolean status fields.
type Flag string

const (
	FlagNone            Flag = ""
	FlagUnpaid          Flag = "unpaid"
	FlagHasUnderAgeKids Flag = "hasUnderAgeKids"
	FlagIsRetired       Flag = "isRetired"
	FlagLongUnpaid      Flag = "longUnpaid"
)

// ParseFlag validates a flag name coming from a caller.
func ParseFlag(s string) (Flag, error) {
	switch f := Flag(s); f {
	case FlagNone, FlagUnpaid, FlagHasUnderAgeKids, FlagIsRetired, FlagLongUnpaid:
		return f, nil
	default:
		return FlagNone, fmt.Errorf("unknown filter %q", s)
	}
}

// Query narrows a member listing. The zero Query matches everyone.
type Query struct {
	// Text is matched case-insensitively against id, member number, name,
	// email, phone and ID number.
	Text string
	Flag Flag
}

// Match reports whether m satisfies q.
func (q Query) Match(m Member) bool {
	if !q.Flag.set(m) {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		m.ID.String(),
		strconv.Itoa(m.MemberNumber),
		m.Name,
		m.Email,
		m.Phone,
		m.IDNumber,
	}, " "))
	return strings.Contains(haystack, text)
}

func (f Flag) set(m Member) bool {
	switch f {
	case FlagUnpaid:
		return m.Unpaid
	case FlagHasUnderAgeKids:
		return m.HasUnderAgeKids
	case FlagIsRetired:
		return m.IsRetired
	case FlagLongUnpaid:
		return m.LongUnpaid
	default:
		return true
	}
}
