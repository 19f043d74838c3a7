// internal/membership/dues.go
package membership

import (
	"time"

	"cloud.google.com/go/civil"
)

// Yearly dues amounts.
const (
	StandardFee = 20.0
	RetiredFee  = 10.0
)

// SuggestPayment proposes the next dues payment for m: the current year,
// or the following one when the current year is already covered, charged at
// the retired or standard fee and dated today.
func SuggestPayment(m Member, now time.Time) Payment {
	today := civil.DateOf(now)
	year := today.Year
	if coversYear(m.Payments, year) {
		year++
	}
	amount := StandardFee
	if m.IsRetired {
		amount = RetiredFee
	}
	return Payment{
		Kind:   PaymentRecord,
		Year:   year,
		Amount: amount,
		Date:   today,
	}
}
