// internal/membership/domain.go
package membership

import (
	"encoding/json"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Member represents a club member.
type Member struct {
	ID           uuid.UUID  `json:"id"`
	MemberNumber int        `json:"memberNumber"`
	Name         string     `json:"name"`
	IDNumber     string     `json:"idNumber"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	DateOfBirth  civil.Date `json:"dateOfBirth,omitzero"`
	RegisteredAt civil.Date `json:"registeredAt,omitzero"`
	// RetiredDeclared is the retired flag as callers set it. IsRetired is
	// derived from it and from age.
	RetiredDeclared bool `json:"retiredDeclared"`
	IsRetired       bool `json:"isRetired"`

	// Derived by Derive; never taken from callers.
	HasUnderAgeKids bool `json:"hasUnderAgeKids"`
	Unpaid          bool `json:"unpaid"`
	LongUnpaid      bool `json:"longUnpaid"`

	Children []Child   `json:"children"`
	Payments []Payment `json:"payments"`
}

// Child is a dependent of a member.
type Child struct {
	Name        string     `json:"name"`
	DateOfBirth civil.Date `json:"dateOfBirth,omitzero"`
}

// PaymentKind tags which dues representation a Payment carries.
type PaymentKind string

const (
	// PaymentYearly is a bare paid year.
	PaymentYearly PaymentKind = "yearly"
	// PaymentRecord is a year paid with an amount on a given date.
	PaymentRecord PaymentKind = "record"
	// PaymentPeriod is a dues period spanning FromDate..ToDate.
	PaymentPeriod PaymentKind = "period"
)

// Payment is a single dues entry. Only the fields of its Kind are meaningful.
type Payment struct {
	Kind PaymentKind `json:"kind"`

	Year   int        `json:"year,omitempty"`
	Amount float64    `json:"amount,omitempty"`
	Date   civil.Date `json:"date,omitzero"`

	ID        uuid.UUID  `json:"id,omitzero"`
	FromDate  civil.Date `json:"fromDate,omitzero"`
	ToDate    civil.Date `json:"toDate,omitzero"`
	CreatedAt civil.Date `json:"createdAt,omitzero"`
}

// Covers reports whether the payment settles dues for the given calendar year.
func (p Payment) Covers(year int) bool {
	switch p.Kind {
	case PaymentPeriod:
		if p.FromDate.IsZero() || p.ToDate.IsZero() {
			return false
		}
		return p.FromDate.Year <= year && year <= p.ToDate.Year
	default:
		return p.Year != 0 && p.Year == year
	}
}

// UnmarshalJSON accepts any of the three payment shapes. When "kind" is
// absent it is inferred from the fields that are present.
func (p *Payment) UnmarshalJSON(data []byte) error {
	type plain Payment
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Payment(raw)
	if p.Kind == "" {
		p.Kind = inferKind(*p)
	}
	return nil
}

func inferKind(p Payment) PaymentKind {
	switch {
	case !p.FromDate.IsZero() || !p.ToDate.IsZero() || !p.CreatedAt.IsZero():
		return PaymentPeriod
	case p.Amount != 0 || !p.Date.IsZero():
		return PaymentRecord
	default:
		return PaymentYearly
	}
}

// YearlyPayments adapts a list of paid years into payments.
func YearlyPayments(years []int) []Payment {
	out := make([]Payment, 0, len(years))
	for _, y := range years {
		out = append(out, Payment{Kind: PaymentYearly, Year: y})
	}
	return out
}

// MemberInput is the payload for creating a member. It has no id and no
// derived fields.
type MemberInput struct {
	MemberNumber int        `json:"memberNumber"`
	Name         string     `json:"name"`
	IDNumber     string     `json:"idNumber"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	DateOfBirth  civil.Date `json:"dateOfBirth,omitzero"`
	RegisteredAt civil.Date `json:"registeredAt,omitzero"`
	IsRetired    bool       `json:"isRetired"`
	Children     []Child    `json:"children"`
	Payments     []Payment  `json:"payments"`

	// YearPayments is the list-of-years form; it is appended to Payments.
	YearPayments []int `json:"yearPayments,omitempty"`
}

func (in MemberInput) member() Member {
	return Member{
		MemberNumber: in.MemberNumber,
		Name:         in.Name,
		IDNumber:     in.IDNumber,
		Address:      in.Address,
		Phone:        in.Phone,
		Email:        in.Email,
		DateOfBirth:  in.DateOfBirth,
		RegisteredAt: in.RegisteredAt,
		IsRetired:    in.IsRetired,
		Children:     slices.Clone(in.Children),
		Payments:     append(slices.Clone(in.Payments), YearlyPayments(in.YearPayments)...),

		RetiredDeclared: in.IsRetired,
	}
}

// MemberPatch is the payload for updating a member. Nil fields are left
// untouched by the merge.
type MemberPatch struct {
	ID           uuid.UUID   `json:"id"`
	MemberNumber *int        `json:"memberNumber,omitempty"`
	Name         *string     `json:"name,omitempty"`
	IDNumber     *string     `json:"idNumber,omitempty"`
	Address      *string     `json:"address,omitempty"`
	Phone        *string     `json:"phone,omitempty"`
	Email        *string     `json:"email,omitempty"`
	DateOfBirth  *civil.Date `json:"dateOfBirth,omitempty"`
	RegisteredAt *civil.Date `json:"registeredAt,omitempty"`
	IsRetired    *bool       `json:"isRetired,omitempty"`
	Children     *[]Child    `json:"children,omitempty"`
	Payments     *[]Payment  `json:"payments,omitempty"`
	YearPayments *[]int      `json:"yearPayments,omitempty"`
}

// apply returns old with every present patch field written over it.
func (p MemberPatch) apply(old Member) Member {
	m := old.clone()
	if p.MemberNumber != nil {
		m.MemberNumber = *p.MemberNumber
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.IDNumber != nil {
		m.IDNumber = *p.IDNumber
	}
	if p.Address != nil {
		m.Address = *p.Address
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.DateOfBirth != nil {
		m.DateOfBirth = *p.DateOfBirth
	}
	if p.RegisteredAt != nil {
		m.RegisteredAt = *p.RegisteredAt
	}
	if p.IsRetired != nil {
		m.RetiredDeclared = *p.IsRetired
	}
	if p.Children != nil {
		m.Children = slices.Clone(*p.Children)
	}
	if p.Payments != nil || p.YearPayments != nil {
		var payments []Payment
		if p.Payments != nil {
			payments = slices.Clone(*p.Payments)
		} else {
			payments = slices.Clone(m.Payments)
		}
		if p.YearPayments != nil {
			payments = append(payments, YearlyPayments(*p.YearPayments)...)
		}
		m.Payments = payments
	}
	return m
}

// withPaymentIDs gives every period payment lacking an id a fresh one.
func (m Member) withPaymentIDs() Member {
	for i, p := range m.Payments {
		if p.Kind == PaymentPeriod && p.ID == uuid.Nil {
			m.Payments[i].ID = uuid.New()
		}
	}
	return m
}

// clone returns a copy of m that shares no slices with it.
func (m Member) clone() Member {
	m.Children = slices.Clone(m.Children)
	m.Payments = slices.Clone(m.Payments)
	return m
}
