// internal/membership/events.go
package membership

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the outcome of a coordinator operation.
type EventType string

const (
	EventMemberCreated     EventType = "MemberCreated"
	EventMemberUpdated     EventType = "MemberUpdated"
	EventMemberDeleted     EventType = "MemberDeleted"
	EventDeleteNoOp        EventType = "DeleteNoOp"
	EventAdmissionRejected EventType = "AdmissionRejected"
	EventMemberNotFound    EventType = "MemberNotFound"
)

// Event is delivered to observers after every coordinator operation.
type Event struct {
	Type     EventType `json:"type"`
	MemberID uuid.UUID `json:"member_id"`
	// Member is the admitted or removed record, when there is one.
	Member *Member `json:"member,omitempty"`
	// Problems is set for EventAdmissionRejected.
	Problems []string  `json:"problems,omitempty"`
	At       time.Time `json:"at"`
}

// Observer receives coordinator events. Notify is called synchronously with
// the service lock released and must not call back into the service.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) { f(e) }

// MemberCreatedEvent is the journal payload written when a member is admitted.
type MemberCreatedEvent struct {
	ID           uuid.UUID `json:"id"`
	MemberNumber int       `json:"member_number"`
	Name         string    `json:"name"`
}

// MemberUpdatedEvent is the journal payload written when a member changes.
type MemberUpdatedEvent struct {
	ID           uuid.UUID `json:"id"`
	MemberNumber int       `json:"member_number"`
	Unpaid       bool      `json:"unpaid"`
	LongUnpaid   bool      `json:"long_unpaid"`
	IsRetired    bool      `json:"is_retired"`
}

// MemberDeletedEvent is the journal payload written when a member is removed.
type MemberDeletedEvent struct {
	ID           uuid.UUID `json:"id"`
	MemberNumber int       `json:"member_number"`
}
