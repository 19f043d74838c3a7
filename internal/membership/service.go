// internal/membership/service.go
package membership

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the membership service.
type Service interface {
	Create(ctx context.Context, in MemberInput) (*Member, error)
	Update(ctx context.Context, patch MemberPatch) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) (DeleteResult, error)
	Get(ctx context.Context, id uuid.UUID) (*Member, error)
	List(ctx context.Context, q Query) []Member
	SuggestPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
}

// Store persists admitted members underneath the service. Implementations
// must apply each call atomically.
type Store interface {
	// Load returns every stored member, most recently created first.
	Load(ctx context.Context) ([]Member, error)
	// Insert stores a new member ahead of all existing ones.
	Insert(ctx context.Context, m Member) error
	// Replace overwrites an existing member, keeping its position.
	Replace(ctx context.Context, m Member) error
	// Delete removes a member. Deleting an absent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}
