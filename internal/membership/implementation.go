// internal/membership/implementation.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "clubnexus/membership"

// service implements the Service interface. It owns the authoritative
// member collection; every mutation runs validate, derive and commit under
// one lock.
type service struct {
	mu      sync.Mutex
	members []Member
	// retired holds every member whose IsRetired has been true. Retirement
	// is never revoked, not by a clock rollback nor by a birth date change.
	retired map[uuid.UUID]bool

	store     Store
	now       func() time.Time
	observers []Observer
	tracer    trace.Tracer
	logger    *slog.Logger
	fpKey     []byte
}

// Option configures a service.
type Option func(*service)

// WithClock sets the time source used for deriving status fields.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithObserver registers an observer for coordinator events.
func WithObserver(o Observer) Option {
	return func(s *service) { s.observers = append(s.observers, o) }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *service) { s.logger = l }
}

// WithTracerProvider sets the tracer provider. The default is the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *service) { s.tracer = tp.Tracer(tracerName) }
}

// WithFingerprintKey sets the key used to fingerprint ID numbers in logs.
// Keys longer than 64 bytes are truncated.
func WithFingerprintKey(key []byte) Option {
	return func(s *service) {
		if len(key) > 64 {
			key = key[:64]
		}
		s.fpKey = key
	}
}

// NewService creates a membership service on top of store, loading whatever
// the store already holds. Loaded members have their status re-derived.
func NewService(ctx context.Context, store Store, opts ...Option) (Service, error) {
	s := &service{
		store:   store,
		now:     time.Now,
		retired: make(map[uuid.UUID]bool),
		tracer:  otel.Tracer(tracerName),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	members, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	now := s.now()
	s.members = make([]Member, 0, len(members))
	for _, m := range members {
		if m.IsRetired {
			s.retired[m.ID] = true
		}
		member := s.derive(m, now)
		s.commitRetired(member)
		s.members = append(s.members, member)
	}
	s.logger.InfoContext(ctx, "Membership service ready", "members", len(s.members))
	return s, nil
}

// Create validates and admits a new member.
func (s *service) Create(ctx context.Context, in MemberInput) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.create",
		trace.WithAttributes(attribute.Int("member.number", in.MemberNumber)),
	)
	defer span.End()

	candidate := in.member()
	if problems := Validate(candidate); len(problems) > 0 {
		return nil, s.reject(ctx, span, "create", uuid.Nil, problems)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, s.fail(ctx, span, fmt.Errorf("failed to generate member id: %w", err))
	}
	candidate.ID = id

	s.mu.Lock()
	now := s.now()
	member := s.derive(candidate.withPaymentIDs(), now)
	if err := s.store.Insert(ctx, member); err != nil {
		s.mu.Unlock()
		return nil, s.fail(ctx, span, fmt.Errorf("failed to store member: %w", err))
	}
	s.commitRetired(member)
	s.members = slices.Insert(s.members, 0, member)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("member.id", id.String()))
	s.logger.InfoContext(ctx, "Member created",
		"member_id", id,
		"member_number", member.MemberNumber,
		"id_fingerprint", fingerprint(s.fpKey, member.IDNumber),
	)
	s.emit(Event{Type: EventMemberCreated, MemberID: id, Member: ptr(member.clone()), At: now})
	return ptr(member.clone()), nil
}

// Update merges patch over the stored member and admits the result.
func (s *service) Update(ctx context.Context, patch MemberPatch) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.update",
		trace.WithAttributes(attribute.String("member.id", patch.ID.String())),
	)
	defer span.End()

	if patch.ID == uuid.Nil {
		return nil, s.fail(ctx, span, fmt.Errorf("update member: %w", ErrMissingID))
	}

	s.mu.Lock()
	i := s.index(patch.ID)
	if i < 0 {
		s.mu.Unlock()
		s.emit(Event{Type: EventMemberNotFound, MemberID: patch.ID, At: s.now()})
		return nil, s.fail(ctx, span, fmt.Errorf("member with ID %s: %w", patch.ID, ErrMemberNotFound))
	}

	merged := patch.apply(s.members[i])
	if problems := Validate(merged); len(problems) > 0 {
		s.mu.Unlock()
		return nil, s.reject(ctx, span, "update", patch.ID, problems)
	}

	now := s.now()
	member := s.derive(merged.withPaymentIDs(), now)
	if err := s.store.Replace(ctx, member); err != nil {
		s.mu.Unlock()
		return nil, s.fail(ctx, span, fmt.Errorf("failed to store member: %w", err))
	}
	s.commitRetired(member)
	s.members[i] = member
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Member updated",
		"member_id", member.ID,
		"member_number", member.MemberNumber,
		"unpaid", member.Unpaid,
		"long_unpaid", member.LongUnpaid,
	)
	s.emit(Event{Type: EventMemberUpdated, MemberID: member.ID, Member: ptr(member.clone()), At: now})
	return ptr(member.clone()), nil
}

// Delete removes a member unconditionally. Confirming the removal is the
// caller's responsibility.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	ctx, span := s.tracer.Start(ctx, "membership.delete",
		trace.WithAttributes(attribute.String("member.id", id.String())),
	)
	defer span.End()

	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		span.SetAttributes(attribute.String("delete.outcome", string(OutcomeNoOp)))
		s.logger.DebugContext(ctx, "Delete of unknown member ignored", "member_id", id)
		s.emit(Event{Type: EventDeleteNoOp, MemberID: id, At: s.now()})
		return DeleteResult{Outcome: OutcomeNoOp}, nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return DeleteResult{}, s.fail(ctx, span, fmt.Errorf("failed to delete member: %w", err))
	}
	removed := s.members[i]
	s.members = slices.Delete(s.members, i, i+1)
	delete(s.retired, id)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("delete.outcome", string(OutcomeDeleted)))
	s.logger.InfoContext(ctx, "Member deleted", "member_id", id, "member_number", removed.MemberNumber)
	s.emit(Event{Type: EventMemberDeleted, MemberID: id, Member: ptr(removed.clone()), At: s.now()})
	return DeleteResult{Outcome: OutcomeDeleted, Member: ptr(removed.clone())}, nil
}

// Get returns a copy of a single member.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("member with ID %s: %w", id, ErrMemberNotFound)
	}
	return ptr(s.members[i].clone()), nil
}

// List returns a snapshot of the members matching q, most recent first.
func (s *service) List(ctx context.Context, q Query) []Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Member, 0, len(s.members))
	for _, m := range s.members {
		if q.Match(m) {
			out = append(out, m.clone())
		}
	}
	return out
}

// SuggestPayment proposes the next dues payment for a member.
func (s *service) SuggestPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := SuggestPayment(*m, s.now())
	return &p, nil
}

// derive runs Derive from the caller's retired flag, keeping members that
// were already retired retired. It does not touch s.retired; admitted
// members go through commitRetired once they are stored. Callers must hold
// s.mu.
func (s *service) derive(m Member, now time.Time) Member {
	m.IsRetired = m.RetiredDeclared || s.retired[m.ID]
	return Derive(m, now)
}

func (s *service) commitRetired(m Member) {
	if m.IsRetired {
		s.retired[m.ID] = true
	}
}

func (s *service) index(id uuid.UUID) int {
	return slices.IndexFunc(s.members, func(m Member) bool { return m.ID == id })
}

func (s *service) reject(ctx context.Context, span trace.Span, op string, id uuid.UUID, problems []string) error {
	span.SetAttributes(attribute.Int("validation.problems", len(problems)))
	span.SetStatus(codes.Error, "validation failed")
	s.logger.WarnContext(ctx, "Member rejected", "operation", op, "member_id", id, "problems", problems)
	s.emit(Event{Type: EventAdmissionRejected, MemberID: id, Problems: slices.Clone(problems), At: s.now()})
	return &ValidationError{Problems: problems}
}

func (s *service) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if !errors.Is(err, ErrMemberNotFound) {
		s.logger.ErrorContext(ctx, "Membership operation failed", "error", err)
	}
	return err
}

func (s *service) emit(e Event) {
	for _, o := range s.observers {
		o.Notify(e)
	}
}

func ptr[T any](v T) *T { return &v }
