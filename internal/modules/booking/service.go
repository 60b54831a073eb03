package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
	"circlepoint/internal/lock"
	"circlepoint/internal/pkg/apperr"
	"circlepoint/internal/repository"

	"github.com/google/uuid"
)

var ErrAvailabilityBusy = apperr.Conflict("AvailabilityBusy")

type Options struct {
	// Now is the clock used for validation and timestamps.
	Now func() time.Time
	// LegacyTransitions turns approve/reject on a non-pending booking into a
	// silent no-op instead of a conflict.
	LegacyTransitions bool
	CompanyName       string
	ContactEmail      string
}

type Service struct {
	bookings   BookingRepository
	properties PropertyRepository
	users      UserRepository
	validator  *Validator
	locker     lock.Locker
	audit      AuditRecorder
	notifier   Notifier
	now        func() time.Time
	legacy     bool
	letters    letterInfo
}

func NewService(
	bookings BookingRepository,
	properties PropertyRepository,
	users UserRepository,
	locker lock.Locker,
	auditor AuditRecorder,
	notifier Notifier,
	opts Options,
) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	company := opts.CompanyName
	if company == "" {
		company = "CirclePoint Homes"
	}
	return &Service{
		bookings:   bookings,
		properties: properties,
		users:      users,
		validator:  NewValidator(properties, now),
		locker:     locker,
		audit:      auditor,
		notifier:   notifier,
		now:        now,
		legacy:     opts.LegacyTransitions,
		letters:    letterInfo{Company: company, ContactEmail: opts.ContactEmail},
	}
}

// Submit validates, prices and stores a new pending booking for actor.
func (s *Service) Submit(ctx context.Context, actor domain.Actor, req BookingRequest, flow Flow) (*domain.Booking, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}

	vb, err := s.validator.Validate(ctx, req, flow)
	if err != nil {
		return nil, err
	}

	b, err := s.reserve(ctx, actor, vb)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor.ID, domain.AuditBookingCreated, b.ID, map[string]any{
		"property_id": b.PropertyID,
		"check_in":    b.CheckIn.Format(time.DateOnly),
		"check_out":   b.CheckOut.Format(time.DateOnly),
		"total_price": b.TotalPrice.StringFixed(2),
	})
	if manager := s.lookupUser(ctx, vb.Property.ManagerID); manager != nil && s.notifier != nil {
		s.notifier.NotifyBookingCreated(ctx, manager, b, vb.Property)
	}
	return b, nil
}

// reserve holds the property's availability lock across the overlap check
// and the insert, so the lock is released before any side effects run.
func (s *Service) reserve(ctx context.Context, actor domain.Actor, vb *ValidatedBooking) (*domain.Booking, error) {
	release, err := s.locker.Acquire(ctx, lock.PropertyKey(vb.Property.ID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrAvailabilityBusy
		}
		return nil, fmt.Errorf("acquire availability lock: %w", err)
	}
	defer release()

	taken, err := s.bookings.HasOverlap(ctx, vb.Property.ID, vb.CheckIn, vb.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if taken {
		return nil, ErrDatesUnavailable
	}

	quote := Price(vb.Property.NightlyRate, vb.Property.CleaningFee, vb.CheckIn, vb.CheckOut)
	now := s.now().UTC()
	b := &domain.Booking{
		ID:         uuid.NewString(),
		PropertyID: vb.Property.ID,
		UserID:     actor.ID,
		CheckIn:    vb.CheckIn,
		CheckOut:   vb.CheckOut,
		Guests:     vb.Guests,
		Phone:      vb.Phone,
		Message:    vb.Message,
		Nights:     quote.Nights,
		TotalPrice: quote.Total,
		Status:     domain.BookingPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if vb.Declaration != nil {
		b.GuestDeclaration = *vb.Declaration
		b.BookingLetterPath = LetterPath(b.ID, LetterBooking)
		if b.RequiresVisaLetter {
			b.VisaLetterPath = LetterPath(b.ID, LetterVisa)
		}
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

func (s *Service) Approve(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error) {
	return s.transition(ctx, actor, id, ActionApprove)
}

func (s *Service) Reject(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error) {
	return s.transition(ctx, actor, id, ActionReject)
}

func (s *Service) transition(ctx context.Context, actor domain.Actor, id string, action Action) (*domain.Booking, error) {
	b, p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := b.Status
	to, ok := Transition(from, action)
	if !ok {
		if s.legacy {
			return b, nil
		}
		return nil, ErrInvalidTransition
	}

	now := s.now().UTC()
	if err := s.bookings.UpdateStatus(ctx, b.ID, from, to, actor.ID, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, repository.ErrStaleState):
			if s.legacy {
				return s.bookings.GetByID(ctx, b.ID)
			}
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	b.Status = to
	b.ReviewedBy = &actor.ID
	b.ReviewedAt = &now
	b.UpdatedAt = now

	s.record(ctx, actor.ID, action.auditAction(), b.ID, map[string]any{
		"property_id": b.PropertyID,
		"from":        from,
		"to":          to,
	})

	if guest := s.lookupUser(ctx, b.UserID); guest != nil && p != nil && s.notifier != nil {
		switch to {
		case domain.BookingConfirmed:
			s.notifier.NotifyBookingConfirmed(ctx, guest, b, p)
		case domain.BookingCancelled:
			s.notifier.NotifyBookingCancelled(ctx, guest, b, p)
		}
	}
	return b, nil
}

// Delete permanently removes a booking in any status. The audit entry is
// written first so the record's details survive the removal.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	b, p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return err
	}

	details := map[string]any{
		"property_id": b.PropertyID,
		"status":      b.Status,
	}
	if p != nil {
		details["property_title"] = p.Title
	}
	if guest := s.lookupUser(ctx, b.UserID); guest != nil {
		details["guest_email"] = guest.Email
	}
	s.record(ctx, actor.ID, domain.AuditBookingDeleted, b.ID, details)

	if err := s.bookings.Delete(ctx, b.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// Get returns a booking to its guest, the property's manager or a
// super-admin.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID == actor.ID || actor.IsSuperAdmin() {
		return b, nil
	}
	p, err := s.getProperty(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	if p == nil || !actor.CanManage(p.ManagerID) {
		return nil, apperr.ErrNotPermitted
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return s.bookings.ListByUser(ctx, actor.ID)
}

// ListManaged lists bookings on the actor's properties; super-admins see
// every property.
func (s *Service) ListManaged(ctx context.Context, actor domain.Actor, q ListManagedQuery) ([]domain.Booking, int64, error) {
	if actor.Role != domain.RoleManager && !actor.IsSuperAdmin() {
		return nil, 0, apperr.ErrNotPermitted
	}
	status := domain.BookingStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("InvalidStatus").WithField("status")
	}

	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}

	f := repository.ManagerBookingFilters{
		PropertyID: q.PropertyID,
		Status:     status,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	}
	if !actor.IsSuperAdmin() {
		f.ManagerID = actor.ID
	}
	return s.bookings.ListForManager(ctx, f)
}

// CompletePast moves confirmed bookings whose check-out day has passed to
// completed. It returns how many were moved.
func (s *Service) CompletePast(ctx context.Context) (int, error) {
	now := s.now().UTC()
	done, err := s.bookings.CompletePast(ctx, calendarDay(now), now)
	if err != nil {
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}
	for _, b := range done {
		s.record(ctx, "", ActionComplete.auditAction(), b.ID, map[string]any{
			"property_id": b.PropertyID,
			"check_out":   b.CheckOut.Format(time.DateOnly),
		})
	}
	return len(done), nil
}

// loadManaged fetches a booking and its property and checks that actor may
// administer it. Authorization is decided before any status check.
func (s *Service) loadManaged(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, *domain.Property, error) {
	if !actor.Authenticated() {
		return nil, nil, apperr.ErrUnauthenticated
	}
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.getProperty(ctx, b.PropertyID)
	if err != nil {
		return nil, nil, err
	}

	managerID := ""
	if p != nil {
		managerID = p.ManagerID
	}
	if !actor.CanManage(managerID) {
		return nil, nil, apperr.ErrNotPermitted
	}
	return b, p, nil
}

func (s *Service) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// getProperty returns nil without error when the property is gone.
func (s *Service) getProperty(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

func (s *Service) lookupUser(ctx context.Context, id string) *domain.User {
	if s.users == nil || id == "" {
		return nil
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		slog.Warn("booking: user lookup for notification failed", "user_id", id, "error", err)
		return nil
	}
	return u
}

func (s *Service) record(ctx context.Context, actorID, action, bookingID string, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: domain.EntityBooking,
		EntityID:   bookingID,
		Details:    details,
	})
}
