package notification

import (
	"context"
	"fmt"
	"strings"

	"circlepoint/internal/domain"
)

const dateLayout = "2 Jan 2006"

// Service builds the domain notifications and hands them to the dispatcher.
type Service struct {
	dispatcher *Dispatcher
	appURL     string
	company    string
}

func NewService(d *Dispatcher, appURL, company string) *Service {
	return &Service{
		dispatcher: d,
		appURL:     strings.TrimRight(appURL, "/"),
		company:    company,
	}
}

func (s *Service) NotifyBookingCreated(ctx context.Context, manager *domain.User, b *domain.Booking, p *domain.Property) {
	if s == nil || manager == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, Message{
		Type:   TypeBookingCreated,
		UserID: manager.ID,
		Email:  manager.Email,
		Title:  "New booking request: " + p.Title,
		Body: fmt.Sprintf("A new booking request for %s from %s to %s (%d guests, total %s) is waiting for review.\n\n%s/manager/bookings",
			p.Title, b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), b.Guests, b.TotalPrice.StringFixed(2), s.appURL),
		Data: map[string]any{
			"booking_id":  b.ID,
			"property_id": p.ID,
		},
	})
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, guest *domain.User, b *domain.Booking, p *domain.Property) {
	if s == nil || guest == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, Message{
		Type:   TypeBookingConfirmed,
		UserID: guest.ID,
		Email:  guest.Email,
		Title:  "Booking confirmed - " + s.company,
		Body: fmt.Sprintf("Dear %s,\n\nyour stay at %s from %s to %s is confirmed.\nNights: %d\nTotal: %s\n\n%s/bookings/%s",
			guest.FullName(), p.Title, b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), b.Nights, b.TotalPrice.StringFixed(2), s.appURL, b.ID),
		Data: map[string]any{
			"booking_id":  b.ID,
			"property_id": p.ID,
		},
	})
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, guest *domain.User, b *domain.Booking, p *domain.Property) {
	if s == nil || guest == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, Message{
		Type:   TypeBookingCancelled,
		UserID: guest.ID,
		Email:  guest.Email,
		Title:  "Booking request declined - " + s.company,
		Body: fmt.Sprintf("Dear %s,\n\nunfortunately your booking request for %s from %s to %s could not be accepted.",
			guest.FullName(), p.Title, b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout)),
		Data: map[string]any{
			"booking_id":  b.ID,
			"property_id": p.ID,
		},
	})
}

func (s *Service) NotifyApplicationApproved(ctx context.Context, a *domain.Application) {
	if s == nil || a == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, Message{
		Type:   TypeApplicationApproved,
		UserID: a.UserID,
		Email:  a.Email,
		Title:  "Your manager application has been approved - " + s.company,
		Body: fmt.Sprintf("Dear %s,\n\nyour application to manage properties on %s has been approved. You can now list properties from your dashboard.\n\n%s/manager/properties",
			a.FullName, s.company, s.appURL),
		Data: map[string]any{"application_id": a.ID},
	})
}

func (s *Service) NotifyApplicationRejected(ctx context.Context, a *domain.Application, reason string) {
	if s == nil || a == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, Message{
		Type:   TypeApplicationRejected,
		UserID: a.UserID,
		Email:  a.Email,
		Title:  "Your manager application - " + s.company,
		Body:   fmt.Sprintf("Dear %s,\n\nyour application was not approved.\nReason: %s", a.FullName, reason),
		Data:   map[string]any{"application_id": a.ID},
	})
}
