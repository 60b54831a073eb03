package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/apperr"
	"circlepoint/internal/pkg/validator"
	"circlepoint/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	apps     ApplicationRepository
	users    UserRepository
	audit    AuditRecorder
	notifier Notifier
	now      func() time.Time
	legacy   bool
}

// NewService builds the review workflow. With legacy set, reviewing an
// application that is no longer pending is a silent no-op.
func NewService(apps ApplicationRepository, users UserRepository, auditor AuditRecorder, notifier Notifier, now func() time.Time, legacy bool) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		apps:     apps,
		users:    users,
		audit:    auditor,
		notifier: notifier,
		now:      now,
		legacy:   legacy,
	}
}

func (s *Service) Submit(ctx context.Context, actor domain.Actor, req SubmitRequest) (*domain.Application, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}

	for _, f := range []struct{ name, value string }{
		{"full_name", req.FullName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"message", req.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, apperr.ErrMissingField.WithField(f.name)
		}
	}
	email := strings.TrimSpace(req.Email)
	if !validator.IsEmail(email) {
		return nil, ErrInvalidEmail.WithField("email")
	}

	pending, err := s.apps.HasPending(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("check pending application: %w", err)
	}
	if pending {
		return nil, ErrApplicationExists
	}

	now := s.now().UTC()
	a := &domain.Application{
		ID:              uuid.NewString(),
		UserID:          actor.ID,
		FullName:        strings.TrimSpace(req.FullName),
		Email:           email,
		Phone:           strings.TrimSpace(req.Phone),
		CompanyName:     strings.TrimSpace(req.CompanyName),
		PropertiesCount: req.PropertiesCount,
		ExperienceYears: req.ExperienceYears,
		Message:         strings.TrimSpace(req.Message),
		Status:          domain.ApplicationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.apps.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrApplicationExists
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.record(ctx, actor.ID, domain.AuditApplicationSubmitted, a.ID, map[string]any{"applicant_id": actor.ID})
	return a, nil
}

// Approve marks a pending application approved and promotes the applicant
// to manager when their role is exactly user.
func (s *Service) Approve(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.ErrNotPermitted
	}
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.ApplicationPending {
		return s.notPending(a)
	}

	promote := false
	applicant, err := s.users.GetByID(ctx, a.UserID)
	switch {
	case err == nil:
		promote = applicant.Role == domain.RoleUser
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("get applicant: %w", err)
	}

	now := s.now().UTC()
	if err := s.apps.Approve(ctx, a.ID, actor.ID, now, promote); err != nil {
		return s.reviewFailed(ctx, a, err)
	}
	a.Status = domain.ApplicationApproved
	a.ReviewedBy = &actor.ID
	a.ReviewedAt = &now
	a.UpdatedAt = now

	s.record(ctx, actor.ID, domain.AuditApplicationApproved, a.ID, map[string]any{
		"applicant_id": a.UserID,
		"promoted":     promote,
	})
	if s.notifier != nil {
		s.notifier.NotifyApplicationApproved(ctx, a)
	}
	return a, nil
}

// Reject requires a non-blank reason; nothing is read or written without one.
func (s *Service) Reject(ctx context.Context, actor domain.Actor, id, reason string) (*domain.Application, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.ErrNotPermitted
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrMissingRejectionReason.WithField("reason")
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.ApplicationPending {
		return s.notPending(a)
	}

	now := s.now().UTC()
	if err := s.apps.Reject(ctx, a.ID, actor.ID, now, reason); err != nil {
		return s.reviewFailed(ctx, a, err)
	}
	a.Status = domain.ApplicationRejected
	a.RejectionReason = reason
	a.ReviewedBy = &actor.ID
	a.ReviewedAt = &now
	a.UpdatedAt = now

	s.record(ctx, actor.ID, domain.AuditApplicationRejected, a.ID, map[string]any{
		"applicant_id": a.UserID,
		"reason":       reason,
	})
	if s.notifier != nil {
		s.notifier.NotifyApplicationRejected(ctx, a, reason)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, actor domain.Actor, q ListQuery) (*ListResult, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.ErrNotPermitted
	}

	var status domain.ApplicationStatus
	switch q.Status {
	case "":
		status = domain.ApplicationPending
	case "all":
	default:
		status = domain.ApplicationStatus(q.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus.WithField("status")
		}
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}

	items, err := s.apps.List(ctx, status, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	counts, err := s.apps.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	return &ListResult{Applications: items, Counts: counts}, nil
}

func (s *Service) get(ctx context.Context, id string) (*domain.Application, error) {
	a, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

func (s *Service) notPending(a *domain.Application) (*domain.Application, error) {
	if s.legacy {
		return a, nil
	}
	return nil, ErrInvalidTransition
}

func (s *Service) reviewFailed(ctx context.Context, a *domain.Application, err error) (*domain.Application, error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrApplicationNotFound
	case errors.Is(err, repository.ErrStaleState):
		if s.legacy {
			return s.get(ctx, a.ID)
		}
		return nil, ErrInvalidTransition
	}
	return nil, fmt.Errorf("review application: %w", err)
}

func (s *Service) record(ctx context.Context, actorID, action, id string, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: domain.EntityApplication,
		EntityID:   id,
		Details:    details,
	})
}
