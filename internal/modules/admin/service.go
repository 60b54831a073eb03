// Package admin holds the super-admin account management screens.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/apperr"
	"circlepoint/internal/repository"
)

type Service struct {
	users UserRepository
	audit AuditRecorder
	now   func() time.Time
}

func NewService(users UserRepository, auditor AuditRecorder, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{users: users, audit: auditor, now: now}
}

// ListUsers pages through accounts; the counts ignore every filter but the
// archive state.
func (s *Service) ListUsers(ctx context.Context, actor domain.Actor, q ListUsersQuery) (*UserListResult, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.ErrNotPermitted
	}

	f := repository.UserFilters{Query: q.Query}
	switch strings.TrimSpace(q.Status) {
	case "", FilterActive:
		archived := false
		f.Archived = &archived
	case FilterArchived:
		archived := true
		f.Archived = &archived
	case FilterAll:
	default:
		return nil, ErrInvalidStatus.WithField("status")
	}
	if q.Role != "" {
		f.Role = domain.UserRole(q.Role)
		if !f.Role.Valid() {
			return nil, ErrInvalidField.WithField("role")
		}
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}
	f.Limit = q.Limit
	f.Offset = (q.Page - 1) * q.Limit

	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	active, archived, err := s.users.CountByArchived(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &UserListResult{
		Users: users,
		Total: total,
		Counts: UserCounts{
			Active:   active,
			Archived: archived,
			All:      active + archived,
		},
	}, nil
}

// Archive retires an account. Every property it manages goes into
// maintenance so it drops out of search.
func (s *Service) Archive(ctx context.Context, actor domain.Actor, id string) (*ArchiveResult, error) {
	u, err := s.target(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if u.Archived() {
		return &ArchiveResult{User: u}, nil
	}

	at := s.now().UTC()
	moved, err := s.users.SetArchived(ctx, u.ID, &at, nil, domain.PropertyMaintenance)
	if err != nil {
		return nil, s.writeFailed(err)
	}
	u.ArchivedAt = &at

	s.record(ctx, actor.ID, domain.AuditUserArchived, u.ID, map[string]any{"properties": moved})
	return &ArchiveResult{User: u, PropertiesChanged: moved}, nil
}

// Unarchive restores an account and reopens its properties that are in
// maintenance.
func (s *Service) Unarchive(ctx context.Context, actor domain.Actor, id string) (*ArchiveResult, error) {
	u, err := s.target(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !u.Archived() {
		return &ArchiveResult{User: u}, nil
	}

	maintenance := domain.PropertyMaintenance
	moved, err := s.users.SetArchived(ctx, u.ID, nil, &maintenance, domain.PropertyAvailable)
	if err != nil {
		return nil, s.writeFailed(err)
	}
	u.ArchivedAt = nil

	s.record(ctx, actor.ID, domain.AuditUserUnarchived, u.ID, map[string]any{"properties": moved})
	return &ArchiveResult{User: u, PropertiesChanged: moved}, nil
}

func (s *Service) target(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.ErrNotPermitted
	}
	if id == actor.ID {
		return nil, ErrCannotModifySelf
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) writeFailed(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("archive user: %w", err)
}

func (s *Service) record(ctx context.Context, actorID, action, id string, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: domain.EntityUser,
		EntityID:   id,
		Details:    details,
	})
}
