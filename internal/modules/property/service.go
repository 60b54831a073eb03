package property

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/apperr"
	"circlepoint/internal/pkg/validator"
	"circlepoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	properties PropertyRepository
	bookings   BookingRepository
	audit      AuditRecorder
	now        func() time.Time
}

func NewService(properties PropertyRepository, bookings BookingRepository, auditor AuditRecorder, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		properties: properties,
		bookings:   bookings,
		audit:      auditor,
		now:        now,
	}
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreatePropertyRequest) (*domain.Property, error) {
	if actor.Role != domain.RoleManager && !actor.IsSuperAdmin() {
		return nil, apperr.ErrNotPermitted
	}
	if err := checkStruct(req); err != nil {
		return nil, err
	}
	if req.NightlyRate.IsNegative() {
		return nil, ErrInvalidRate.WithField("nightly_rate")
	}
	if req.CleaningFee.IsNegative() {
		return nil, ErrInvalidRate.WithField("cleaning_fee")
	}

	status := domain.PropertyAvailable
	if req.Status != "" {
		status = domain.PropertyStatus(req.Status)
		if !status.Valid() {
			return nil, ErrInvalidPropertyStatus.WithField("status")
		}
	}

	now := s.now().UTC()
	p := &domain.Property{
		ID:          uuid.NewString(),
		ManagerID:   actor.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		Country:     strings.TrimSpace(req.Country),
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		MaxGuests:   req.MaxGuests,
		NightlyRate: req.NightlyRate,
		CleaningFee: req.CleaningFee,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.record(ctx, actor.ID, domain.AuditPropertyCreated, p.ID, map[string]any{"title": p.Title})
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Property, int64, error) {
	status := domain.PropertyStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidPropertyStatus.WithField("status")
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return s.properties.List(ctx, repository.PropertyFilters{
		City:   q.City,
		Status: status,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	})
}

// Search lists available properties. Location matches part of the city or
// the address; prices bound the nightly rate; bedrooms is a minimum.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]domain.Property, int64, error) {
	minRate, err := parseRate(q.MinPrice, "min_price")
	if err != nil {
		return nil, 0, err
	}
	maxRate, err := parseRate(q.MaxPrice, "max_price")
	if err != nil {
		return nil, 0, err
	}
	if q.MinBedrooms < 0 {
		return nil, 0, ErrInvalidField.WithField("bedrooms")
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return s.properties.List(ctx, repository.PropertyFilters{
		Status:      domain.PropertyAvailable,
		Location:    q.Location,
		MinRate:     minRate,
		MaxRate:     maxRate,
		MinBedrooms: q.MinBedrooms,
		Limit:       q.Limit,
		Offset:      (q.Page - 1) * q.Limit,
	})
}

func parseRate(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, ErrInvalidRate.WithField(field)
	}
	return &d, nil
}

// ListManaged returns the actor's own properties, or all of them for a
// super-admin.
func (s *Service) ListManaged(ctx context.Context, actor domain.Actor) ([]domain.Property, error) {
	switch {
	case actor.IsSuperAdmin():
		return s.properties.ListByManager(ctx, "")
	case actor.Role == domain.RoleManager && actor.ID != "":
		return s.properties.ListByManager(ctx, actor.ID)
	}
	return nil, apperr.ErrNotPermitted
}

// Update edits the listing details. Text fields that are present may not be
// blank; rates follow the same rules as Create.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id string, req UpdatePropertyRequest) (*domain.Property, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.ManagerID) {
		return nil, apperr.ErrNotPermitted
	}
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	text := []struct {
		field    string
		value    *string
		target   *string
		required bool
	}{
		{"title", req.Title, &p.Title, true},
		{"description", req.Description, &p.Description, false},
		{"address", req.Address, &p.Address, true},
		{"city", req.City, &p.City, true},
		{"country", req.Country, &p.Country, true},
	}
	for _, f := range text {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" && f.required {
			return nil, apperr.ErrMissingField.WithField(f.field)
		}
		if v != *f.target {
			*f.target = v
			changes[f.field] = v
		}
	}

	counts := []struct {
		field  string
		value  *int
		target *int
	}{
		{"bedrooms", req.Bedrooms, &p.Bedrooms},
		{"bathrooms", req.Bathrooms, &p.Bathrooms},
		{"max_guests", req.MaxGuests, &p.MaxGuests},
	}
	for _, f := range counts {
		if f.value != nil && *f.value != *f.target {
			*f.target = *f.value
			changes[f.field] = *f.value
		}
	}

	rates := []struct {
		field  string
		value  *decimal.Decimal
		target *decimal.Decimal
	}{
		{"nightly_rate", req.NightlyRate, &p.NightlyRate},
		{"cleaning_fee", req.CleaningFee, &p.CleaningFee},
	}
	for _, f := range rates {
		if f.value == nil {
			continue
		}
		if f.value.IsNegative() {
			return nil, ErrInvalidRate.WithField(f.field)
		}
		if !f.value.Equal(*f.target) {
			*f.target = *f.value
			changes[f.field] = *f.value
		}
	}

	if len(changes) == 0 {
		return p, nil
	}
	if err := s.properties.Update(ctx, p.ID, changes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("update property: %w", err)
	}

	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	s.record(ctx, actor.ID, domain.AuditPropertyUpdated, p.ID, map[string]any{"fields": fields})
	return p, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.PropertyStatus) (*domain.Property, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.ManagerID) {
		return nil, apperr.ErrNotPermitted
	}
	if !status.Valid() {
		return nil, ErrInvalidPropertyStatus.WithField("status")
	}
	if p.Status == status {
		return p, nil
	}

	if err := s.properties.UpdateStatus(ctx, p.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("update property status: %w", err)
	}
	from := p.Status
	p.Status = status

	s.record(ctx, actor.ID, domain.AuditPropertyStatus, p.ID, map[string]any{
		"from": from,
		"to":   status,
	})
	return p, nil
}

// Delete removes a property that has no pending or confirmed booking ending
// today or later. Its completed and cancelled bookings go with it.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(p.ManagerID) {
		return apperr.ErrNotPermitted
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	active, err := s.bookings.ListActiveForProperty(ctx, p.ID, today)
	if err != nil {
		return fmt.Errorf("list active bookings: %w", err)
	}
	if len(active) > 0 {
		return ErrActiveBookingsExist
	}

	if err := s.properties.DeleteWithHistory(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("delete property: %w", err)
	}

	s.record(ctx, actor.ID, domain.AuditPropertyDeleted, p.ID, map[string]any{"title": p.Title})
	return nil
}

func (s *Service) record(ctx context.Context, actorID, action, id string, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: domain.EntityProperty,
		EntityID:   id,
		Details:    details,
	})
}

// checkStruct reports the first failing field in a stable order.
func checkStruct(v any) error {
	errs := validator.Validate(v)
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	f := fields[0]
	if errs[f] == "required" {
		return apperr.ErrMissingField.WithField(f)
	}
	return ErrInvalidField.WithField(f)
}
