package property

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/database"
	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/apperr"
	"circlepoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	bookings *repository.BookingRepository
	audits   *repository.AuditRepository
	manager  domain.Actor
	other    domain.Actor
	admin    domain.Actor
	guest    domain.Actor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f := &fixture{
		db:       db,
		bookings: repository.NewBookingRepository(db),
		audits:   repository.NewAuditRepository(db),
		manager:  domain.Actor{ID: uuid.NewString(), Role: domain.RoleManager},
		other:    domain.Actor{ID: uuid.NewString(), Role: domain.RoleManager},
		admin:    domain.Actor{ID: uuid.NewString(), Role: domain.RoleSuperAdmin},
		guest:    domain.Actor{ID: uuid.NewString(), Role: domain.RoleUser},
	}
	f.svc = NewService(
		repository.NewPropertyRepository(db),
		f.bookings,
		audit.NewRecorder(f.audits),
		func() time.Time { return testNow },
	)
	return f
}

func (f *fixture) create(t *testing.T) *domain.Property {
	t.Helper()
	p, err := f.svc.Create(context.Background(), f.manager, CreatePropertyRequest{
		Title:       "Old Town Studio",
		Address:     "5 Market Square",
		City:        "Nicosia",
		Country:     "Cyprus",
		MaxGuests:   2,
		NightlyRate: decimal.RequireFromString("65.50"),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) book(t *testing.T, propertyID string, in, out string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	ci, _ := time.Parse(time.DateOnly, in)
	co, _ := time.Parse(time.DateOnly, out)
	b := &domain.Booking{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     f.guest.ID,
		CheckIn:    ci,
		CheckOut:   co,
		Guests:     1,
		Nights:     1,
		TotalPrice: decimal.NewFromInt(100),
		Status:     status,
	}
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func TestCreate_DefaultsAndAudit(t *testing.T) {
	f := setup(t)
	p := f.create(t)

	assert.Equal(t, domain.PropertyAvailable, p.Status)
	assert.Equal(t, f.manager.ID, p.ManagerID)
	assert.True(t, p.CleaningFee.IsZero())

	got, err := f.svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.NightlyRate.Equal(decimal.RequireFromString("65.5")))

	logs, err := f.audits.ListByEntity(context.Background(), domain.EntityProperty, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditPropertyCreated, logs[0].Action)
}

func TestCreate_Rules(t *testing.T) {
	f := setup(t)
	base := CreatePropertyRequest{Title: "T", Address: "A", City: "C", Country: "K", MaxGuests: 1, NightlyRate: decimal.NewFromInt(10)}

	_, err := f.svc.Create(context.Background(), f.guest, base)
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)

	neg := base
	neg.NightlyRate = decimal.NewFromInt(-1)
	_, err = f.svc.Create(context.Background(), f.manager, neg)
	assert.ErrorIs(t, err, ErrInvalidRate)

	neg = base
	neg.CleaningFee = decimal.RequireFromString("-0.01")
	_, err = f.svc.Create(context.Background(), f.manager, neg)
	assert.ErrorIs(t, err, ErrInvalidRate)

	missing := base
	missing.Title = ""
	_, err = f.svc.Create(context.Background(), f.manager, missing)
	assert.ErrorIs(t, err, apperr.ErrMissingField)
	e, _ := apperr.As(err)
	assert.Equal(t, "title", e.Field)

	bad := base
	bad.Status = "demolished"
	_, err = f.svc.Create(context.Background(), f.manager, bad)
	assert.ErrorIs(t, err, ErrInvalidPropertyStatus)
}

func TestGet_NotFound(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	p := f.create(t)

	_, err := f.svc.UpdateStatus(context.Background(), f.other, p.ID, domain.PropertyMaintenance)
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)

	_, err = f.svc.UpdateStatus(context.Background(), f.manager, p.ID, "gone")
	assert.ErrorIs(t, err, ErrInvalidPropertyStatus)

	got, err := f.svc.UpdateStatus(context.Background(), f.admin, p.ID, domain.PropertyMaintenance)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyMaintenance, got.Status)
}

func TestListManaged(t *testing.T) {
	f := setup(t)
	f.create(t)

	mine, err := f.svc.ListManaged(context.Background(), f.manager)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.ListManaged(context.Background(), f.other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := f.svc.ListManaged(context.Background(), f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.ListManaged(context.Background(), f.guest)
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)
}

func TestDelete_BlockedByActiveBookings(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		out    string
		status domain.BookingStatus
	}{
		{"pending in future", "2025-07-01", "2025-07-05", domain.BookingPending},
		{"confirmed ending today", "2025-05-28", "2025-06-01", domain.BookingConfirmed},
		{"confirmed in progress", "2025-05-30", "2025-06-03", domain.BookingConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t)
			p := f.create(t)
			f.book(t, p.ID, tc.in, tc.out, tc.status)

			err := f.svc.Delete(context.Background(), f.manager, p.ID)
			assert.ErrorIs(t, err, ErrActiveBookingsExist)
			assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

			_, err = f.svc.Get(context.Background(), p.ID)
			assert.NoError(t, err)
		})
	}
}

func TestDelete_RemovesHistory(t *testing.T) {
	f := setup(t)
	p := f.create(t)
	f.book(t, p.ID, "2025-05-01", "2025-05-05", domain.BookingCompleted)
	f.book(t, p.ID, "2025-08-01", "2025-08-05", domain.BookingCancelled)
	f.book(t, p.ID, "2025-05-20", "2025-05-31", domain.BookingConfirmed)

	require.NoError(t, f.svc.Delete(context.Background(), f.manager, p.ID))

	_, err := f.svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	logs, err := f.audits.ListByEntity(context.Background(), domain.EntityProperty, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AuditPropertyDeleted, logs[len(logs)-1].Action)
}

func TestDelete_OrderOfChecks(t *testing.T) {
	f := setup(t)

	err := f.svc.Delete(context.Background(), f.guest, uuid.NewString())
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	p := f.create(t)
	f.book(t, p.ID, "2025-07-01", "2025-07-05", domain.BookingPending)

	err = f.svc.Delete(context.Background(), f.other, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)

	err = f.svc.Delete(context.Background(), f.admin, p.ID)
	assert.ErrorIs(t, err, ErrActiveBookingsExist)
}

func ptr[T any](v T) *T { return &v }

func TestUpdate_ChangesPresentFieldsAndAudits(t *testing.T) {
	f := setup(t)
	p := f.create(t)

	got, err := f.svc.Update(context.Background(), f.manager, p.ID, UpdatePropertyRequest{
		Title:       ptr("  Old Town Loft "),
		Bedrooms:    ptr(2),
		NightlyRate: ptr(decimal.RequireFromString("80")),
		City:        ptr("Nicosia"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Old Town Loft", got.Title)
	assert.Equal(t, 2, got.Bedrooms)

	stored, err := f.svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old Town Loft", stored.Title)
	assert.Equal(t, "5 Market Square", stored.Address)
	assert.True(t, stored.NightlyRate.Equal(decimal.NewFromInt(80)))

	logs, err := f.audits.ListByEntity(context.Background(), domain.EntityProperty, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditPropertyUpdated, logs[1].Action)
	var details struct {
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(logs[1].Details, &details))
	assert.Equal(t, []string{"bedrooms", "nightly_rate", "title"}, details.Fields)
}

func TestUpdate_Rules(t *testing.T) {
	f := setup(t)
	p := f.create(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, f.other, p.ID, UpdatePropertyRequest{Title: ptr("Mine now")})
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)

	_, err = f.svc.Update(ctx, f.manager, uuid.NewString(), UpdatePropertyRequest{})
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	_, err = f.svc.Update(ctx, f.manager, p.ID, UpdatePropertyRequest{NightlyRate: ptr(decimal.NewFromInt(-5))})
	assert.ErrorIs(t, err, ErrInvalidRate)
	e, _ := apperr.As(err)
	assert.Equal(t, "nightly_rate", e.Field)

	_, err = f.svc.Update(ctx, f.manager, p.ID, UpdatePropertyRequest{CleaningFee: ptr(decimal.RequireFromString("-0.01"))})
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = f.svc.Update(ctx, f.manager, p.ID, UpdatePropertyRequest{Address: ptr("   ")})
	assert.ErrorIs(t, err, apperr.ErrMissingField)
	e, _ = apperr.As(err)
	assert.Equal(t, "address", e.Field)

	_, err = f.svc.Update(ctx, f.manager, p.ID, UpdatePropertyRequest{MaxGuests: ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidField)

	got, err := f.svc.Update(ctx, f.admin, p.ID, UpdatePropertyRequest{Description: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got.Description)

	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.NightlyRate.Equal(decimal.RequireFromString("65.5")), "rejected updates leave the row alone")
}

func TestSearch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	studio := f.create(t)
	villa, err := f.svc.Create(ctx, f.manager, CreatePropertyRequest{
		Title:       "Hill Villa",
		Address:     "2 Vineyard Lane",
		City:        "Paphos",
		Country:     "Cyprus",
		Bedrooms:    3,
		MaxGuests:   6,
		NightlyRate: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	closed, err := f.svc.Create(ctx, f.manager, CreatePropertyRequest{
		Title:       "Paphos Garden Flat",
		Address:     "9 Garden St",
		City:        "Paphos",
		Country:     "Cyprus",
		Bedrooms:    3,
		MaxGuests:   4,
		NightlyRate: decimal.NewFromInt(90),
		Status:      string(domain.PropertyMaintenance),
	})
	require.NoError(t, err)

	ids := func(items []domain.Property) []string {
		out := make([]string, 0, len(items))
		for _, p := range items {
			out = append(out, p.ID)
		}
		return out
	}

	items, total, err := f.svc.Search(ctx, SearchQuery{Location: "paphos"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{villa.ID}, ids(items))
	assert.NotContains(t, ids(items), closed.ID)

	items, _, err = f.svc.Search(ctx, SearchQuery{Location: "market"})
	require.NoError(t, err)
	assert.Equal(t, []string{studio.ID}, ids(items))

	items, _, err = f.svc.Search(ctx, SearchQuery{MinPrice: "100"})
	require.NoError(t, err)
	assert.Equal(t, []string{villa.ID}, ids(items))

	items, _, err = f.svc.Search(ctx, SearchQuery{MaxPrice: "65.50"})
	require.NoError(t, err)
	assert.Equal(t, []string{studio.ID}, ids(items))

	items, _, err = f.svc.Search(ctx, SearchQuery{MinBedrooms: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{villa.ID}, ids(items))

	_, _, err = f.svc.Search(ctx, SearchQuery{MinPrice: "cheap"})
	assert.ErrorIs(t, err, ErrInvalidRate)
	e, _ := apperr.As(err)
	assert.Equal(t, "min_price", e.Field)

	_, _, err = f.svc.Search(ctx, SearchQuery{MaxPrice: "-1"})
	assert.ErrorIs(t, err, ErrInvalidRate)
}
