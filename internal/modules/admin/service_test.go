package admin

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

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db         *gorm.DB
	svc        *Service
	users      *repository.UserRepository
	properties *repository.PropertyRepository
	audits     *repository.AuditRepository
	admin      domain.Actor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f := &fixture{
		db:         db,
		users:      repository.NewUserRepository(db),
		properties: repository.NewPropertyRepository(db),
		audits:     repository.NewAuditRepository(db),
	}
	f.svc = NewService(f.users, audit.NewRecorder(f.audits), func() time.Time { return testNow })
	f.admin = f.user(t, domain.RoleSuperAdmin)
	return f
}

func (f *fixture) user(t *testing.T, role domain.UserRole) domain.Actor {
	t.Helper()
	u := &domain.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", FirstName: string(role), Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return domain.Actor{ID: u.ID, Role: role}
}

func (f *fixture) property(t *testing.T, managerID string, status domain.PropertyStatus) string {
	t.Helper()
	p := &domain.Property{
		ID:          uuid.NewString(),
		ManagerID:   managerID,
		Title:       "Harbour Flat",
		City:        "Larnaca",
		NightlyRate: decimal.NewFromInt(70),
		Status:      status,
	}
	require.NoError(t, f.properties.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) status(t *testing.T, propertyID string) domain.PropertyStatus {
	t.Helper()
	p, err := f.properties.GetByID(context.Background(), propertyID)
	require.NoError(t, err)
	return p.Status
}

func TestArchive_PutsPropertiesIntoMaintenanceAndAudits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	manager := f.user(t, domain.RoleManager)
	open := f.property(t, manager.ID, domain.PropertyAvailable)
	rented := f.property(t, manager.ID, domain.PropertyRented)
	elsewhere := f.property(t, f.user(t, domain.RoleManager).ID, domain.PropertyAvailable)

	res, err := f.svc.Archive(ctx, f.admin, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.PropertiesChanged)
	require.NotNil(t, res.User.ArchivedAt)
	assert.True(t, res.User.ArchivedAt.Equal(testNow))

	assert.Equal(t, domain.PropertyMaintenance, f.status(t, open))
	assert.Equal(t, domain.PropertyMaintenance, f.status(t, rented))
	assert.Equal(t, domain.PropertyAvailable, f.status(t, elsewhere))

	logs, err := f.audits.ListByEntity(ctx, domain.EntityUser, manager.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditUserArchived, logs[0].Action)
	assert.Equal(t, f.admin.ID, logs[0].ActorID)
	var details struct {
		Properties int64 `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(logs[0].Details, &details))
	assert.Equal(t, int64(2), details.Properties)

	again, err := f.svc.Archive(ctx, f.admin, manager.ID)
	require.NoError(t, err)
	assert.Zero(t, again.PropertiesChanged)
	logs, err = f.audits.ListByEntity(ctx, domain.EntityUser, manager.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "archiving twice records once")
}

func TestUnarchive_ReopensProperties(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	manager := f.user(t, domain.RoleManager)
	a := f.property(t, manager.ID, domain.PropertyAvailable)
	b := f.property(t, manager.ID, domain.PropertyPending)

	_, err := f.svc.Archive(ctx, f.admin, manager.ID)
	require.NoError(t, err)

	res, err := f.svc.Unarchive(ctx, f.admin, manager.ID)
	require.NoError(t, err)
	assert.Nil(t, res.User.ArchivedAt)
	assert.Equal(t, int64(2), res.PropertiesChanged)
	assert.Equal(t, domain.PropertyAvailable, f.status(t, a))
	assert.Equal(t, domain.PropertyAvailable, f.status(t, b))

	stored, err := f.users.GetByID(ctx, manager.ID)
	require.NoError(t, err)
	assert.False(t, stored.Archived())

	logs, err := f.audits.ListByEntity(ctx, domain.EntityUser, manager.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditUserUnarchived, logs[1].Action)

	res, err = f.svc.Unarchive(ctx, f.admin, manager.ID)
	require.NoError(t, err)
	assert.Zero(t, res.PropertiesChanged)
}

func TestArchive_Rules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	manager := f.user(t, domain.RoleManager)
	guest := f.user(t, domain.RoleUser)

	_, err := f.svc.Archive(ctx, manager, guest.ID)
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)

	_, err = f.svc.Unarchive(ctx, guest, manager.ID)
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)

	_, err = f.svc.Archive(ctx, f.admin, f.admin.ID)
	assert.ErrorIs(t, err, ErrCannotModifySelf)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.Archive(ctx, f.admin, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	res, err := f.svc.Archive(ctx, f.admin, guest.ID)
	require.NoError(t, err)
	assert.Zero(t, res.PropertiesChanged)
}

func TestListUsers_FiltersAndCounts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	manager := f.user(t, domain.RoleManager)
	guest := f.user(t, domain.RoleUser)
	_, err := f.svc.Archive(ctx, f.admin, manager.ID)
	require.NoError(t, err)

	res, err := f.svc.ListUsers(ctx, f.admin, ListUsersQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, UserCounts{Active: 2, Archived: 1, All: 3}, res.Counts)
	for _, u := range res.Users {
		assert.NotEqual(t, manager.ID, u.ID)
	}

	res, err = f.svc.ListUsers(ctx, f.admin, ListUsersQuery{Status: FilterArchived})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, manager.ID, res.Users[0].ID)

	res, err = f.svc.ListUsers(ctx, f.admin, ListUsersQuery{Status: FilterAll, Role: string(domain.RoleUser)})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, guest.ID, res.Users[0].ID)

	_, err = f.svc.ListUsers(ctx, f.admin, ListUsersQuery{Status: "banned"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.ListUsers(ctx, f.admin, ListUsersQuery{Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = f.svc.ListUsers(ctx, manager, ListUsersQuery{})
	assert.ErrorIs(t, err, apperr.ErrNotPermitted)
}
