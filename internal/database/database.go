package database

import (
	"log/slog"
	"strings"

	"circlepoint/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		slog.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	slog.Info("using SQLite for local development", "dsn", dsn)

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        sqliteDSN(dsn),
		}),
		&gorm.Config{},
	)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers anyway; one connection also keeps
	// ":memory:" databases from splitting per connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite&_pragma=foreign_keys(1)"
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.Booking{},
		&domain.Application{},
		&domain.AuditLog{},
	); err != nil {
		return err
	}
	// At most one pending application per user.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_one_pending " +
			"ON applications (user_id) WHERE status = 'pending'",
	).Error
}
