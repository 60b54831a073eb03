package main

import (
	"context"
	"log/slog"
	"os"

	"circlepoint/internal/config"
	"circlepoint/internal/database"
	"circlepoint/internal/domain"
	"circlepoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email     string
	password  string
	firstName string
	role      domain.UserRole
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}

	slog.Info("running migrations")
	if err := database.Migrate(db); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	properties := repository.NewPropertyRepository(db)

	ids := make(map[domain.UserRole]string)
	for _, su := range []seedUser{
		{"admin@circlepointhomes.com", "admin12345", "Admin", domain.RoleSuperAdmin},
		{"manager@circlepointhomes.com", "manager12345", "Maria", domain.RoleManager},
		{"guest@example.com", "guest12345", "Gabriel", domain.RoleUser},
	} {
		existing, err := users.GetByEmail(ctx, su.email)
		if err == nil {
			ids[su.role] = existing.ID
			slog.Info("user exists, skipping", "email", su.email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("hash password", "error", err)
			os.Exit(1)
		}
		u := &domain.User{
			ID:           uuid.NewString(),
			Email:        su.email,
			PasswordHash: string(hash),
			FirstName:    su.firstName,
			Role:         su.role,
		}
		if err := users.Create(ctx, u); err != nil {
			slog.Error("create user", "email", su.email, "error", err)
			os.Exit(1)
		}
		ids[su.role] = u.ID
		slog.Info("user created", "email", su.email, "password", su.password, "role", su.role)
	}

	managerID := ids[domain.RoleManager]
	existing, err := properties.ListByManager(ctx, managerID)
	if err != nil {
		slog.Error("list properties", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		slog.Info("properties exist, skipping", "count", len(existing))
		return
	}

	for _, p := range []domain.Property{
		{
			Title:       "Old Town Loft",
			Description: "Bright loft two minutes from the main square.",
			Address:     "12 Rua Augusta",
			City:        "Lisbon",
			Country:     "Portugal",
			Bedrooms:    1,
			Bathrooms:   1,
			MaxGuests:   2,
			NightlyRate: decimal.RequireFromString("85.00"),
			CleaningFee: decimal.RequireFromString("25.00"),
		},
		{
			Title:       "Harbour Family House",
			Description: "Three bedrooms with a garden and sea view.",
			Address:     "4 Cais da Ribeira",
			City:        "Porto",
			Country:     "Portugal",
			Bedrooms:    3,
			Bathrooms:   2,
			MaxGuests:   6,
			NightlyRate: decimal.RequireFromString("140.00"),
			CleaningFee: decimal.RequireFromString("40.00"),
		},
	} {
		p.ID = uuid.NewString()
		p.ManagerID = managerID
		p.Status = domain.PropertyAvailable
		if err := properties.Create(ctx, &p); err != nil {
			slog.Error("create property", "title", p.Title, "error", err)
			os.Exit(1)
		}
		slog.Info("property created", "title", p.Title, "city", p.City)
	}

	slog.Info("seed completed")
}
