package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyRented      PropertyStatus = "rented"
	PropertyMaintenance PropertyStatus = "maintenance"
	PropertyPending     PropertyStatus = "pending"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertyRented, PropertyMaintenance, PropertyPending:
		return true
	}
	return false
}

type Property struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	ManagerID   string          `json:"manager_id" gorm:"size:36;index;not null"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Address     string          `json:"address,omitempty" gorm:"size:255"`
	City        string          `json:"city,omitempty" gorm:"size:100;index"`
	Country     string          `json:"country,omitempty" gorm:"size:100"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	MaxGuests   int             `json:"max_guests"`
	NightlyRate decimal.Decimal `json:"nightly_rate" gorm:"type:numeric(12,2);not null"`
	CleaningFee decimal.Decimal `json:"cleaning_fee" gorm:"type:numeric(12,2);not null;default:0"`
	Status      PropertyStatus  `json:"status" gorm:"size:20;index;not null;default:available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
