package property

import "github.com/shopspring/decimal"

type CreatePropertyRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description"`
	Address     string          `json:"address" validate:"required,max=255"`
	City        string          `json:"city" validate:"required,max=100"`
	Country     string          `json:"country" validate:"required,max=100"`
	Bedrooms    int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int             `json:"bathrooms" validate:"gte=0"`
	MaxGuests   int             `json:"max_guests" validate:"gte=1"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
	CleaningFee decimal.Decimal `json:"cleaning_fee"`
	Status      string          `json:"status,omitempty"`
}

// UpdatePropertyRequest changes only the fields that are present.
type UpdatePropertyRequest struct {
	Title       *string          `json:"title" validate:"omitnil,max=255"`
	Description *string          `json:"description"`
	Address     *string          `json:"address" validate:"omitnil,max=255"`
	City        *string          `json:"city" validate:"omitnil,max=100"`
	Country     *string          `json:"country" validate:"omitnil,max=100"`
	Bedrooms    *int             `json:"bedrooms" validate:"omitnil,gte=0"`
	Bathrooms   *int             `json:"bathrooms" validate:"omitnil,gte=0"`
	MaxGuests   *int             `json:"max_guests" validate:"omitnil,gte=1"`
	NightlyRate *decimal.Decimal `json:"nightly_rate"`
	CleaningFee *decimal.Decimal `json:"cleaning_fee"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListQuery struct {
	City   string `form:"city"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// SearchQuery finds available properties for guests.
type SearchQuery struct {
	Location    string `form:"location"`
	MinPrice    string `form:"min_price"`
	MaxPrice    string `form:"max_price"`
	MinBedrooms int    `form:"bedrooms"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}
