package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Active bookings hold the property's dates.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// GuestDeclaration is the travel/identity data captured for visa-support
// documents. It is empty for bookings made through the quick flow.
type GuestDeclaration struct {
	FullName       string     `json:"guest_full_name,omitempty" gorm:"column:guest_full_name;size:255"`
	Email          string     `json:"guest_email,omitempty" gorm:"column:guest_email;size:255"`
	Nationality    string     `json:"guest_nationality,omitempty" gorm:"column:guest_nationality;size:100"`
	DateOfBirth    *time.Time `json:"guest_date_of_birth,omitempty" gorm:"column:guest_date_of_birth"`
	Gender         Gender     `json:"guest_gender,omitempty" gorm:"column:guest_gender;size:10"`
	PassportNumber string     `json:"guest_passport_number,omitempty" gorm:"column:guest_passport_number;size:100"`
	Address        string     `json:"guest_address,omitempty" gorm:"column:guest_address;type:text"`
	PurposeOfVisit string     `json:"purpose_of_visit,omitempty" gorm:"column:purpose_of_visit;type:text"`

	ArrivalDate     *time.Time `json:"arrival_date,omitempty" gorm:"column:arrival_date"`
	ArrivalFlight   string     `json:"arrival_flight,omitempty" gorm:"column:arrival_flight;size:50"`
	DepartureDate   *time.Time `json:"departure_date,omitempty" gorm:"column:departure_date"`
	DepartureFlight string     `json:"departure_flight,omitempty" gorm:"column:departure_flight;size:50"`

	EmergencyContactName         string `json:"emergency_contact_name,omitempty" gorm:"column:emergency_contact_name;size:255"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship,omitempty" gorm:"column:emergency_contact_relationship;size:100"`
	EmergencyContactPhone        string `json:"emergency_contact_phone,omitempty" gorm:"column:emergency_contact_phone;size:50"`
	EmergencyContactEmail        string `json:"emergency_contact_email,omitempty" gorm:"column:emergency_contact_email;size:255"`

	TermsAccepted      bool   `json:"terms_accepted" gorm:"column:terms_accepted"`
	Signature          string `json:"signature_data,omitempty" gorm:"column:signature_data;size:255"`
	IsForeigner        bool   `json:"is_foreigner" gorm:"column:is_foreigner"`
	RequiresVisaLetter bool   `json:"requires_visa_letter" gorm:"column:requires_visa_letter"`
}

type Booking struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	PropertyID string    `json:"property_id" gorm:"size:36;index;not null"`
	UserID     string    `json:"user_id" gorm:"size:36;index;not null"`
	CheckIn    time.Time `json:"check_in" gorm:"not null"`
	CheckOut   time.Time `json:"check_out" gorm:"index;not null"`
	Guests     int       `json:"guests" gorm:"not null"`
	Phone      string    `json:"phone,omitempty" gorm:"size:50"`
	Message    string    `json:"message,omitempty" gorm:"type:text"`

	GuestDeclaration `gorm:"embedded"`

	Nights     int             `json:"nights" gorm:"not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:numeric(12,2);not null"`
	Status     BookingStatus   `json:"status" gorm:"size:16;index;not null;default:pending"`

	BookingLetterPath string `json:"booking_letter_path,omitempty" gorm:"size:255"`
	VisaLetterPath    string `json:"visa_letter_path,omitempty" gorm:"size:255"`

	ReviewedBy *string    `json:"reviewed_by,omitempty" gorm:"size:36"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
