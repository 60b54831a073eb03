package booking

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/apperr"
	"circlepoint/internal/pkg/validator"
	"circlepoint/internal/repository"
)

type Flow int

const (
	// FlowQuick is the short form: dates, guests and optional contact text.
	FlowQuick Flow = iota
	// FlowDeclaration also captures the guest declaration for visa documents.
	FlowDeclaration
)

// ValidatedBooking is a request that passed every check, with typed values.
type ValidatedBooking struct {
	Property    *domain.Property
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
	Phone       string
	Message     string
	Declaration *domain.GuestDeclaration
}

// Validator runs the booking checks in a fixed order and stops at the first
// failure.
type Validator struct {
	properties PropertyRepository
	now        func() time.Time
}

func NewValidator(properties PropertyRepository, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{properties: properties, now: now}
}

type field struct {
	name  string
	value string
}

func (v *Validator) Validate(ctx context.Context, req BookingRequest, flow Flow) (*ValidatedBooking, error) {
	// 1. required fields
	if err := requireFields(requiredFields(req, flow)); err != nil {
		return nil, err
	}

	// 2. stay dates
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return nil, ErrInvalidDate.WithField("check_in")
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return nil, ErrInvalidDate.WithField("check_out")
	}

	guests, err := strconv.Atoi(req.Guests.String())
	if err != nil || guests < 1 {
		return nil, ErrInvalidGuestCount.WithField("guests")
	}

	var decl *domain.GuestDeclaration
	if flow == FlowDeclaration {
		if decl, err = declaration(req); err != nil {
			return nil, err
		}
	}

	// 3. no past check-in; equal to now is accepted
	if checkIn.Before(v.now()) {
		return nil, ErrCheckInInPast.WithField("check_in")
	}

	// 4. date order
	if !checkOut.After(checkIn) {
		return nil, ErrCheckOutBeforeCheckIn.WithField("check_out")
	}

	// 5. terms
	if flow == FlowDeclaration && !decl.TermsAccepted {
		return nil, ErrTermsNotAccepted.WithField("terms_accepted")
	}

	// 6. property
	p, err := v.properties.GetByID(ctx, strings.TrimSpace(req.PropertyID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPropertyNotFound.WithField("property_id")
		}
		return nil, err
	}

	return &ValidatedBooking{
		Property:    p,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      guests,
		Phone:       strings.TrimSpace(req.Phone),
		Message:     strings.TrimSpace(req.Message),
		Declaration: decl,
	}, nil
}

func requiredFields(req BookingRequest, flow Flow) []field {
	fields := []field{
		{"property_id", req.PropertyID},
		{"check_in", req.CheckIn},
		{"check_out", req.CheckOut},
		{"guests", req.Guests.String()},
	}
	if flow != FlowDeclaration {
		return fields
	}
	return append(fields,
		field{"guest_full_name", req.FullName},
		field{"guest_email", req.Email},
		field{"guest_nationality", req.Nationality},
		field{"guest_date_of_birth", req.DateOfBirth},
		field{"guest_gender", req.Gender},
		field{"guest_passport_number", req.PassportNumber},
		field{"guest_address", req.Address},
		field{"purpose_of_visit", req.PurposeOfVisit},
		field{"arrival_date", req.ArrivalDate},
		field{"departure_date", req.DepartureDate},
		field{"emergency_contact_name", req.EmergencyContactName},
		field{"emergency_contact_relationship", req.EmergencyContactRelationship},
		field{"emergency_contact_phone", req.EmergencyContactPhone},
		field{"signature_data", req.Signature},
		field{"terms_accepted", req.TermsAccepted.String()},
	)
}

func requireFields(fields []field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperr.ErrMissingField.WithField(f.name)
		}
	}
	return nil
}

func declaration(req BookingRequest) (*domain.GuestDeclaration, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, ErrInvalidDate.WithField("guest_date_of_birth")
	}
	arrival, err := parseDate(req.ArrivalDate)
	if err != nil {
		return nil, ErrInvalidDate.WithField("arrival_date")
	}
	departure, err := parseDate(req.DepartureDate)
	if err != nil {
		return nil, ErrInvalidDate.WithField("departure_date")
	}

	email := strings.TrimSpace(req.Email)
	if !validator.IsEmail(email) {
		return nil, ErrInvalidEmail.WithField("guest_email")
	}
	emergencyEmail := strings.TrimSpace(req.EmergencyContactEmail)
	if emergencyEmail != "" && !validator.IsEmail(emergencyEmail) {
		return nil, ErrInvalidEmail.WithField("emergency_contact_email")
	}

	gender := domain.Gender(strings.ToLower(strings.TrimSpace(req.Gender)))
	if !gender.Valid() {
		return nil, ErrInvalidGender.WithField("guest_gender")
	}

	return &domain.GuestDeclaration{
		FullName:                     strings.TrimSpace(req.FullName),
		Email:                        email,
		Nationality:                  strings.TrimSpace(req.Nationality),
		DateOfBirth:                  &dob,
		Gender:                       gender,
		PassportNumber:               strings.TrimSpace(req.PassportNumber),
		Address:                      strings.TrimSpace(req.Address),
		PurposeOfVisit:               strings.TrimSpace(req.PurposeOfVisit),
		ArrivalDate:                  &arrival,
		ArrivalFlight:                strings.TrimSpace(req.ArrivalFlight),
		DepartureDate:                &departure,
		DepartureFlight:              strings.TrimSpace(req.DepartureFlight),
		EmergencyContactName:         strings.TrimSpace(req.EmergencyContactName),
		EmergencyContactRelationship: strings.TrimSpace(req.EmergencyContactRelationship),
		EmergencyContactPhone:        strings.TrimSpace(req.EmergencyContactPhone),
		EmergencyContactEmail:        emergencyEmail,
		TermsAccepted:                req.TermsAccepted.Bool(),
		Signature:                    strings.TrimSpace(req.Signature),
		IsForeigner:                  req.IsForeigner.Bool(),
		RequiresVisaLetter:           req.RequiresVisaLetter.Bool(),
	}, nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
