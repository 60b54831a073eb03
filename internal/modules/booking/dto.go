package booking

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FormValue is a raw form field. JSON clients may send it as a string,
// number or boolean; it is kept as text until validation.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(b)
	return nil
}

func (v FormValue) String() string { return strings.TrimSpace(string(v)) }

// Bool follows HTML checkbox semantics.
func (v FormValue) Bool() bool {
	switch strings.ToLower(v.String()) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// BookingRequest is the untrusted booking form. The quick flow only reads
// the first block of fields.
type BookingRequest struct {
	PropertyID string    `json:"property_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Guests     FormValue `json:"guests"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`

	FullName       string `json:"guest_full_name"`
	Email          string `json:"guest_email"`
	Nationality    string `json:"guest_nationality"`
	DateOfBirth    string `json:"guest_date_of_birth"`
	Gender         string `json:"guest_gender"`
	PassportNumber string `json:"guest_passport_number"`
	Address        string `json:"guest_address"`
	PurposeOfVisit string `json:"purpose_of_visit"`

	ArrivalDate     string `json:"arrival_date"`
	ArrivalFlight   string `json:"arrival_flight"`
	DepartureDate   string `json:"departure_date"`
	DepartureFlight string `json:"departure_flight"`

	EmergencyContactName         string `json:"emergency_contact_name"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship"`
	EmergencyContactPhone        string `json:"emergency_contact_phone"`
	EmergencyContactEmail        string `json:"emergency_contact_email"`

	Signature          string    `json:"signature_data"`
	TermsAccepted      FormValue `json:"terms_accepted"`
	IsForeigner        FormValue `json:"is_foreigner"`
	RequiresVisaLetter FormValue `json:"requires_visa_letter"`
}

type ListManagedQuery struct {
	PropertyID string `form:"property_id"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}
