package booking

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"circlepoint/internal/domain"
)

type LetterKind string

const (
	LetterBooking LetterKind = "booking"
	LetterVisa    LetterKind = "visa"
)

func (k LetterKind) Valid() bool {
	return k == LetterBooking || k == LetterVisa
}

// LetterPath is the API path a booking's letter is served from.
func LetterPath(bookingID string, kind LetterKind) string {
	return fmt.Sprintf("/api/v1/bookings/%s/letters/%s", bookingID, kind)
}

type letterInfo struct {
	Company      string
	ContactEmail string
}

type letterData struct {
	Company      string
	ContactEmail string
	Booking      *domain.Booking
	Property     *domain.Property
	Manager      string
	Issued       time.Time
}

var letterFuncs = template.FuncMap{
	"date": func(t any) string {
		switch v := t.(type) {
		case time.Time:
			return v.Format("January 02, 2006")
		case *time.Time:
			if v == nil {
				return ""
			}
			return v.Format("January 02, 2006")
		}
		return ""
	},
}

var letterTemplates = map[LetterKind]*template.Template{
	LetterBooking: template.Must(template.New("booking").Funcs(letterFuncs).Parse(bookingLetterHTML)),
	LetterVisa:    template.Must(template.New("visa").Funcs(letterFuncs).Parse(visaLetterHTML)),
}

// RenderLetter renders a booking's request form or visa invitation letter as
// printable HTML. Only people who may read the booking may render it.
func (s *Service) RenderLetter(ctx context.Context, actor domain.Actor, id string, kind LetterKind) ([]byte, error) {
	if !kind.Valid() {
		return nil, ErrInvalidLetterKind.WithField("kind")
	}

	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch kind {
	case LetterBooking:
		if b.BookingLetterPath == "" {
			return nil, ErrLetterNotFound
		}
	case LetterVisa:
		if b.VisaLetterPath == "" {
			return nil, ErrLetterNotFound
		}
	}

	p, err := s.getProperty(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrLetterNotFound
	}

	data := letterData{
		Company:      s.letters.Company,
		ContactEmail: s.letters.ContactEmail,
		Booking:      b,
		Property:     p,
		Manager:      s.letters.Company + " Management",
		Issued:       s.now().UTC(),
	}
	if m := s.lookupUser(ctx, p.ManagerID); m != nil {
		data.Manager = m.FullName()
	}

	var buf bytes.Buffer
	if err := letterTemplates[kind].Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s letter: %w", kind, err)
	}
	return buf.Bytes(), nil
}

const letterStyle = `<style>
body { font-family: Arial, sans-serif; max-width: 800px; margin: 40px auto; color: #222; }
.header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 16px; margin-bottom: 24px; }
.section { margin-bottom: 20px; }
.section-title { font-weight: bold; background: #f0f0f0; padding: 6px 10px; margin-bottom: 8px; }
.field { display: flex; margin-bottom: 6px; }
.field-label { width: 200px; font-weight: bold; }
table { width: 100%; border-collapse: collapse; margin: 16px 0; }
td { border: 1px solid #ccc; padding: 8px; }
.footer { margin-top: 48px; padding-top: 16px; border-top: 1px solid #ccc; font-size: 10pt; color: #666; text-align: center; }
@media print { .no-print { display: none; } }
</style>`

const bookingLetterHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Booking Request - {{.Booking.ID}}</title>` + letterStyle + `</head>
<body>
<div class="header">
  <h1>{{.Company}}</h1>
  <h2>Apartment Booking Request Form</h2>
  <p>(for Traveling Guest)</p>
  <p><strong>Booking ID:</strong> {{.Booking.ID}}</p>
  <p><strong>Date:</strong> {{date .Issued}}</p>
</div>

<div class="section">
  <div class="section-title">Guest Information</div>
  <div class="field"><div class="field-label">Full Name:</div><div>{{.Booking.FullName}}</div></div>
  <div class="field"><div class="field-label">Date of Birth:</div><div>{{date .Booking.DateOfBirth}}</div></div>
  <div class="field"><div class="field-label">Nationality:</div><div>{{.Booking.Nationality}}</div></div>
  <div class="field"><div class="field-label">Passport Number:</div><div>{{.Booking.PassportNumber}}</div></div>
  <div class="field"><div class="field-label">Email Address:</div><div>{{.Booking.Email}}</div></div>
  <div class="field"><div class="field-label">Phone Number:</div><div>{{.Booking.Phone}}</div></div>
</div>

<div class="section">
  <div class="section-title">Property Details</div>
  <div class="field"><div class="field-label">Property Name:</div><div>{{.Property.Title}}</div></div>
  <div class="field"><div class="field-label">Address:</div><div>{{.Property.Address}}, {{.Property.City}}, {{.Property.Country}}</div></div>
</div>

<div class="section">
  <div class="section-title">Travel Details</div>
  <div class="field"><div class="field-label">Purpose of Visit:</div><div>{{.Booking.PurposeOfVisit}}</div></div>
  <div class="field"><div class="field-label">Check-in Date:</div><div>{{date .Booking.CheckIn}}</div></div>
  <div class="field"><div class="field-label">Check-out Date:</div><div>{{date .Booking.CheckOut}}</div></div>
  <div class="field"><div class="field-label">Arrival Date:</div><div>{{date .Booking.ArrivalDate}}</div></div>
  <div class="field"><div class="field-label">Departure Date:</div><div>{{date .Booking.DepartureDate}}</div></div>
  {{- if .Booking.ArrivalFlight}}
  <div class="field"><div class="field-label">Flight Number:</div><div>{{.Booking.ArrivalFlight}}</div></div>
  {{- end}}
</div>

<div class="section">
  <div class="section-title">Emergency Contact</div>
  <div class="field"><div class="field-label">Name:</div><div>{{.Booking.EmergencyContactName}}</div></div>
  <div class="field"><div class="field-label">Phone Number:</div><div>{{.Booking.EmergencyContactPhone}}</div></div>
  <div class="field"><div class="field-label">Relationship to Guest:</div><div>{{.Booking.EmergencyContactRelationship}}</div></div>
</div>

<div class="section">
  <h3>Declaration</h3>
  <p>I confirm that the information provided above is correct and I understand that this booking request is subject to confirmation by the apartment management.</p>
  <p><strong>Signature:</strong> {{.Booking.Signature}}</p>
</div>

<p class="no-print">Use your browser's Print function and select "Save as PDF" as the destination.</p>
</body>
</html>
`

const visaLetterHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Invitation Letter - {{.Booking.ID}}</title>` + letterStyle + `</head>
<body>
<div class="header">
  <h1>{{.Company}}</h1>
  <p>{{.Property.Address}}<br>{{.Property.City}}, {{.Property.Country}}{{if .ContactEmail}}<br>Email: {{.ContactEmail}}{{end}}</p>
</div>

<p>Date: {{date .Issued}}</p>

<p><strong>To:</strong><br>The Consulate General of [Country]<br>[Embassy/Consulate Address]</p>

<p><strong>Subject: Invitation Letter for {{.Booking.FullName}}, Passport No. {{.Booking.PassportNumber}}</strong></p>

<p>Dear Sir/Madam,</p>

<p>I, <strong>{{.Manager}}</strong>, on behalf of {{.Company}}, residing at <strong>{{.Property.Address}}, {{.Property.City}}, {{.Property.Country}}</strong>, am writing to invite <strong>{{.Booking.FullName}}</strong>, holder of passport number <strong>{{.Booking.PassportNumber}}</strong>, to visit us in {{.Property.Country}} from <strong>{{date .Booking.CheckIn}}</strong> to <strong>{{date .Booking.CheckOut}}</strong>.</p>

<p>During this stay, the guest will be accommodated at <strong>{{.Property.Title}}</strong>, which has been booked for the duration of the visit.</p>

<p><strong>Accommodation Details:</strong></p>
<table>
  <tr><td width="40%"><strong>Property Name:</strong></td><td>{{.Property.Title}}</td></tr>
  <tr><td><strong>Property Address:</strong></td><td>{{.Property.Address}}, {{.Property.City}}, {{.Property.Country}}</td></tr>
  <tr><td><strong>Check-in Date:</strong></td><td>{{date .Booking.CheckIn}}</td></tr>
  <tr><td><strong>Check-out Date:</strong></td><td>{{date .Booking.CheckOut}}</td></tr>
  <tr><td><strong>Duration of Stay:</strong></td><td>{{.Booking.Nights}} nights</td></tr>
</table>

<p>The purpose of the visit is <strong>{{.Booking.PurposeOfVisit}}</strong>.</p>

<p>Should you require any further information or verification, please contact us at the details provided above.</p>

<p>Yours faithfully,</p>
<p><strong>{{.Manager}}</strong><br>{{.Company}}<br>Property Manager<br>Date: {{date .Issued}}</p>

<div class="footer">
  <p>This is an official invitation letter from {{.Company}}.<br>Booking Reference: {{.Booking.ID}}</p>
</div>

<p class="no-print">Use your browser's Print function and select "Save as PDF" as the destination.</p>
</body>
</html>
`
