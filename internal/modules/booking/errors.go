package booking

import "circlepoint/internal/pkg/apperr"

var (
	ErrInvalidDate           = apperr.Validation("InvalidDate")
	ErrInvalidGuestCount     = apperr.Validation("InvalidGuestCount")
	ErrInvalidEmail          = apperr.Validation("InvalidEmail")
	ErrInvalidGender         = apperr.Validation("InvalidGender")
	ErrCheckInInPast         = apperr.Validation("CheckInInPast")
	ErrCheckOutBeforeCheckIn = apperr.Validation("CheckOutBeforeCheckIn")
	ErrTermsNotAccepted      = apperr.Validation("TermsNotAccepted")
	ErrPropertyNotFound      = apperr.Validation("PropertyNotFound")
	ErrInvalidLetterKind     = apperr.Validation("InvalidLetterKind")

	ErrBookingNotFound = apperr.NotFound("BookingNotFound")
	ErrLetterNotFound  = apperr.NotFound("LetterNotFound")

	ErrInvalidTransition = apperr.Conflict("InvalidStatusTransition")
	ErrDatesUnavailable  = apperr.Conflict("DatesUnavailable")
)
