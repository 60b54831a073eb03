package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"circlepoint/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for err. Taxonomy errors keep their code and
// field so the caller can correct and resubmit; anything else is a 500.
func FromError(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		_ = c.Error(err)
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	body := gin.H{
		"code":    e.Code,
		"message": messageFor(e),
	}
	if e.Field != "" {
		body["field"] = e.Field
	}
	c.JSON(StatusFor(e.Kind), gin.H{
		"success": false,
		"error":   body,
	})
}

func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[string]string{
	"MissingField":            "A required field is missing",
	"InvalidDate":             "Date could not be parsed",
	"CheckInInPast":           "Check-in date must be in the future",
	"CheckOutBeforeCheckIn":   "Check-out date must be after check-in date",
	"TermsNotAccepted":        "Terms and conditions must be accepted",
	"PropertyNotFound":        "Property not found",
	"NotPermitted":            "You do not have permission to perform this action",
	"ActiveBookingsExist":     "Cannot delete property with active or pending bookings",
	"MissingRejectionReason":  "A rejection reason is required",
	"InvalidStatusTransition": "The record is not in a state that allows this action",
	"DatesUnavailable":        "The property is already booked for these dates",
	"AvailabilityBusy":        "Another booking for this property is in progress, try again",
	"InvalidGuestCount":       "Guest count must be a whole number of at least 1",
	"InvalidEmail":            "Email address is not valid",
	"InvalidGender":           "Gender must be male, female or other",
	"InvalidStatus":           "Unknown status filter",
	"InvalidRate":             "Rates must not be negative",
	"InvalidPropertyStatus":   "Unknown property status",
	"InvalidField":            "A field has an invalid value",
	"InvalidLetterKind":       "Unknown letter kind",
	"BookingNotFound":         "Booking not found",
	"LetterNotFound":          "Letter not available for this booking",
	"ApplicationNotFound":     "Application not found",
	"ApplicationExists":       "You already have a pending application",
	"Unauthenticated":         "Authentication required",
	"EmailTaken":              "An account with this email already exists",
	"InvalidCredentials":      "Invalid email or password",
	"WeakPassword":            "Password must be at least 8 characters",
	"UserNotFound":            "User not found",
	"CannotModifySelf":        "You cannot change your own account here",
}

// BindError reports a request body that could not be decoded. A value of the
// wrong JSON type is reported against its field.
func BindError(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		FromError(c, apperr.Validation("InvalidField").WithField(typeErr.Field))
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}

func messageFor(e *apperr.Error) string {
	if m, ok := messages[e.Code]; ok {
		if e.Field != "" {
			return m + ": " + e.Field
		}
		return m
	}
	return e.Error()
}
