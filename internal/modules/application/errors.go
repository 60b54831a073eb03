package application

import "circlepoint/internal/pkg/apperr"

var (
	ErrApplicationNotFound    = apperr.NotFound("ApplicationNotFound")
	ErrApplicationExists      = apperr.Conflict("ApplicationExists")
	ErrInvalidTransition      = apperr.Conflict("InvalidStatusTransition")
	ErrMissingRejectionReason = apperr.Validation("MissingRejectionReason")
	ErrInvalidEmail           = apperr.Validation("InvalidEmail")
	ErrInvalidStatus          = apperr.Validation("InvalidStatus")
)
