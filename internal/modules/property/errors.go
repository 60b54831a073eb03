package property

import "circlepoint/internal/pkg/apperr"

var (
	ErrPropertyNotFound      = apperr.NotFound("PropertyNotFound")
	ErrActiveBookingsExist   = apperr.Conflict("ActiveBookingsExist")
	ErrInvalidRate           = apperr.Validation("InvalidRate")
	ErrInvalidPropertyStatus = apperr.Validation("InvalidPropertyStatus")
	ErrInvalidField          = apperr.Validation("InvalidField")
)
