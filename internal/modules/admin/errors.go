package admin

import "circlepoint/internal/pkg/apperr"

var (
	ErrUserNotFound     = apperr.NotFound("UserNotFound")
	ErrCannotModifySelf = apperr.Validation("CannotModifySelf")
	ErrInvalidStatus    = apperr.Validation("InvalidStatus")
	ErrInvalidField     = apperr.Validation("InvalidField")
)
