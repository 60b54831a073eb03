package auth

import "circlepoint/internal/pkg/apperr"

var (
	ErrInvalidCredentials = apperr.Authorization("InvalidCredentials")
	ErrEmailTaken         = apperr.Conflict("EmailTaken")
	ErrInvalidEmail       = apperr.Validation("InvalidEmail")
	ErrWeakPassword       = apperr.Validation("WeakPassword")
)
