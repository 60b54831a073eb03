package auth

import "circlepoint/internal/domain"

const minPasswordLength = 8

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
