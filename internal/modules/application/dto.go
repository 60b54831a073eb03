package application

import "circlepoint/internal/domain"

type SubmitRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CompanyName     string `json:"company_name"`
	PropertiesCount int    `json:"properties_count"`
	ExperienceYears int    `json:"experience_years"`
	Message         string `json:"message"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ListQuery struct {
	// Status is pending, approved, rejected or all; empty means pending.
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type ListResult struct {
	Applications []domain.Application               `json:"applications"`
	Counts       map[domain.ApplicationStatus]int64 `json:"counts"`
}
