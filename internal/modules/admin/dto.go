package admin

import "circlepoint/internal/domain"

// Account list filters.
const (
	FilterActive   = "active"
	FilterArchived = "archived"
	FilterAll      = "all"
)

type ListUsersQuery struct {
	Status string `form:"status"`
	Role   string `form:"role"`
	Query  string `form:"q"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type UserCounts struct {
	Active   int64 `json:"active"`
	Archived int64 `json:"archived"`
	All      int64 `json:"all"`
}

type UserListResult struct {
	Users  []domain.User `json:"users"`
	Total  int64         `json:"total"`
	Counts UserCounts    `json:"counts"`
}

// ArchiveResult reports the account and how many of its properties moved.
type ArchiveResult struct {
	User              *domain.User `json:"user"`
	PropertiesChanged int64        `json:"properties_changed"`
}
