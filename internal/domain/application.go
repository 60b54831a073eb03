package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// Application is a user's request to become a property manager.
type Application struct {
	ID              string            `json:"id" gorm:"primaryKey;size:36"`
	UserID          string            `json:"user_id" gorm:"size:36;index;not null"`
	FullName        string            `json:"full_name" gorm:"size:255;not null"`
	Email           string            `json:"email" gorm:"size:255;not null"`
	Phone           string            `json:"phone" gorm:"size:50;not null"`
	CompanyName     string            `json:"company_name,omitempty" gorm:"size:255"`
	PropertiesCount int               `json:"properties_count"`
	ExperienceYears int               `json:"experience_years"`
	Message         string            `json:"message" gorm:"type:text"`
	Status          ApplicationStatus `json:"status" gorm:"size:16;index;not null;default:pending"`
	ReviewedBy      *string           `json:"reviewed_by,omitempty" gorm:"size:36"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty" gorm:"type:text"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
