package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditBookingCreated       = "booking_created"
	AuditBookingApproved      = "booking_approved"
	AuditBookingRejected      = "booking_rejected"
	AuditBookingDeleted       = "booking_deleted"
	AuditBookingCompleted     = "booking_completed"
	AuditPropertyCreated      = "property_created"
	AuditPropertyUpdated      = "property_updated"
	AuditPropertyStatus       = "property_status_changed"
	AuditPropertyDeleted      = "property_deleted"
	AuditApplicationSubmitted = "application_submitted"
	AuditApplicationApproved  = "application_approved"
	AuditApplicationRejected  = "application_rejected"
	AuditUserArchived         = "user_archived"
	AuditUserUnarchived       = "user_unarchived"
)

const (
	EntityBooking     = "booking"
	EntityProperty    = "property"
	EntityApplication = "application"
	EntityUser        = "user"
)

type AuditLog struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	ActorID    string         `json:"actor_id" gorm:"size:36;index"`
	Action     string         `json:"action" gorm:"size:64;index"`
	EntityType string         `json:"entity_type" gorm:"size:32;index"`
	EntityID   string         `json:"entity_id" gorm:"size:36;index"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (AuditLog) TableName() string { return "activity_log" }
