package domain

import "time"

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleManager    UserRole = "manager"
	RoleSuperAdmin UserRole = "super_admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FirstName    string     `json:"first_name,omitempty" gorm:"size:100"`
	LastName     string     `json:"last_name,omitempty" gorm:"size:100"`
	Phone        string     `json:"phone,omitempty" gorm:"size:50"`
	Role         UserRole   `json:"role" gorm:"size:20;not null;default:user"`
	ArchivedAt   *time.Time `json:"archived_at,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) Archived() bool { return u.ArchivedAt != nil }

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}
