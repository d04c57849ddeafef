package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"feeportal_backend/internals/constants"
)

// DueDateEntry is an explicit per-user due date for one program year.
type DueDateEntry struct {
	Year    string    `json:"year"`
	DueDate time.Time `json:"due_date"`
}

// UserModel maps the users table. Students carry their academic assignment.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null;uniqueIndex" json:"user_name"`
	FullName *string   `gorm:"size:150" json:"full_name,omitempty"`
	Email    string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	GoogleID *string   `gorm:"size:255;uniqueIndex" json:"google_id,omitempty"`
	Role     string    `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	UniversityID *uuid.UUID                         `gorm:"type:uuid;index" json:"university_id,omitempty"`
	ProgramID    *uuid.UUID                         `gorm:"type:uuid;index" json:"program_id,omitempty"`
	CurrentYear  *string                            `gorm:"size:20" json:"current_year,omitempty"`
	EnrolledAt   *time.Time                         `gorm:"type:date" json:"enrolled_at,omitempty"`
	DueDates     datatypes.JSONType[[]DueDateEntry] `gorm:"type:jsonb" json:"due_dates"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) IsStudent() bool {
	return strings.EqualFold(u.Role, constants.RoleStudent)
}

func (u *UserModel) IsAdmin() bool {
	return strings.EqualFold(u.Role, constants.RoleAdmin)
}

// DueDateFor returns the explicit due date recorded for year, if any.
func (u *UserModel) DueDateFor(year string) (time.Time, bool) {
	for _, d := range u.DueDates.Data() {
		if d.Year == year {
			return d.DueDate, true
		}
	}
	return time.Time{}, false
}

// EnrollmentDate falls back to the account creation time when no enrollment date is set.
func (u *UserModel) EnrollmentDate() time.Time {
	if u.EnrolledAt != nil && !u.EnrolledAt.IsZero() {
		return *u.EnrolledAt
	}
	return u.CreatedAt
}

func (u *UserModel) DisplayName() string {
	if u.FullName != nil && strings.TrimSpace(*u.FullName) != "" {
		return *u.FullName
	}
	return u.UserName
}
