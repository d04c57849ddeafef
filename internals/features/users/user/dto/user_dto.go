package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	uModel "feeportal_backend/internals/features/users/user/model"
)

const DateLayout = "2006-01-02"

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// UpdateUserRequest is an admin partial update of identity fields.
type UpdateUserRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,min=3,max=150"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=student admin"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.UserName != nil {
		v := strings.TrimSpace(*r.UserName)
		r.UserName = &v
	}
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Role != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Role))
		r.Role = &v
	}
}

func (r *UpdateUserRequest) BuildUpdateMap() map[string]interface{} {
	m := map[string]interface{}{}
	if r.UserName != nil {
		m["user_name"] = *r.UserName
	}
	if r.FullName != nil {
		m["full_name"] = *r.FullName
	}
	if r.Email != nil {
		m["email"] = *r.Email
	}
	if r.Role != nil {
		m["role"] = *r.Role
	}
	return m
}

type DueDateInput struct {
	Year    string `json:"year" validate:"required"`
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// AssignAcademicRequest places a student in a university/program and sets their schedule.
type AssignAcademicRequest struct {
	UniversityID uuid.UUID      `json:"university_id" validate:"required"`
	ProgramID    uuid.UUID      `json:"program_id" validate:"required"`
	CurrentYear  string         `json:"current_year" validate:"required"`
	EnrolledAt   *string        `json:"enrolled_at" validate:"omitempty,datetime=2006-01-02"`
	DueDates     []DueDateInput `json:"due_dates" validate:"omitempty,dive"`
}

func (r *AssignAcademicRequest) Normalize() {
	r.CurrentYear = strings.TrimSpace(r.CurrentYear)
	for i := range r.DueDates {
		r.DueDates[i].Year = strings.TrimSpace(r.DueDates[i].Year)
	}
}

// ParseDueDates converts the validated input, rejecting repeated years.
func (r *AssignAcademicRequest) ParseDueDates() ([]uModel.DueDateEntry, error) {
	out := make([]uModel.DueDateEntry, 0, len(r.DueDates))
	seen := map[string]struct{}{}
	for _, d := range r.DueDates {
		if _, dup := seen[d.Year]; dup {
			return nil, fmt.Errorf("duplicate due date for %q", d.Year)
		}
		seen[d.Year] = struct{}{}
		t, err := time.Parse(DateLayout, d.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid due_date", d.Year)
		}
		out = append(out, uModel.DueDateEntry{Year: d.Year, DueDate: t})
	}
	return out, nil
}

func (r *AssignAcademicRequest) ParseEnrolledAt() (*time.Time, error) {
	if r.EnrolledAt == nil || strings.TrimSpace(*r.EnrolledAt) == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(*r.EnrolledAt))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type ListUserQuery struct {
	Search       string     `query:"search"`
	Role         string     `query:"role"`
	UniversityID *uuid.UUID `query:"university_id"`
	ProgramID    *uuid.UUID `query:"program_id"`
	IsActive     *bool      `query:"is_active"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type DueDateResponse struct {
	Year    string `json:"year"`
	DueDate string `json:"due_date"`
}

type UserResponse struct {
	ID           uuid.UUID         `json:"id"`
	UserName     string            `json:"user_name"`
	FullName     string            `json:"full_name"`
	Email        string            `json:"email"`
	Role         string            `json:"role"`
	IsActive     bool              `json:"is_active"`
	HasGoogle    bool              `json:"has_google"`
	UniversityID *uuid.UUID        `json:"university_id"`
	ProgramID    *uuid.UUID        `json:"program_id"`
	CurrentYear  *string           `json:"current_year"`
	EnrolledAt   *string           `json:"enrolled_at"`
	DueDates     []DueDateResponse `json:"due_dates"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func ToUserResponse(u uModel.UserModel) UserResponse {
	full := ""
	if u.FullName != nil {
		full = *u.FullName
	}
	var enrolled *string
	if u.EnrolledAt != nil {
		s := u.EnrolledAt.Format(DateLayout)
		enrolled = &s
	}
	dues := make([]DueDateResponse, 0, len(u.DueDates.Data()))
	for _, d := range u.DueDates.Data() {
		dues = append(dues, DueDateResponse{Year: d.Year, DueDate: d.DueDate.Format(DateLayout)})
	}
	return UserResponse{
		ID:           u.ID,
		UserName:     u.UserName,
		FullName:     full,
		Email:        u.Email,
		Role:         u.Role,
		IsActive:     u.IsActive,
		HasGoogle:    u.GoogleID != nil && *u.GoogleID != "",
		UniversityID: u.UniversityID,
		ProgramID:    u.ProgramID,
		CurrentYear:  u.CurrentYear,
		EnrolledAt:   enrolled,
		DueDates:     dues,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// DueDatesColumn wraps entries for a gorm update map.
func DueDatesColumn(entries []uModel.DueDateEntry) datatypes.JSONType[[]uModel.DueDateEntry] {
	return datatypes.NewJSONType(entries)
}
