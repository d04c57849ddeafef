package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"feeportal_backend/internals/features/academics/programs/model"
)

/* =========================================================
   REQUEST
========================================================= */

type CreateProgramRequest struct {
	ProgramUniversityID  uuid.UUID      `json:"program_university_id" validate:"required"`
	ProgramName          string         `json:"program_name" validate:"required,min=2,max=150"`
	ProgramCode          string         `json:"program_code" validate:"required,max=30"`
	ProgramDurationYears int            `json:"program_duration_years" validate:"required,min=1,max=10"`
	ProgramFees          model.FeeTable `json:"program_fees"`
}

func (r *CreateProgramRequest) Normalize() {
	r.ProgramName = strings.TrimSpace(r.ProgramName)
	r.ProgramCode = strings.ToUpper(strings.TrimSpace(r.ProgramCode))
	if r.ProgramFees == nil {
		r.ProgramFees = model.FeeTable{}
	}
}

func (r *CreateProgramRequest) ToModel() model.ProgramModel {
	return model.ProgramModel{
		ProgramUniversityID:  r.ProgramUniversityID,
		ProgramName:          r.ProgramName,
		ProgramCode:          r.ProgramCode,
		ProgramDurationYears: r.ProgramDurationYears,
		ProgramFees:          r.ProgramFees,
	}
}

// UpdateProgramRequest is a partial update. A new fee table replaces the old one whole.
type UpdateProgramRequest struct {
	ProgramUniversityID  *uuid.UUID      `json:"program_university_id"`
	ProgramName          *string         `json:"program_name" validate:"omitempty,min=2,max=150"`
	ProgramCode          *string         `json:"program_code" validate:"omitempty,max=30"`
	ProgramDurationYears *int            `json:"program_duration_years" validate:"omitempty,min=1,max=10"`
	ProgramFees          *model.FeeTable `json:"program_fees"`
}

func (r *UpdateProgramRequest) Normalize() {
	if r.ProgramName != nil {
		v := strings.TrimSpace(*r.ProgramName)
		r.ProgramName = &v
	}
	if r.ProgramCode != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.ProgramCode))
		r.ProgramCode = &v
	}
}

// Apply copies the set fields onto m so the caller can re-validate the fee table
// against the resulting duration before saving.
func (r *UpdateProgramRequest) Apply(m *model.ProgramModel) {
	if r.ProgramUniversityID != nil {
		m.ProgramUniversityID = *r.ProgramUniversityID
	}
	if r.ProgramName != nil {
		m.ProgramName = *r.ProgramName
	}
	if r.ProgramCode != nil {
		m.ProgramCode = *r.ProgramCode
	}
	if r.ProgramDurationYears != nil {
		m.ProgramDurationYears = *r.ProgramDurationYears
	}
	if r.ProgramFees != nil {
		m.ProgramFees = *r.ProgramFees
	}
}

func (r *UpdateProgramRequest) IsEmpty() bool {
	return r.ProgramUniversityID == nil && r.ProgramName == nil && r.ProgramCode == nil &&
		r.ProgramDurationYears == nil && r.ProgramFees == nil
}

type ListProgramQuery struct {
	UniversityID *uuid.UUID `query:"university_id"`
	Search       string     `query:"search"`
}

/* =========================================================
   RESPONSE
========================================================= */

type ProgramResponse struct {
	ProgramID            uuid.UUID      `json:"program_id"`
	ProgramUniversityID  uuid.UUID      `json:"program_university_id"`
	ProgramName          string         `json:"program_name"`
	ProgramCode          string         `json:"program_code"`
	ProgramDurationYears int            `json:"program_duration_years"`
	ProgramFees          model.FeeTable `json:"program_fees"`
	ProgramTotalFee      int64          `json:"program_total_fee"`
	CreatedAt            time.Time      `json:"program_created_at"`
	UpdatedAt            time.Time      `json:"program_updated_at"`
}

func ToProgramResponse(m model.ProgramModel) ProgramResponse {
	var total int64
	for _, f := range m.ProgramFees {
		total += f.Amount
	}
	return ProgramResponse{
		ProgramID:            m.ProgramID,
		ProgramUniversityID:  m.ProgramUniversityID,
		ProgramName:          m.ProgramName,
		ProgramCode:          m.ProgramCode,
		ProgramDurationYears: m.ProgramDurationYears,
		ProgramFees:          m.ProgramFees,
		ProgramTotalFee:      total,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
