package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"feeportal_backend/internals/features/academics/universities/model"
)

/* =========================================================
   REQUEST
========================================================= */

type CreateUniversityRequest struct {
	UniversityName     string  `json:"university_name" validate:"required,min=2,max=150"`
	UniversityCode     string  `json:"university_code" validate:"required,max=30"`
	UniversityAddress  *string `json:"university_address" validate:"omitempty,max=500"`
	UniversityIsActive *bool   `json:"university_is_active"`
}

func (r *CreateUniversityRequest) Normalize() {
	r.UniversityName = strings.TrimSpace(r.UniversityName)
	r.UniversityCode = strings.ToUpper(strings.TrimSpace(r.UniversityCode))
	r.UniversityAddress = trimPtr(r.UniversityAddress)
}

func (r *CreateUniversityRequest) ToModel() model.UniversityModel {
	active := true
	if r.UniversityIsActive != nil {
		active = *r.UniversityIsActive
	}
	return model.UniversityModel{
		UniversityName:     r.UniversityName,
		UniversityCode:     r.UniversityCode,
		UniversityAddress:  r.UniversityAddress,
		UniversityIsActive: active,
	}
}

// UpdateUniversityRequest is a partial update; nil fields are left untouched.
type UpdateUniversityRequest struct {
	UniversityName     *string `json:"university_name" validate:"omitempty,min=2,max=150"`
	UniversityCode     *string `json:"university_code" validate:"omitempty,max=30"`
	UniversityAddress  *string `json:"university_address" validate:"omitempty,max=500"`
	UniversityIsActive *bool   `json:"university_is_active"`
}

func (r *UpdateUniversityRequest) Normalize() {
	r.UniversityName = trimPtr(r.UniversityName)
	if r.UniversityCode != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.UniversityCode))
		r.UniversityCode = &v
	}
	r.UniversityAddress = trimPtr(r.UniversityAddress)
}

func (r *UpdateUniversityRequest) BuildUpdateMap() map[string]interface{} {
	m := map[string]interface{}{}
	if r.UniversityName != nil {
		m["university_name"] = *r.UniversityName
	}
	if r.UniversityCode != nil {
		m["university_code"] = *r.UniversityCode
	}
	if r.UniversityAddress != nil {
		m["university_address"] = *r.UniversityAddress
	}
	if r.UniversityIsActive != nil {
		m["university_is_active"] = *r.UniversityIsActive
	}
	return m
}

type ListUniversityQuery struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

/* =========================================================
   RESPONSE
========================================================= */

type UniversityResponse struct {
	UniversityID       uuid.UUID `json:"university_id"`
	UniversityName     string    `json:"university_name"`
	UniversityCode     string    `json:"university_code"`
	UniversityAddress  string    `json:"university_address"`
	UniversityIsActive bool      `json:"university_is_active"`
	CreatedAt          time.Time `json:"university_created_at"`
	UpdatedAt          time.Time `json:"university_updated_at"`
}

func ToUniversityResponse(m model.UniversityModel) UniversityResponse {
	addr := ""
	if m.UniversityAddress != nil {
		addr = *m.UniversityAddress
	}
	return UniversityResponse{
		UniversityID:       m.UniversityID,
		UniversityName:     m.UniversityName,
		UniversityCode:     m.UniversityCode,
		UniversityAddress:  addr,
		UniversityIsActive: m.UniversityIsActive,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
