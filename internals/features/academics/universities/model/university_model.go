package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UniversityModel struct {
	UniversityID       uuid.UUID `gorm:"column:university_id;type:uuid;default:gen_random_uuid();primaryKey" json:"university_id"`
	UniversityName     string    `gorm:"column:university_name;type:varchar(150);not null" json:"university_name"`
	UniversityCode     string    `gorm:"column:university_code;type:varchar(30);not null;uniqueIndex" json:"university_code"`
	UniversityAddress  *string   `gorm:"column:university_address;type:text" json:"university_address,omitempty"`
	UniversityIsActive bool      `gorm:"column:university_is_active;not null;default:true" json:"university_is_active"`

	CreatedAt time.Time      `gorm:"column:university_created_at;autoCreateTime" json:"university_created_at"`
	UpdatedAt time.Time      `gorm:"column:university_updated_at;autoUpdateTime" json:"university_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:university_deleted_at;index" json:"-"`
}

func (UniversityModel) TableName() string { return "universities" }
