package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgramModel is a degree program ("course") offered by a university.
type ProgramModel struct {
	ProgramID            uuid.UUID `gorm:"column:program_id;type:uuid;default:gen_random_uuid();primaryKey" json:"program_id"`
	ProgramUniversityID  uuid.UUID `gorm:"column:program_university_id;type:uuid;not null;index" json:"program_university_id"`
	ProgramName          string    `gorm:"column:program_name;type:varchar(150);not null" json:"program_name"`
	ProgramCode          string    `gorm:"column:program_code;type:varchar(30);not null;uniqueIndex" json:"program_code"`
	ProgramDurationYears int       `gorm:"column:program_duration_years;not null;check:program_duration_years > 0" json:"program_duration_years"`
	ProgramFees          FeeTable  `gorm:"column:program_fees;type:jsonb;not null;default:'[]'" json:"program_fees"`

	CreatedAt time.Time      `gorm:"column:program_created_at;autoCreateTime" json:"program_created_at"`
	UpdatedAt time.Time      `gorm:"column:program_updated_at;autoUpdateTime" json:"program_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:program_deleted_at;index" json:"-"`
}

func (ProgramModel) TableName() string { return "programs" }

func (p *ProgramModel) FeeFor(year string) (int64, bool) {
	return p.ProgramFees.Lookup(year)
}

func (p *ProgramModel) YearLabels() []string {
	return YearLabels(p.ProgramDurationYears)
}
