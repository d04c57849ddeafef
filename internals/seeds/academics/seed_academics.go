package academics

import (
	"encoding/json"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	universityModel "feeportal_backend/internals/features/academics/universities/model"
)

type ProgramSeed struct {
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	DurationYears int                   `json:"duration_years"`
	Fees          programModel.FeeTable `json:"fees"`
}

type UniversitySeed struct {
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Address  *string       `json:"address"`
	Programs []ProgramSeed `json:"programs"`
}

func SeedAcademicsFromJSON(db *gorm.DB, filePath string) error {
	log.Println("[SEED] reading academics:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []UniversitySeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return err
	}
	return SeedAcademics(db, inputs)
}

// SeedAcademics inserts universities and programs by code; existing codes are skipped.
func SeedAcademics(db *gorm.DB, inputs []UniversitySeed) error {
	for _, u := range inputs {
		var uni universityModel.UniversityModel
		err := db.Where("university_code = ?", u.Code).First(&uni).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			uni = universityModel.UniversityModel{
				UniversityName:     u.Name,
				UniversityCode:     u.Code,
				UniversityAddress:  u.Address,
				UniversityIsActive: true,
			}
			if err := db.Create(&uni).Error; err != nil {
				return err
			}
			log.Printf("[SEED] university %s inserted", u.Code)
		case err != nil:
			return err
		default:
			log.Printf("[SEED] university %s exists, skipped", u.Code)
		}

		for _, p := range u.Programs {
			var count int64
			if err := db.Model(&programModel.ProgramModel{}).
				Where("program_code = ?", p.Code).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			prog := programModel.ProgramModel{
				ProgramUniversityID:  uni.UniversityID,
				ProgramName:          p.Name,
				ProgramCode:          p.Code,
				ProgramDurationYears: p.DurationYears,
				ProgramFees:          p.Fees,
			}
			if err := db.Create(&prog).Error; err != nil {
				return err
			}
			log.Printf("[SEED] program %s inserted", p.Code)
		}
	}
	return nil
}
