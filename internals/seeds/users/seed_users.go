package users

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	authHelper "feeportal_backend/internals/features/users/auth/helper"
	"feeportal_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName    string  `json:"user_name"`
	FullName    *string `json:"full_name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	ProgramCode string  `json:"program_code"`
	CurrentYear *string `json:"current_year"`
	EnrolledAt  string  `json:"enrolled_at"`
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) error {
	log.Println("[SEED] reading users:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return err
	}
	return SeedUsers(db, inputs)
}

// SeedUsers inserts users by e-mail. program_code links a student to a program and its university.
func SeedUsers(db *gorm.DB, inputs []UserSeed) error {
	for _, data := range inputs {
		var count int64
		if err := db.Model(&model.UserModel{}).Where("email = ?", data.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("[SEED] user %s exists, skipped", data.Email)
			continue
		}

		hashed, err := authHelper.HashPassword(data.Password)
		if err != nil {
			return err
		}

		user := model.UserModel{
			ID:          uuid.New(),
			UserName:    data.UserName,
			FullName:    data.FullName,
			Email:       data.Email,
			Password:    hashed,
			Role:        data.Role,
			IsActive:    true,
			CurrentYear: data.CurrentYear,
		}

		if data.ProgramCode != "" {
			var prog programModel.ProgramModel
			if err := db.Where("program_code = ?", data.ProgramCode).First(&prog).Error; err != nil {
				log.WithError(err).Warnf("[SEED] program %s for %s not found", data.ProgramCode, data.Email)
			} else {
				user.ProgramID = &prog.ProgramID
				user.UniversityID = &prog.ProgramUniversityID
			}
		}
		if data.EnrolledAt != "" {
			t, err := time.Parse("2006-01-02", data.EnrolledAt)
			if err != nil {
				return err
			}
			user.EnrolledAt = &t
		}

		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("[SEED] user %s inserted", data.Email)
	}
	return nil
}
