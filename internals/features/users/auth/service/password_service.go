package service

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	universityModel "feeportal_backend/internals/features/academics/universities/model"
	authHelper "feeportal_backend/internals/features/users/auth/helper"
	authRepo "feeportal_backend/internals/features/users/auth/repository"
	userDTO "feeportal_backend/internals/features/users/user/dto"
	helpers "feeportal_backend/internals/helpers"
)

// ========================== CHANGE PASSWORD ==========================

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "invalid input format")
	}

	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if err := authHelper.ValidateChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return helpers.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	tx := db.WithContext(helpers.ReqCtx(c))
	user, err := authRepo.FindUserByID(tx, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "user not found")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "current password incorrect")
	}

	hash, err := authHelper.HashPassword(input.NewPassword)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}
	if err := authRepo.UpdateUserPassword(tx, userID, hash); err != nil {
		log.Printf("[ERROR] update password %s: %v", userID, err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "failed to update password")
	}
	return helpers.JsonUpdated(c, "password changed", nil)
}

// ========================== ME ==========================

// Me returns the caller's profile plus the names of the assigned university and program.
func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	tx := db.WithContext(helpers.ReqCtx(c))
	user, err := authRepo.FindUserByID(tx, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "user not found")
	}

	out := fiber.Map{"user": userDTO.ToUserResponse(*user)}
	if user.UniversityID != nil {
		var uni universityModel.UniversityModel
		if err := tx.Select("university_id", "university_name", "university_code").
			First(&uni, "university_id = ?", *user.UniversityID).Error; err == nil {
			out["university"] = fiber.Map{"id": uni.UniversityID, "name": uni.UniversityName, "code": uni.UniversityCode}
		}
	}
	if user.ProgramID != nil {
		var prog programModel.ProgramModel
		if err := tx.Select("program_id", "program_name", "program_code", "program_duration_years").
			First(&prog, "program_id = ?", *user.ProgramID).Error; err == nil {
			out["program"] = fiber.Map{
				"id":             prog.ProgramID,
				"name":           prog.ProgramName,
				"code":           prog.ProgramCode,
				"duration_years": prog.ProgramDurationYears,
				"years":          prog.YearLabels(),
			}
		}
	}
	return helpers.JsonOK(c, "ok", out)
}
