package database

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	universityModel "feeportal_backend/internals/features/academics/universities/model"
	paymentModel "feeportal_backend/internals/features/finance/payments/model"
	notificationModel "feeportal_backend/internals/features/home/notifications/model"
	authModel "feeportal_backend/internals/features/users/auth/model"
	userModel "feeportal_backend/internals/features/users/user/model"
)

// AutoMigrate keeps the schema in step with the models. Runs only when DB_AUTO_MIGRATE=true.
func AutoMigrate(db *gorm.DB) error {
	if getenv("DB_AUTO_MIGRATE", "false") != "true" {
		log.Println("[DB] auto-migrate skipped")
		return nil
	}
	log.Println("[DB] running auto-migrate...")
	return db.AutoMigrate(
		&universityModel.UniversityModel{},
		&programModel.ProgramModel{},
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&paymentModel.PaymentTransaction{},
		&notificationModel.NotificationModel{},
		&notificationModel.UserNotificationModel{},
	)
}
