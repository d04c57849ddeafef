package seeds

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"feeportal_backend/internals/seeds/academics"
	"feeportal_backend/internals/seeds/users"
)

// RunAllSeeds loads the demo data set. Users go last since they reference program codes.
func RunAllSeeds(db *gorm.DB) {
	//* Academics
	if err := academics.SeedAcademicsFromJSON(db, "internals/seeds/academics/data_academics.json"); err != nil {
		log.WithError(err).Error("[SEED] academics failed")
		return
	}

	//* Users
	if err := users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json"); err != nil {
		log.WithError(err).Error("[SEED] users failed")
	}
}
