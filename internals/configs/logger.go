package configs

import (
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger from LOG_LEVEL and LOG_FORMAT.
func InitLogger() {
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	if strings.EqualFold(GetEnv("LOG_FORMAT", "text"), "json") {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: log.FieldMap{
				log.FieldKeyTime:  "timestamp",
				log.FieldKeyLevel: "level",
				log.FieldKeyMsg:   "message",
			},
		})
		return
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}
