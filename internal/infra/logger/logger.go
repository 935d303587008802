package logger

import (
	"os"
	"strings"

	"childcare_summary_service/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// New builds the application logger from configuration: level from LOG_LEVEL,
// JSON output in production/staging, colored text elsewhere.
func New(cfg *config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(level)
	}

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	return log
}
