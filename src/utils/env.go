package utils

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

// InitEnvironmentVariables loads the .env file for the current
// environment. Production deployments provide real env vars and skip the
// file entirely.
func InitEnvironmentVariables() error {
	if os.Getenv("ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	envFile := DEV_ENV_FILENAME
	if os.Getenv("GO_ENV") == "production" {
		envFile = PROD_ENV_FILENAME
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Warnf("no %s file found, using process environment", envFile)
	}

	return nil
}

// GetEnv returns an environment variable or a fallback.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
