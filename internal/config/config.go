// Package config reads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads a local .env file when one exists. Production deployments
// inject configuration through the environment directly, so the file is
// skipped there and a missing file is never an error.
func LoadEnv() {
	if IsProduction() {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}
}

// GetEnv returns the value of key, or defaultVal when key is unset or empty.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns the integer value of key, or defaultVal when key is
// unset or does not parse.
func GetIntEnv(key string, defaultVal int) int {
	val := GetEnv(key, "")
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("Ignoring %s=%q: not an integer, using %d", key, val, defaultVal)
		return defaultVal
	}
	return i
}

// IsProduction reports whether the service runs in production mode.
func IsProduction() bool {
	return GetEnv("APP_ENV", "development") == "production"
}
