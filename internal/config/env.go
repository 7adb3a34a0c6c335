package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from .env files into the process environment.
// Variables that are already set are not overridden, and missing files are
// skipped. With no arguments it reads ./.env.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
