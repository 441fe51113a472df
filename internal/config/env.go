package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variables read by kbase. They take precedence over config files.
const (
	EnvUser      = "KBASE_USER"
	EnvJWTSecret = "KBASE_JWT_SECRET"
	EnvDB        = "KBASE_DB"
	EnvDir       = "KBASE_DIR"
)

// LoadEnv loads a .env file from the working directory into the process
// environment. Variables already set are not overridden. A missing file is
// not an error.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
