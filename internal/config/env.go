package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads KEY=VALUE pairs from a .env file into the process
// environment. Variables that are already set keep their values.
func LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoadEnvOptional is LoadEnv that treats a missing file as success.
func LoadEnvOptional(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return LoadEnv(path)
}
