// internal/config/token.go
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	errs "notionsite/internal/errors"
)

// TokenEnv names the environment variable holding the Notion integration
// token.
const TokenEnv = "NOTION_TOKEN"

// LoadToken loads envFile into the environment when it exists (variables that
// are already set win) and returns the token. A missing token is a fatal
// auth error.
func LoadToken(envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", errs.WrapError(err, errs.CategoryConfig, "could not load env file").
				WithContext("path", envFile).Fatal().Build()
		}
	}
	token := os.Getenv(TokenEnv)
	if token == "" {
		return "", errs.AuthError("you must define the " + TokenEnv + " environment variable before running").Build()
	}
	return token, nil
}
