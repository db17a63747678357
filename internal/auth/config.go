package auth

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config carries the auth-related knobs. It is constructed once in main and
// handed to the services explicitly; nothing in this package reads the
// environment after startup.
type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

// ConfigFromEnv reads auth config from env vars.
func ConfigFromEnv() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	ttl := DefaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL_HOURS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			ttl = time.Duration(v) * time.Hour
		}
	}
	cost := 0
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cost = v
		}
	}
	return Config{Secret: secret, TokenTTL: ttl, BcryptCost: cost}, nil
}
