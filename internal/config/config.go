// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the host process. Board rules are fixed and
// deliberately absent.
type Config struct {
	Port           string `env:"PORT"             envDefault:"5175"`
	LogLevel       string `env:"LOG_LEVEL"        envDefault:"info"`
	DBPath         string `env:"DB_PATH"          envDefault:"./data/herding.db"`
	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"herding_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`
	DailySalt      string `env:"DAILY_SALT"       envDefault:"local_dev_salt"`
	Env            string `env:"APP_ENV"          envDefault:"development"`
	// PaceEvents makes the websocket stream hold each event for its pacing hint.
	PaceEvents bool `env:"PACE_EVENTS" envDefault:"false"`
	// SessionIdle is how long an untouched live game is kept in memory.
	SessionIdle time.Duration `env:"SESSION_IDLE" envDefault:"2h"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTExpiresDays <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", cfg.JWTExpiresDays)
	}
	if cfg.SessionIdle <= 0 {
		return Config{}, fmt.Errorf("SESSION_IDLE must be positive, got %s", cfg.SessionIdle)
	}
	return cfg, nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// TokenTTL is the lifetime of issued session tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
