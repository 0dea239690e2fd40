// Package config defines the named deployment environments for the precifi
// client. The active environment is chosen once at process start from the
// PRECIFI_ENV variable and supplies the API base URL, the minimum log level,
// and the analytics toggle.
package config

import (
	"log/slog"
	"os"
)

// EnvVar is the process environment variable that selects the active
// deployment environment.
const EnvVar = "PRECIFI_ENV"

// Name identifies a deployment environment.
type Name string

const (
	Development Name = "development"
	Staging     Name = "staging"
	Production  Name = "production"
)

// Environment carries the per-deployment settings consumed by the rest of
// the module.
type Environment struct {
	Name            Name
	APIURL          string
	LogLevel        slog.Level
	EnableAnalytics bool
}

var environments = map[Name]Environment{
	Development: {
		Name:            Development,
		APIURL:          "https://api-dev.precifi.com",
		LogLevel:        slog.LevelDebug,
		EnableAnalytics: false,
	},
	Staging: {
		Name:            Staging,
		APIURL:          "https://api-staging.precifi.com",
		LogLevel:        slog.LevelInfo,
		EnableAnalytics: true,
	},
	Production: {
		Name:            Production,
		APIURL:          "https://api.precifi.com",
		LogLevel:        slog.LevelError,
		EnableAnalytics: true,
	},
}

// Load returns the environment named by PRECIFI_ENV. An unset or unknown
// value falls back to the development profile.
func Load() Environment {
	return ForName(Name(os.Getenv(EnvVar)))
}

// ForName returns the named environment, defaulting to development for
// unknown names.
func ForName(name Name) Environment {
	if env, ok := environments[name]; ok {
		return env
	}
	return environments[Development]
}

// IsDev reports whether the environment is the development profile, which
// authenticates against the mock backend instead of the real API.
func (e Environment) IsDev() bool {
	return e.Name == Development
}

// NewLogger returns a JSON slog.Logger honoring the environment's minimum
// log level, writing to stderr.
func (e Environment) NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: e.LogLevel,
	}))
}
