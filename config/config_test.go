package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForName(t *testing.T) {
	tests := []struct {
		name      string
		in        Name
		wantName  Name
		wantURL   string
		wantLevel slog.Level
	}{
		{"development", Development, Development, "https://api-dev.precifi.com", slog.LevelDebug},
		{"staging", Staging, Staging, "https://api-staging.precifi.com", slog.LevelInfo},
		{"production", Production, Production, "https://api.precifi.com", slog.LevelError},
		{"unknown falls back to development", Name("qa"), Development, "https://api-dev.precifi.com", slog.LevelDebug},
		{"empty falls back to development", Name(""), Development, "https://api-dev.precifi.com", slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := ForName(tt.in)
			assert.Equal(t, tt.wantName, env.Name)
			assert.Equal(t, tt.wantURL, env.APIURL)
			assert.Equal(t, tt.wantLevel, env.LogLevel)
		})
	}
}

func TestLoadReadsEnvVar(t *testing.T) {
	t.Setenv(EnvVar, "production")
	assert.Equal(t, Production, Load().Name)

	t.Setenv(EnvVar, "")
	assert.Equal(t, Development, Load().Name)
}

func TestAnalyticsToggle(t *testing.T) {
	assert.False(t, ForName(Development).EnableAnalytics)
	assert.True(t, ForName(Staging).EnableAnalytics)
	assert.True(t, ForName(Production).EnableAnalytics)
}

func TestIsDev(t *testing.T) {
	assert.True(t, ForName(Development).IsDev())
	assert.False(t, ForName(Production).IsDev())
}
