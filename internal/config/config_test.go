package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "development with defaults",
			config: Config{
				Env:        "development",
				Port:       "8390",
				JWTSecret:  "your-secret-key-change-in-production",
				DBPassword: "password",
			},
			expectError: false,
		},
		{
			name: "missing port",
			config: Config{
				Env:       "development",
				JWTSecret: "some-secret",
			},
			expectError: true,
		},
		{
			name: "missing jwt secret",
			config: Config{
				Env:  "development",
				Port: "8390",
			},
			expectError: true,
		},
		{
			name: "production with default jwt secret",
			config: Config{
				Env:        "production",
				Port:       "8390",
				JWTSecret:  "your-secret-key-change-in-production",
				DBPassword: "secure-password",
			},
			expectError: true,
		},
		{
			name: "production with short jwt secret",
			config: Config{
				Env:        "production",
				Port:       "8390",
				JWTSecret:  "too-short",
				DBPassword: "secure-password",
			},
			expectError: true,
		},
		{
			name: "production with default db password",
			config: Config{
				Env:        "production",
				Port:       "8390",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "password",
			},
			expectError: true,
		},
		{
			name: "production fully configured",
			config: Config{
				Env:        "production",
				Port:       "8390",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "secure-password",
				DBSSLMode:  "require",
			},
			expectError: false,
		},
		{
			name: "prod alias enforces the same rules",
			config: Config{
				Env:        "prod",
				Port:       "8390",
				JWTSecret:  "too-short",
				DBPassword: "secure-password",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8390", c.Port)
	assert.Equal(t, "pulse", c.DBName)
	assert.Equal(t, "localhost:6379", c.RedisURL)
	assert.False(t, c.TracingEnabled)
	assert.Equal(t, "stdout", c.TracingExport)
	assert.InDelta(t, 0.1, c.TracingRatio, 1e-9)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("TRACING_ENABLED")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")
	os.Setenv("PORT", "9100")
	os.Setenv("TRACING_ENABLED", "true")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", c.Port)
	assert.True(t, c.TracingEnabled)
}
