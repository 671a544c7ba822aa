package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SSLMode(t *testing.T) {
	tests := []struct {
		name     string
		encrypt  bool
		trust    bool
		expected string
	}{
		{"Encryption disabled", false, false, "disable"},
		{"Encryption disabled ignores trust", false, true, "disable"},
		{"Encrypted and trusted", true, true, "require"},
		{"Encrypted and verified", true, false, "verify-full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{DBEncrypt: tt.encrypt, DBTrustServerCertificate: tt.trust}
			assert.Equal(t, tt.expected, c.SSLMode())
		})
	}
}

func TestConfig_DatabaseConfigured(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected bool
	}{
		{"Postgres without host", Config{DBDriver: DriverPostgres, DBPassword: "secret"}, false},
		{"Postgres without password", Config{DBDriver: DriverPostgres, DBHost: "db"}, false},
		{"Postgres fully configured", Config{DBDriver: DriverPostgres, DBHost: "db", DBPassword: "secret"}, true},
		{"SQLite with file", Config{DBDriver: DriverSQLite, DBName: "posts.db"}, true},
		{"SQLite without file", Config{DBDriver: DriverSQLite, DBName: " "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.DatabaseConfigured())
		})
	}
}

func TestConfig_DatabaseRequested(t *testing.T) {
	assert.True(t, (&Config{DBDriver: DriverPostgres, DBHost: "db"}).DatabaseRequested())
	assert.False(t, (&Config{DBDriver: DriverPostgres, DBPassword: "secret"}).DatabaseRequested())
	assert.True(t, (&Config{DBDriver: DriverSQLite, DBName: "posts.db"}).DatabaseRequested())
}

func TestConfig_RateLimitEnabled(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"", false},
		{"development", false},
		{"test", false},
		{"staging", true},
		{"production", true},
		{"prod", true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.expected, (&Config{Env: tt.env}).RateLimitEnabled())
		})
	}
}

func TestConfig_ValidateRegionLength(t *testing.T) {
	c := &Config{Port: "3000", DBDriver: DriverPostgres, Region: strings.Repeat("é", MaxRegionLength)}
	assert.NoError(t, c.Validate())

	c.Region += "x"
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REGION")
}

func TestConfig_Validate(t *testing.T) {
	c := &Config{Port: "3000", DBDriver: DriverPostgres}
	assert.NoError(t, c.Validate())

	c.DBDriver = "mssql"
	assert.Error(t, c.Validate())

	c = &Config{DBDriver: DriverPostgres}
	assert.Error(t, c.Validate())

	c = &Config{Port: "3000", DBDriver: DriverSQLite, RateLimitWritesPerMinute: -1}
	assert.Error(t, c.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, "Unknown Region", c.Region)
	assert.Equal(t, "#6c757d", c.RegionColor)
	assert.Equal(t, DriverPostgres, c.DBDriver)
	assert.True(t, c.DBEncrypt)
	assert.False(t, c.DBTrustServerCertificate)
	assert.False(t, c.DatabaseConfigured())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("REGION", "  West Europe  ")
	t.Setenv("REGION_COLOR", "#0078d4")
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("DB_NAME", "posts.db")
	t.Setenv("DB_ENCRYPT", "false")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "West Europe", c.Region)
	assert.Equal(t, "#0078d4", c.RegionColor)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.False(t, c.DBEncrypt)
	assert.True(t, c.DatabaseConfigured())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("REGION", "East US")
	t.Cleanup(func() { _ = os.Unsetenv("OTLP_ENDPOINT") })

	dir := t.TempDir()
	env := "OTLP_ENDPOINT=collector.internal:4318\nREGION=From File\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "collector.internal:4318", c.OTLPEndpoint)
	// Variables already in the environment win over the file.
	assert.Equal(t, "East US", c.Region)
}
