package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, conf.Port)
	assert.Equal(t, "localhost", conf.Host)
	assert.Equal(t, "sqlite", conf.DBDriver)
	assert.Equal(t, 60, conf.SchedulerIntervalSeconds)
	assert.Equal(t, 0.18, conf.TaxRate)
	assert.Equal(t, 50.0, conf.DeliveryCharge)
	assert.Equal(t, 50.0, conf.BasePayPerDelivery)
	assert.Equal(t, 100.0, conf.TripBonusAmount)
	assert.Equal(t, 5, conf.TripBonusEvery)
	assert.Equal(t, 40, conf.OnTimeThresholdMinutes)
	assert.Equal(t, 25, conf.DBMaxOpenConns)
	assert.Equal(t, 5, conf.DBMaxIdleConns)
	assert.Equal(t, 5, conf.DBConnMaxLifetimeMinutes)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SCHEDULER_INTERVAL_SECONDS", "15")
	t.Setenv("TAX_RATE", "0.05")
	t.Setenv("TRIP_BONUS_EVERY", "3")

	conf, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, conf.Port)
	assert.Equal(t, "postgres", conf.DBDriver)
	assert.Equal(t, 15, conf.SchedulerIntervalSeconds)
	assert.Equal(t, 0.05, conf.TaxRate)
	assert.Equal(t, 3, conf.TripBonusEvery)
}

func TestLoadConfigInvalidPort(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-number")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("SOME_KEY", "value")
	assert.Equal(t, "value", GetEnvWithDefault("SOME_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnvWithDefault("MISSING_KEY", "fallback"))
}

func TestGetEnvAsType(t *testing.T) {
	t.Setenv("INT_KEY", "42")
	t.Setenv("BOOL_KEY", "true")
	t.Setenv("BAD_INT", "nope")

	assert.Equal(t, 42, GetEnvAsType("INT_KEY", 0))
	assert.Equal(t, true, GetEnvAsType("BOOL_KEY", false))
	assert.Equal(t, 7, GetEnvAsType("BAD_INT", 7))
	assert.Equal(t, 7, GetEnvAsType("MISSING", 7))
}

func TestStringMasksSecrets(t *testing.T) {
	conf := &Config{DBPassword: "supersecret", JWTSecret: "alsosecret"}
	s := conf.String()
	assert.NotContains(t, s, "supersecret")
	assert.NotContains(t, s, "alsosecret")
	assert.Contains(t, s, "[REDACTED]")
}
