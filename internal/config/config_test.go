package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:        "8480",
		Env:         "development",
		JWTSecret:   "your-secret-key-change-in-production",
		Persistence: PersistenceFile,
		DataDir:     "data",
		UploadDir:   "uploads",
		LockWaitMS:  5000,
	}
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingPort(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Port = ""
	assert.ErrorContains(t, cfg.Validate(), "PORT")
}

func TestValidate_MissingJWTSecret(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
}

func TestValidate_UnknownPersistence(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Persistence = "memory"
	assert.ErrorContains(t, cfg.Validate(), "PERSISTENCE")
}

func TestValidate_FilePersistenceRequiresDataDir(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DataDir = ""
	assert.ErrorContains(t, cfg.Validate(), "DATA_DIR")
}

func TestValidate_NonPositiveLockWait(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.LockWaitMS = 0
	assert.ErrorContains(t, cfg.Validate(), "LOCK_WAIT_MS")
}

func TestValidate_SamplerRatioOutOfRange(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.TracingSamplerRatio = 1.5
	assert.ErrorContains(t, cfg.Validate(), "TRACING_SAMPLER_RATIO")
}

func TestValidate_OTLPExporterRequiresEndpoint(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.TracingEnabled = true
	cfg.TracingExporter = "otlp"
	assert.ErrorContains(t, cfg.Validate(), "TRACING_OTLP_ENDPOINT")
}

func TestValidate_ProductionRejectsDefaultSecret(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Env = "production"
	assert.ErrorContains(t, cfg.Validate(), "default value")
}

func TestValidate_ProductionRejectsShortSecret(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "short-secret"
	assert.ErrorContains(t, cfg.Validate(), "at least 32 characters")
}

func TestValidate_ProductionRejectsWeakDBPassword(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "a-very-long-production-grade-secret-value"
	cfg.Persistence = PersistenceDB
	cfg.DBPassword = "password"
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")
}

func TestLockWait(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.LockWaitMS = 250
	assert.Equal(t, 250*time.Millisecond, cfg.LockWait())
}
