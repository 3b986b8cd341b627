package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "STORE_DRIVER", "DATABASE_URL", "MONGO_URI", "MONGO_DATABASE",
	"JWT_SECRET", "JWT_ISSUER", "JWT_TTL_MINUTES", "COUNTRIES_BASE_URL", "COUNTRIES_TIMEOUT_SECONDS",
	"CORS_ORIGIN", "AUTH_RATE_LIMIT", "REDIS_ADDR", "REDIS_PASSWORD", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv makes the test independent of the caller's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	// no .env lookup side effects
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaults(t *testing.T) {
	c := Defaults()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, DriverPostgres, c.StoreDriver)
	assert.Equal(t, "travelinfo", c.JWTIssuer)
	assert.Equal(t, 60, c.JWTTTLMinutes)
	assert.Equal(t, "https://restcountries.com/v3.1", c.CountriesBaseURL)
	assert.Equal(t, 15, c.CountriesTimeoutSeconds)
	assert.Equal(t, "*", c.CORSOrigin)
	assert.Equal(t, 20, c.AuthRateLimit)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, c.StoreDriver)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "s3cr3t", c.JWTSecret)
	assert.Equal(t, 30, c.JWTTTLMinutes)
	assert.Equal(t, 20, c.AuthRateLimit, "unparsable ints keep the default")
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
store_driver: mongo
mongo_uri: mongodb://db:27017
mongo_database: atlas
jwt_secret: from-file-secret
jwt_issuer: from-file
countries_timeout_seconds: 5
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_ISSUER", "from-env")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", c.Port)
	assert.Equal(t, DriverMongo, c.StoreDriver)
	assert.Equal(t, "mongodb://db:27017", c.MongoURI)
	assert.Equal(t, "atlas", c.MongoDatabase)
	assert.Equal(t, "from-env", c.JWTIssuer)
	assert.Equal(t, 5, c.CountriesTimeoutSeconds)
	assert.Equal(t, 60, c.JWTTTLMinutes, "keys absent from the file keep defaults")
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Defaults()
	c.StoreDriver = "cassandra"
	c.JWTTTLMinutes = 0

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORE_DRIVER")
	assert.Contains(t, err.Error(), "JWT_TTL_MINUTES")

	c = Defaults()
	c.StoreDriver = DriverMemory
	assert.NoError(t, c.Validate())
}

func TestValidate_DevSecretOnlyForMemory(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		secret  string
		wantErr bool
	}{
		{name: "memory with dev key", driver: DriverMemory, secret: DevJWTSecret},
		{name: "postgres with dev key", driver: DriverPostgres, secret: DevJWTSecret, wantErr: true},
		{name: "mongo with dev key", driver: DriverMongo, secret: DevJWTSecret, wantErr: true},
		{name: "postgres with own key", driver: DriverPostgres, secret: "prod-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			c.StoreDriver = tt.driver
			c.DatabaseURL = "postgres://localhost/travel"
			c.MongoURI = "mongodb://localhost:27017"
			c.JWTSecret = tt.secret

			err := c.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "JWT_SECRET")
		})
	}
}

func TestLoad_PostgresWithoutSecretFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/travel")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
