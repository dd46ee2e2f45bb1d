package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 8*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 3, cfg.TMDB.MaxRetries)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Storage.UploadURLTTL)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TMDB_TIMEOUT", "eight seconds")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TMDB_TIMEOUT")
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "catalog", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=catalog sslmode=disable", d.DSN())

	d.SSLRootCert = "/certs/root.pem"
	assert.Contains(t, d.DSN(), "sslrootcert=/certs/root.pem")

	d.URL = "postgres://u:p@db/catalog"
	assert.Equal(t, "postgres://u:p@db/catalog", d.DSN())
}
