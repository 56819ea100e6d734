package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "HTTP_ADDR", "PORT", "MYSQL_DSN", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "CORS_ALLOWED_ORIGINS", "PUBLIC_BASE_URL",
		"MAX_UPLOAD_MB", "CACHE_TTL_SECONDS", "IMPORT_WORKERS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c := Load()
	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes)
	assert.Equal(t, 300*time.Second, c.CacheTTL)
	assert.Equal(t, 4, c.ImportWorkers)
	assert.False(t, c.Dev())
	assert.Contains(t, c.MySQLDSN, "root@tcp(localhost:3306)/treks?")
	assert.Contains(t, c.MySQLDSN, "parseTime=true")
}

func TestLoad_PortFallbackAndParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "trek")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "uttarakhand")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("APP_ENV", "dev")

	c := Load()
	assert.Equal(t, ":8081", c.HTTPAddr)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, c.CORSOrigins)
	assert.True(t, c.Dev())
	require.Contains(t, c.MySQLDSN, "trek:secret@tcp(db:3306)/uttarakhand")
}

func TestLoad_ExplicitDSNWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_DSN", "u:p@tcp(h:1)/x")
	t.Setenv("DB_HOST", "ignored")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("PORT", "1")

	c := Load()
	assert.Equal(t, "u:p@tcp(h:1)/x", c.MySQLDSN)
	assert.Equal(t, ":9000", c.HTTPAddr)
}

func TestLoad_BadIntegerFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "lots")

	assert.Equal(t, int64(10<<20), Load().MaxUploadBytes)
}
