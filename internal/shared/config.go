package shared

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	CORSOrigins    []string
	PublicBaseURL  string
	UploadDir      string
	UploadPrefix   string
	MaxUploadBytes int64

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	LegacyBase    string
	ImportWorkers int
	ImportRPS     int
}

func (c Config) Dev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

// Load reads the process environment. A .env file in the working directory,
// if present, fills variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    httpAddr(),
		MetricsAddr: env("METRICS_ADDR", ""),

		MySQLDSN:        env("MYSQL_DSN", ""),
		MaxOpenConns:    atoi("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    atoi("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(atoi("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,

		CORSOrigins:    splitList(env("CORS_ALLOWED_ORIGINS", "*")),
		PublicBaseURL:  env("PUBLIC_BASE_URL", ""),
		UploadDir:      env("UPLOAD_DIR", "uploads"),
		UploadPrefix:   env("UPLOAD_URL_PREFIX", "uploads"),
		MaxUploadBytes: int64(atoi("MAX_UPLOAD_MB", 10)) << 20,

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		LegacyBase:    env("LEGACY_BASE_URL", ""),
		ImportWorkers: atoi("IMPORT_WORKERS", 4),
		ImportRPS:     atoi("IMPORT_RPS", 5),
	}
	if c.MySQLDSN == "" {
		c.MySQLDSN = dsnFromParts()
	}
	if c.PublicBaseURL == "" {
		log.Warn().Msg("PUBLIC_BASE_URL is empty; file URLs will be root-relative")
	}
	return c
}

// dsnFromParts builds a DSN from the DB_* variables used by older deployments.
func dsnFromParts() string {
	mc := driver.NewConfig()
	mc.User = env("DB_USER", "root")
	mc.Passwd = env("DB_PASSWORD", "")
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(env("DB_HOST", "localhost"), env("DB_PORT", "3306"))
	mc.DBName = env("DB_NAME", "treks")
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func httpAddr() string {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		return v
	}
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return ":5000"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
