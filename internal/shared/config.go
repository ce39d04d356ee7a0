package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	GoogleBase    string
	GoogleKey     string
	GoogleRPS     int
	Workers       int
	RadiusM       int
	TopN          int
	CacheTTL      time.Duration
	TemplatesFile string
	OutputDir     string
	CORSOrigins   []string
}

// Load reads an optional .env file, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}
	return fromEnv()
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		MySQLDSN:      os.Getenv("MYSQL_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		GoogleBase:    env("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"),
		GoogleKey:     env("GOOGLE_API_KEY", ""),
		GoogleRPS:     atoi("GOOGLE_RPS", 10),
		Workers:       atoi("DETAILS_WORKERS", 4),
		RadiusM:       atoi("SEARCH_RADIUS_M", 30000),
		TopN:          atoi("SEARCH_TOP_N", 6),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 21600)) * time.Second,
		TemplatesFile: os.Getenv("REPORT_TEMPLATES_FILE"),
		OutputDir:     env("OUTPUT_DIR", "outputs"),
		CORSOrigins:   splitList(env("CORS_ORIGINS", "*")),
	}
	if c.GoogleKey == "" {
		log.Warn().Msg("GOOGLE_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
