package shared

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "MYSQL_DSN", "REDIS_ADDR", "SEARCH_RADIUS_M", "SEARCH_TOP_N", "OUTPUT_DIR", "CORS_ORIGINS", "CACHE_TTL_SECONDS"} {
		t.Setenv(k, "")
	}
	c := fromEnv()
	if c.AppEnv != "prod" || c.HTTPAddr != ":8080" || c.OutputDir != "outputs" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.MySQLDSN != "" || c.RedisAddr != "" {
		t.Fatalf("store and cache must be off by default: %+v", c)
	}
	if c.RadiusM != 30000 || c.TopN != 6 || c.CacheTTL != 6*time.Hour {
		t.Fatalf("unexpected search defaults: %+v", c)
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors default: %v", c.CORSOrigins)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SEARCH_RADIUS_M", "5000")
	t.Setenv("SEARCH_TOP_N", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("GOOGLE_API_KEY", "k")

	c := fromEnv()
	if c.RadiusM != 5000 {
		t.Fatalf("radius override ignored: %d", c.RadiusM)
	}
	if c.TopN != 6 {
		t.Fatalf("invalid int must fall back to default, got %d", c.TopN)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", c.CORSOrigins)
	}
	if c.GoogleKey != "k" {
		t.Fatalf("key not read")
	}
}
