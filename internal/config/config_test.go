package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8000 {
		t.Errorf("api port = %d", cfg.API.Port)
	}
	if cfg.Store.Driver != StoreDriverPostgres {
		t.Errorf("store driver = %q", cfg.Store.Driver)
	}
	if cfg.Renderer.Engine != "rod" || cfg.Renderer.Timeout != time.Minute {
		t.Errorf("renderer = %+v", cfg.Renderer)
	}
	if cfg.MinIO.Enabled {
		t.Error("minio should be disabled by default")
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("ai model = %q", cfg.AI.Model)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_CORS_ORIGINS", "http://localhost:3000, https://buildit.app")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("PDF_ENGINE", "chromedp")
	t.Setenv("PDF_TIMEOUT", "15s")
	t.Setenv("RENDER_RAW_HTML", "true")
	t.Setenv("AI_DAILY_LIMIT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("api port = %d", cfg.API.Port)
	}
	if got := strings.Join(cfg.API.CORSOrigins, "|"); got != "http://localhost:3000|https://buildit.app" {
		t.Errorf("cors origins = %q", got)
	}
	if cfg.Store.Driver != StoreDriverMongo || cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("store = %+v mongo = %+v", cfg.Store, cfg.Mongo)
	}
	if cfg.Renderer.Engine != "chromedp" || cfg.Renderer.Timeout != 15*time.Second {
		t.Errorf("renderer = %+v", cfg.Renderer)
	}
	if !cfg.Render.RawHTML {
		t.Error("raw html should be enabled")
	}
	if cfg.AI.DailyLimit != 0 {
		t.Errorf("daily limit = %d", cfg.AI.DailyLimit)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown store":      {"STORE_DRIVER": "sqlite"},
		"unknown engine":     {"PDF_ENGINE": "weasyprint"},
		"minio without keys": {"MINIO_ENABLED": "true"},
		"negative limit":     {"AI_DAILY_LIMIT": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
