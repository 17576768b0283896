package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
port: "9000"
jwt_secret_key: from-file
access_token_ttl: 24h
cors_origins: ["https://admin.bundasehat.id"]
database:
  driver: sqlite
  sqlite_path: /tmp/file.db
gemini:
  model: gemini-1.5-pro
  max_retries: 1
admin:
  email: root@example.com
  password: rahasia123
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET_KEY", "from-env")
	t.Setenv("GEMINI_TIMEOUT_MS", "1000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWTSecretKey != "from-env" {
		t.Fatalf("env should win over file, got %q", cfg.JWTSecretKey)
	}
	if cfg.Addr() != ":9000" || cfg.AccessTokenTTL != 24*time.Hour {
		t.Fatalf("addr=%q ttl=%v", cfg.Addr(), cfg.AccessTokenTTL)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "/tmp/file.db" || cfg.Database.Host != "localhost" {
		t.Fatalf("database=%+v", cfg.Database)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro" || cfg.Gemini.Timeout != time.Second || cfg.Gemini.RateLimitBackoff != 30*time.Second {
		t.Fatalf("gemini=%+v", cfg.Gemini)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.Admin.Email != "root@example.com" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"unknown driver", map[string]string{"JWT_SECRET_KEY": "s", "DB_DRIVER": "mysql"}},
		{"admin without password", map[string]string{"JWT_SECRET_KEY": "s", "ADMIN_EMAIL": "a@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEvaluationLockTTLCoversRetries(t *testing.T) {
	cfg := defaultConfig()
	cfg.Gemini.Timeout = 60 * time.Second
	cfg.Gemini.MaxRetries = 3
	cfg.Gemini.RateLimitBackoff = 30 * time.Second
	if got, want := cfg.evaluationLockTTL(), 4*time.Minute+90*time.Second+30*time.Second; got != want {
		t.Fatalf("ttl=%v want %v", got, want)
	}
}

func TestAddr(t *testing.T) {
	for in, want := range map[string]string{"8080": ":8080", "127.0.0.1:9000": "127.0.0.1:9000", " 80 ": ":80"} {
		if got := (Config{Port: in}).Addr(); got != want {
			t.Errorf("Addr(%q)=%q want %q", in, got, want)
		}
	}
}
