package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("ENV")
	os.Unsetenv("NOTICE_BUFFER")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8620" {
		t.Errorf("expected default port 8620, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.ShutdownTimeoutSeconds != 10 {
		t.Errorf("expected default shutdown timeout 10, got %d", cfg.ShutdownTimeoutSeconds)
	}
	if cfg.NoticeBuffer != 200 {
		t.Errorf("expected default notice buffer 200, got %d", cfg.NoticeBuffer)
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Error("expected a default CORS origin")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("NOTICE_BUFFER", "50")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("NOTICE_BUFFER")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.NoticeBuffer != 50 {
		t.Errorf("expected notice buffer 50, got %d", cfg.NoticeBuffer)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
	if !c.IsProduction() {
		t.Error("expected IsProduction() to return true for production")
	}
}
