package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBookConfig(t *testing.T) {
	cfg := DefaultBookConfig()
	if cfg.LogLevel != "info" || cfg.MarketCloseHour != 16 || cfg.MarketCloseMinute != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	os.Unsetenv("BOOK_CONFIG_FILE")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "" || cfg.LogLevel != "info" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadExpandsEnvAndOverridesDefaults(t *testing.T) {
	t.Setenv("BOOK_TEST_SYMBOL", "XYZ")

	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	body := "symbol: ${BOOK_TEST_SYMBOL}\nlog_level: debug\nmarket_close_hour: 17\nmarket_close_minute: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "XYZ" || cfg.LogLevel != "debug" || cfg.MarketCloseHour != 17 || cfg.MarketCloseMinute != 30 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
