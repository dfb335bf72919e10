package internal

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.App.HTTP.Address() != "127.0.0.1:8050" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.LiveReload() {
		t.Error("live reload should be off by default")
	}
}

func TestHTTPConfig_InvalidPort(t *testing.T) {
	cfg := HTTPConfig{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port out of range should fail validation")
	}
}

func TestDatasetConfig_EmptyPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Dataset.Path = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("empty dataset path should fail")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "path") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSSEConfig_NegativeThrottle(t *testing.T) {
	cfg := SSEConfig{Throttle: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative throttle should fail validation")
	}
}

func TestDebugEnablesReloadAndDebugLogs(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.Debug = true
	if !cfg.LiveReload() {
		t.Error("debug mode should enable live reload")
	}
	if cfg.App.EffectiveLogLevel() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.App.EffectiveLogLevel())
	}
}

func TestWatchWithoutDebug(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Dataset.Watch = true
	if !cfg.LiveReload() {
		t.Error("dataset.watch should enable live reload")
	}
	if cfg.App.EffectiveLogLevel() != slog.LevelInfo {
		t.Errorf("level = %v, want info", cfg.App.EffectiveLogLevel())
	}
}
