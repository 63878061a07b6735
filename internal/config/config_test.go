package config

import (
	"testing"
	"time"

	"github.com/park285/checkers-link/internal/checkers"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DefaultSize != checkers.Small || cfg.DefaultTeam != checkers.First {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GameTTL != 24*time.Hour || cfg.TileSize != 64 || cfg.Locale != "ko" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("CHECKERS_DEFAULT_SIZE", "l")
	t.Setenv("CHECKERS_DEFAULT_TEAM", "r")
	t.Setenv("CHECKERS_GAME_TTL", "600")
	t.Setenv("CHECKERS_CHALLENGE_TTL", "30")
	t.Setenv("CHECKERS_TILE_SIZE", "9999")
	t.Setenv("CHECKERS_LOCALE", "EN")
	t.Setenv("DATABASE_URL", " sqlite:/tmp/checkers.db ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DefaultSize != checkers.Large || cfg.DefaultTeam != checkers.Second {
		t.Fatalf("size/team = %v/%v", cfg.DefaultSize, cfg.DefaultTeam)
	}
	if cfg.GameTTL != 10*time.Minute || cfg.ChallengeTTL != 30*time.Second {
		t.Fatalf("GameTTL/ChallengeTTL = %v/%v", cfg.GameTTL, cfg.ChallengeTTL)
	}
	if cfg.TileSize != 64 {
		t.Fatalf("out-of-range tile size should be ignored, got %d", cfg.TileSize)
	}
	if cfg.Locale != "en" {
		t.Fatalf("Locale = %q", cfg.Locale)
	}
	if cfg.DatabaseURL != "sqlite:/tmp/checkers.db" {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadRequiresRedisForPvP(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without REDIS_URL")
	}
	t.Setenv("CHECKERS_ENABLE_PVP", "false")
	if _, err := Load(); err != nil {
		t.Fatalf("Load without PvP: %v", err)
	}
}
