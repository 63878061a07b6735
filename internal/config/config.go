package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/checkers-link/internal/checkers"
)

type AppConfig struct {
	HTTPAddr string

	RedisURL string
	// DatabaseURL enables the finished-game archive (postgres:// or sqlite:<path>).
	DatabaseURL string

	DefaultSize checkers.BoardSize
	DefaultTeam checkers.Team

	GameTTL            time.Duration
	ChallengeTTL       time.Duration
	MaxConcurrentGames int

	MessagesDir string
	Locale      string

	TileSize int

	EnablePvP bool
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:           ":8080",
		DefaultSize:        checkers.DefaultBoardSize,
		DefaultTeam:        checkers.DefaultTeam,
		GameTTL:            24 * time.Hour,
		ChallengeTTL:       10 * time.Minute,
		MaxConcurrentGames: 200,
		Locale:             "ko",
		TileSize:           64,
		EnablePvP:          true,
	}

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("CHECKERS_DEFAULT_SIZE")); v != "" {
		if s, ok := checkers.ParseBoardSize(v); ok {
			cfg.DefaultSize = s
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_DEFAULT_TEAM")); v != "" {
		if t, ok := checkers.ParseTeam(strings.ToUpper(v)); ok {
			cfg.DefaultTeam = t
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_GAME_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GameTTL = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_CHALLENGE_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChallengeTTL = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_CONCURRENT_GAMES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrentGames = n
		}
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("CHECKERS_MESSAGES_DIR"))
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("CHECKERS_LOCALE"))); v != "" {
		cfg.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_TILE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 16 && n <= 256 {
			cfg.TileSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_ENABLE_PVP")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnablePvP = b
		}
	}

	if cfg.EnablePvP && cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required when PvP is enabled")
	}
	if cfg.Locale != "ko" && cfg.Locale != "en" {
		return nil, errors.New("CHECKERS_LOCALE must be ko or en")
	}

	return cfg, nil
}
