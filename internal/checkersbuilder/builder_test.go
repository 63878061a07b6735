package checkersbuilder

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/config"
)

func baseConfig() *config.AppConfig {
	return &config.AppConfig{
		DefaultSize: checkers.Small,
		DefaultTeam: checkers.First,
		GameTTL:     time.Hour,
		Locale:      "en",
		TileSize:    32,
	}
}

func TestNewWithoutPvP(t *testing.T) {
	d, err := New(context.Background(), baseConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	if d.Catalog == nil || d.Formatter == nil || d.Renderer == nil {
		t.Fatalf("ambient deps missing: %+v", d)
	}
	if d.Games != nil || d.Lobby != nil || d.Challenges != nil || d.Redis != nil {
		t.Fatalf("pvp deps should be nil when disabled")
	}
}

func TestNewWiresPvPAndArchive(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cfg := baseConfig()
	cfg.EnablePvP = true
	cfg.RedisURL = fmt.Sprintf("redis://%s/0", mr.Addr())
	cfg.DatabaseURL = "sqlite:" + filepath.Join(t.TempDir(), "archive.db")

	d, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	if d.Games == nil || d.Lobby == nil || d.Challenges == nil || d.Archive == nil {
		t.Fatalf("pvp deps missing")
	}
	if d.Games.Archive() != d.Archive {
		t.Fatalf("archive not attached to game manager")
	}
}

func TestNewRejectsBadRedisURL(t *testing.T) {
	cfg := baseConfig()
	cfg.EnablePvP = true
	cfg.RedisURL = "http://nope"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for bad redis url")
	}
}
