package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceRestores(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	Named("engine").Info("pvp_move", zap.String("game_id", "g1"))
	restore()
	L().Info("dropped")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	e := logs.All()[0]
	if e.LoggerName != "engine" || e.ContextMap()["game_id"] != "g1" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestBuildWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "checkers.log")
	logger, err := Build(Options{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Debug("lobby_make", zap.String("code", "CH-ABC123"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"code":"CH-ABC123"`) {
		t.Fatalf("log file missing field: %s", raw)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := parseLevel("loud"); got != zapcore.InfoLevel {
		t.Fatalf("parseLevel(loud) = %v", got)
	}
	if got := parseLevel(" WARN "); got != zapcore.WarnLevel {
		t.Fatalf("parseLevel(WARN) = %v", got)
	}
}
