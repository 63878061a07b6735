package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedCatalogs(t *testing.T) {
	for _, locale := range []string{"ko", "en"} {
		c, err := New(locale, "")
		if err != nil {
			t.Fatalf("New(%s): %v", locale, err)
		}
		got, err := c.Render("outcome.moved", map[string]string{"Team": "W", "From": "2,2", "To": "3,3"})
		if err != nil {
			t.Fatalf("Render(%s): %v", locale, err)
		}
		if got == "" {
			t.Fatalf("empty render for %s", locale)
		}
	}
}

func TestUnknownLocale(t *testing.T) {
	if _, err := New("fr", ""); err == nil {
		t.Fatalf("expected error for missing locale")
	}
}

func TestMissingKeyAndField(t *testing.T) {
	c, err := New("en", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("nope.nothing", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := c.Render("outcome.moved", map[string]string{"Team": "W"}); err == nil {
		t.Fatalf("expected error for missing field")
	}
	if got := c.Text("nope.nothing", nil); got != "nope.nothing" {
		t.Fatalf("Text fallback = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("game:\n  winner: \"{{.Team}} takes it\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New("en", dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("game.winner", map[string]string{"Team": "Red"}); got != "Red takes it" {
		t.Fatalf("override not applied: %q", got)
	}
	if got := c.Text("team.red", nil); got != "Red" {
		t.Fatalf("default lost: %q", got)
	}
}

func TestDuplicateOverrideKeys(t *testing.T) {
	dir := t.TempDir()
	body := []byte("team:\n  red: \"R\"\n")
	for _, n := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, n), body, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := New("en", dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
