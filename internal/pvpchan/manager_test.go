package pvpchan

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/pvpcheckers"
)

func newTestManagers(t *testing.T) (*Manager, *pvpcheckers.Manager) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	games := pvpcheckers.NewManagerWithClient(rdb)
	return NewManager(rdb, games), games
}

func TestMakeJoinStartsGame(t *testing.T) {
	m, games := newTestManagers(t)
	ctx := context.Background()

	mk, err := m.Make(ctx, "u1", "Alice", checkers.Large, ColorWhite)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if mk.Code == "" {
		t.Fatalf("expected non-empty code")
	}
	list, err := m.ListLobby(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListLobby: %v (%d)", err, len(list))
	}

	jr, err := m.Join(ctx, mk.Code, "u2", "Bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !jr.Started || jr.GameID == "" {
		t.Fatalf("expected game to start on second join: started=%v game=%q", jr.Started, jr.GameID)
	}

	g, err := games.GetActiveGameByUser(ctx, "u1")
	if err != nil || g == nil {
		t.Fatalf("GetActiveGameByUser: %v", err)
	}
	if g.ID != jr.GameID {
		t.Fatalf("gameID mismatch: %q vs %q", g.ID, jr.GameID)
	}
	if g.WhiteID != "u1" || g.WhiteName != "Alice" || g.RedName != "Bob" || g.Size != "l" {
		t.Fatalf("unexpected game setup: %+v", g)
	}

	if list, _ := m.ListLobby(ctx); len(list) != 0 {
		t.Fatalf("started lobby still listed")
	}
	meta, err := m.Lobby(ctx, mk.Code)
	if err != nil || meta.State != StateActive || meta.GameID != g.ID {
		t.Fatalf("Lobby: %v %+v", err, meta)
	}
}

func TestCreatorRejoinStaysQueued(t *testing.T) {
	m, _ := newTestManagers(t)
	ctx := context.Background()
	mk, err := m.Make(ctx, "u1", "u1", checkers.Small, ColorRandom)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	jr, err := m.Join(ctx, mk.Code, "u1", "u1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if jr.Started {
		t.Fatalf("creator alone must not start a game")
	}
}

func TestThirdJoinRejected(t *testing.T) {
	m, _ := newTestManagers(t)
	ctx := context.Background()

	mk, err := m.Make(ctx, "u1", "u1", checkers.Small, ColorRandom)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if _, err := m.Join(ctx, mk.Code, "u2", "u2"); err != nil {
		t.Fatalf("Join#1: %v", err)
	}
	if _, err := m.Join(ctx, mk.Code, "u3", "u3"); err == nil {
		t.Fatalf("expected error on third join")
	}
}

func TestJoinUnknownCode(t *testing.T) {
	m, _ := newTestManagers(t)
	if _, err := m.Join(context.Background(), "CK-NOPE00", "u2", "u2"); !errors.Is(err, ErrChannelGone) {
		t.Fatalf("expected ErrChannelGone, got %v", err)
	}
}

func TestMakeBlockedIfActiveGame(t *testing.T) {
	m, games := newTestManagers(t)
	ctx := context.Background()

	if _, err := games.CreateGame(ctx, pvpcheckers.NewGame{WhiteID: "u1", RedID: "u2", Size: checkers.Small, Starting: checkers.First}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := m.Make(ctx, "u1", "u1", checkers.Small, ColorRandom); !errors.Is(err, ErrPlayerBusy) {
		t.Fatalf("expected ErrPlayerBusy, got %v", err)
	}

	mk, err := m.Make(ctx, "u3", "u3", checkers.Small, ColorRandom)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if _, err := m.Join(ctx, mk.Code, "u2", "u2"); !errors.Is(err, ErrPlayerBusy) {
		t.Fatalf("expected ErrPlayerBusy on join, got %v", err)
	}
}

func TestMakeRestrictedDuplicateCreator(t *testing.T) {
	m, _ := newTestManagers(t)
	ctx := context.Background()

	if _, err := m.Make(ctx, "u1", "u1", checkers.Small, ColorRandom); err != nil {
		t.Fatalf("first Make: %v", err)
	}
	if _, err := m.Make(ctx, "u1", "u1", checkers.Small, ColorRandom); !errors.Is(err, ErrCreatorHasLobby) {
		t.Fatalf("expected ErrCreatorHasLobby, got %v", err)
	}
}

func TestParseColorChoice(t *testing.T) {
	cases := map[string]ColorChoice{"white": ColorWhite, "R": ColorRed, "": ColorRandom, "blue": ColorRandom}
	for in, want := range cases {
		if got := ParseColorChoice(in); got != want {
			t.Fatalf("ParseColorChoice(%q) = %s, want %s", in, got, want)
		}
	}
}
