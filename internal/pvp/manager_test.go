package pvp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/pvpchan"
	"github.com/park285/checkers-link/internal/pvpcheckers"
)

type fakeGames struct {
	created []pvpcheckers.NewGame
	err     error
}

func (f *fakeGames) CreateGame(_ context.Context, ng pvpcheckers.NewGame) (*pvpcheckers.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, ng)
	return &pvpcheckers.Game{ID: "g1", WhiteID: ng.WhiteID, RedID: ng.RedID, Size: ng.Size.Symbol()}, nil
}

func TestChallengeAccept(t *testing.T) {
	games := &fakeGames{}
	m := NewManager(games, time.Minute)

	ch, err := m.CreateChallenge("u1", "Alice", "u2", checkers.Large, pvpchan.ColorRed)
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if ch.Status != StatusPending || ch.Size != "l" {
		t.Fatalf("unexpected challenge: %+v", ch)
	}
	if p := m.Pending("u2"); p == nil || p.ID != ch.ID {
		t.Fatalf("Pending = %+v", p)
	}

	got, g, err := m.Accept(context.Background(), "u2", "Bob")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got.Status != StatusAccepted || got.GameID != "g1" || g.ID != "g1" {
		t.Fatalf("unexpected accept: %+v %+v", got, g)
	}
	ng := games.created[0]
	if ng.WhiteID != "u2" || ng.RedID != "u1" || ng.RedName != "Alice" || ng.Size != checkers.Large {
		t.Fatalf("sides not assigned from color choice: %+v", ng)
	}
	if m.Pending("u2") != nil {
		t.Fatalf("accepted challenge still pending")
	}
}

func TestChallengeRules(t *testing.T) {
	m := NewManager(&fakeGames{}, time.Minute)
	if _, err := m.CreateChallenge("u1", "", "u1", checkers.Small, pvpchan.ColorRandom); !errors.Is(err, ErrSelfChallenge) {
		t.Fatalf("self challenge: %v", err)
	}
	if _, err := m.CreateChallenge("", "", "u2", checkers.Small, pvpchan.ColorRandom); !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("missing challenger: %v", err)
	}
	if _, err := m.CreateChallenge("u1", "", "u2", checkers.Small, pvpchan.ColorRandom); err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if _, err := m.CreateChallenge("u3", "", "u2", checkers.Small, pvpchan.ColorRandom); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("second pending: %v", err)
	}
	ch, err := m.Decline("u2")
	if err != nil || ch.Status != StatusDeclined {
		t.Fatalf("Decline: %v %+v", err, ch)
	}
	if _, err := m.Decline("u2"); !errors.Is(err, ErrNoPendingForUser) {
		t.Fatalf("decline twice: %v", err)
	}
}

func TestChallengeExpires(t *testing.T) {
	m := NewManager(&fakeGames{}, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }
	if _, err := m.CreateChallenge("u1", "", "u2", checkers.Small, pvpchan.ColorWhite); err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, _, err := m.Accept(context.Background(), "u2", ""); !errors.Is(err, ErrNoPendingForUser) {
		t.Fatalf("expired accept: %v", err)
	}
	if _, err := m.CreateChallenge("u3", "", "u2", checkers.Small, pvpchan.ColorWhite); err != nil {
		t.Fatalf("new challenge after expiry: %v", err)
	}
}

func TestAcceptKeepsChallengeOnFailure(t *testing.T) {
	games := &fakeGames{err: pvpcheckers.ErrAlreadyPlaying}
	m := NewManager(games, time.Minute)
	if _, err := m.CreateChallenge("u1", "", "u2", checkers.Small, pvpchan.ColorWhite); err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if _, _, err := m.Accept(context.Background(), "u2", ""); !errors.Is(err, pvpcheckers.ErrAlreadyPlaying) {
		t.Fatalf("Accept: %v", err)
	}
	if m.Pending("u2") == nil {
		t.Fatalf("challenge dropped after failed accept")
	}
}
