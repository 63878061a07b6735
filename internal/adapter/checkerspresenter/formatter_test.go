package checkerspresenter

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/msgcat"
	"github.com/park285/checkers-link/internal/pvp"
	"github.com/park285/checkers-link/internal/pvpchan"
	"github.com/park285/checkers-link/internal/pvpcheckers"
	"github.com/park285/checkers-link/pkg/checkersdto"
)

func newFormatter(t *testing.T) *Formatter {
	t.Helper()
	c, err := msgcat.New("en", "")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewFormatter(c)
}

func TestOutcomeAndTurn(t *testing.T) {
	f := newFormatter(t)
	got := f.Outcome(checkers.First, checkers.Cell{Column: 2, Row: 2}, checkers.Cell{Column: 3, Row: 3}, checkers.Moved)
	if got != "White moved 2,2 → 3,3" {
		t.Fatalf("Outcome = %q", got)
	}
	s := checkers.NewSession(checkers.Small, checkers.First)
	if got := f.Turn(s); got != "White to move • 8x8" {
		t.Fatalf("Turn = %q", got)
	}
	text := f.Text(s)
	if !strings.HasSuffix(text, "White to move • 8x8") || !strings.HasPrefix(text, "7 ") {
		t.Fatalf("Text = %q", text)
	}
}

func TestTurnReportsWinner(t *testing.T) {
	f := newFormatter(t)
	s := checkers.NewSession(checkers.Small, checkers.First)
	if err := s.LoadFromToken("MW22", "s", "R"); err != nil {
		t.Fatalf("LoadFromToken: %v", err)
	}
	if got := f.Turn(s); got != "White wins!" {
		t.Fatalf("Turn = %q", got)
	}
}

func TestMoveError(t *testing.T) {
	f := newFormatter(t)
	from, to := checkers.Cell{Column: 4, Row: 4}, checkers.Cell{Column: 5, Row: 5}
	de := f.MoveError(fmt.Errorf("%w: 4,4", checkers.ErrNoPieceAtOrigin), checkers.First, from, to)
	if de.Code != checkersdto.CodeNoPiece || de.Message != "There is no piece on 4,4." {
		t.Fatalf("no piece: %+v", de)
	}
	de = f.MoveError(checkers.ErrNotActiveTeam, checkers.Second, from, to)
	if de.Code != checkersdto.CodeNotActiveTeam || de.Message != "It is Red's turn." {
		t.Fatalf("not active: %+v", de)
	}
	de = f.MoveError(checkers.ErrIllegalMove, checkers.First, from, to)
	if de.Code != checkersdto.CodeIllegalMove || de.Message != "Illegal move: 4,4 → 5,5" {
		t.Fatalf("illegal: %+v", de)
	}
}

func TestErrorMapping(t *testing.T) {
	f := newFormatter(t)
	cases := []struct {
		err   error
		code  string
		retry bool
	}{
		{fmt.Errorf("%w: x", checkers.ErrInvalidToken), checkersdto.CodeInvalidToken, false},
		{pvpcheckers.ErrConcurrent, checkersdto.CodeConflict, true},
		{pvpcheckers.ErrNotYourTurn, checkersdto.CodeNotYourTurn, false},
		{pvpcheckers.ErrNoGame, checkersdto.CodeNotFound, false},
		{fmt.Errorf("%w: u1", pvpcheckers.ErrAlreadyPlaying), checkersdto.CodeConflict, false},
		{pvpchan.ErrFull, checkersdto.CodeLobbyFull, false},
		{pvpchan.ErrChannelGone, checkersdto.CodeNotFound, false},
		{pvp.ErrNoPendingForUser, checkersdto.CodeNotFound, false},
		{pvp.ErrAlreadyPending, checkersdto.CodeConflict, false},
		{pvp.ErrSelfChallenge, checkersdto.CodeBadRequest, false},
		{ErrBadRequest, checkersdto.CodeBadRequest, false},
		{ErrUnavailable, checkersdto.CodeUnavailable, true},
		{errors.New("boom"), checkersdto.CodeInternal, true},
	}
	for _, tc := range cases {
		de := f.Error(tc.err)
		if de.Code != tc.code || de.Retryable != tc.retry || de.Message == "" {
			t.Fatalf("Error(%v) = %+v, want code %s retry %v", tc.err, de, tc.code, tc.retry)
		}
	}
	if f.Error(nil) != nil {
		t.Fatalf("nil error must map to nil")
	}
}

func TestStateOf(t *testing.T) {
	s := checkers.NewSession(checkers.Small, checkers.First)
	st := StateOf(s)
	if len(st.Pieces) != 24 || st.Set != "W" || st.ActiveTeam != "W" || st.Dimension != 8 {
		t.Fatalf("unexpected state: set=%s active=%s dim=%d pieces=%d", st.Set, st.ActiveTeam, st.Dimension, len(st.Pieces))
	}
	l, err := checkers.ParseLink(st.Link)
	if err != nil || l.Board != st.Board || l.Size != "s" {
		t.Fatalf("link does not round trip: %v %+v", err, l)
	}
}

func TestGameStateAndText(t *testing.T) {
	f := newFormatter(t)
	tok := checkers.NewSession(checkers.Small, checkers.First).ToToken()
	g := &pvpcheckers.Game{
		ID: "g1", Board: tok.Board, Size: tok.Size, Set: tok.Set,
		Status: pvpcheckers.StatusResigned, WhiteID: "u1", WhiteName: "Alice", RedID: "u2", RedName: "Bob", Winner: "u1",
	}
	st, s, err := GameState(g)
	if err != nil {
		t.Fatalf("GameState: %v", err)
	}
	if st.GameID != "g1" || st.Winner != "W" || st.White != "Alice" || st.Status != "RESIGNED" {
		t.Fatalf("unexpected state: %+v", st)
	}
	text := f.GameText(g, s)
	if !strings.HasPrefix(text, "Alice vs Bob\n") || !strings.HasSuffix(text, "Bob resigned") {
		t.Fatalf("GameText = %q", text)
	}
}

func TestLobbyText(t *testing.T) {
	f := newFormatter(t)
	if got := f.LobbyList(nil); got != "No open lobbies." {
		t.Fatalf("empty list = %q", got)
	}
	list := []*pvpchan.ChannelMeta{{ID: "CK-AAAAAA", CreatorName: "Alice", Size: "l", State: pvpchan.StateLobby, CreatedAt: time.Unix(0, 0)}}
	if got := f.LobbyList(list); got != "CK-AAAAAA • Alice • 10x10" {
		t.Fatalf("list = %q", got)
	}
	dto := ToDTOLobbies(list)
	if len(dto) != 1 || dto[0].Code != "CK-AAAAAA" || dto[0].Started || dto[0].CreatedAt != "1970-01-01T00:00:00Z" {
		t.Fatalf("dto = %+v", dto[0])
	}
	jr := &pvpchan.JoinResult{Started: true, Meta: &pvpchan.ChannelMeta{ID: "CK-AAAAAA", WhiteName: "Alice", RedName: "Bob"}}
	if got := f.LobbyJoined(jr); got != "Lobby CK-AAAAAA started: Alice (white) vs Bob (red)" {
		t.Fatalf("joined = %q", got)
	}
}

func TestChallengeText(t *testing.T) {
	f := newFormatter(t)
	ch := &pvp.Challenge{ChallengerName: "Alice", TargetID: "u2", Size: "l"}
	if got := f.ChallengeSent(ch); got != "Alice challenged u2 to 10x10 checkers." {
		t.Fatalf("sent = %q", got)
	}
	if got := f.ChallengeDeclined(ch); got != "u2 declined the challenge." {
		t.Fatalf("declined = %q", got)
	}
	g := &pvpcheckers.Game{WhiteName: "Bob", RedName: "Alice"}
	if got := f.ChallengeAccepted(g); got != "Challenge accepted: Bob (white) vs Alice (red)" {
		t.Fatalf("accepted = %q", got)
	}
}
