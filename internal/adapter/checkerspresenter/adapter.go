package checkerspresenter

import (
	"time"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/pvp"
	"github.com/park285/checkers-link/internal/pvpchan"
	"github.com/park285/checkers-link/internal/pvpcheckers"
	"github.com/park285/checkers-link/pkg/checkersdto"
)

// StateOf snapshots a session into its transport form.
func StateOf(s *checkers.Session) *checkersdto.SessionState {
	if s == nil {
		return nil
	}
	tok := s.ToToken()
	b := s.Board()
	state := &checkersdto.SessionState{
		Board:      tok.Board,
		Size:       tok.Size,
		Set:        tok.Set,
		Dimension:  b.Dimension(),
		ActiveTeam: s.ActiveTeam().Symbol(),
		Link:       checkers.Link{Token: tok}.Encode(),
	}
	if c, ok := s.ChainPiece(); ok {
		state.Chain = c.String()
	}
	if w, ok := s.Winner(); ok {
		state.Winner = w.Symbol()
	}
	for _, team := range []checkers.Team{checkers.First, checkers.Second} {
		for _, p := range b.Pieces(team) {
			state.Pieces = append(state.Pieces, checkersdto.PieceState{
				Column: p.Column(),
				Row:    p.Row(),
				Team:   p.Team().Symbol(),
				Rank:   p.Rank().Symbol(),
			})
		}
	}
	return state
}

// GameState is StateOf for a stored PvP game plus its players and status.
func GameState(g *pvpcheckers.Game) (*checkersdto.SessionState, *checkers.Session, error) {
	s, err := g.Session()
	if err != nil {
		return nil, nil, err
	}
	state := StateOf(s)
	state.GameID = g.ID
	state.Status = string(g.Status)
	state.White = g.WhiteName
	state.Red = g.RedName
	if g.Status == pvpcheckers.StatusResigned {
		if team, ok := g.TeamOf(g.Winner); ok {
			state.Winner = team.Symbol()
		}
	}
	return state, s, nil
}

func ToDTOLobby(m *pvpchan.ChannelMeta) *checkersdto.LobbyState {
	if m == nil {
		return nil
	}
	return &checkersdto.LobbyState{
		Code:      m.ID,
		State:     string(m.State),
		Size:      m.Size,
		Creator:   m.CreatorName,
		GameID:    m.GameID,
		Started:   m.GameID != "",
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToDTOLobbies(list []*pvpchan.ChannelMeta) []*checkersdto.LobbyState {
	out := make([]*checkersdto.LobbyState, 0, len(list))
	for _, m := range list {
		if m == nil {
			continue
		}
		out = append(out, ToDTOLobby(m))
	}
	return out
}

func ToDTOChallenge(ch *pvp.Challenge) *checkersdto.ChallengeState {
	if ch == nil {
		return nil
	}
	return &checkersdto.ChallengeState{
		ID:         ch.ID,
		Challenger: ch.ChallengerName,
		Target:     ch.TargetID,
		Size:       ch.Size,
		Status:     string(ch.Status),
		GameID:     ch.GameID,
		CreatedAt:  ch.CreatedAt.UTC().Format(time.RFC3339),
	}
}
